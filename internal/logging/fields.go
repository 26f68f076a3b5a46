package logging

const (
	// FieldComponent names the package or subsystem emitting the line.
	FieldComponent = "component"
	// FieldRunID identifies one invocation of the tool.
	FieldRunID = "run_id"
	// FieldEventType classifies warnings and errors.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType names the decision being logged.
	FieldDecisionType = "decision_type"
	// FieldDecisionResult is the outcome of a decision.
	FieldDecisionResult = "decision_result"
	// FieldDecisionReason explains a decision outcome.
	FieldDecisionReason = "decision_reason"
	// FieldIniFile is the story config a line refers to.
	FieldIniFile = "ini_file"
	// FieldTitle is the story title a line refers to.
	FieldTitle = "title"
	// FieldPage is the page file stem a line refers to.
	FieldPage = "page"
	// FieldStage is the processing stage a line refers to.
	FieldStage = "stage"
)
