package reconcile_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barks/internal/errs"
	"barks/internal/logging"
	"barks/internal/reconcile"
)

const testSources = `
[[routes]]
issue_name = "Walt Disney's Comics and Stories"
canonical = "Comics and Stories"
prefix = "W WDC"
file = "sub-dates-cs.txt"

[[routes]]
issue_name = "Donald Duck Four Color"
canonical = "Four Color"
prefix = "W OS"
file = "sub-dates-os.txt"

[fixups]
"The Rabbit's Foot" = "rabbit foot"
`

const testStoryIndex = `Frozen Gold "Donald Duck Four Color" #62 (Jan 1945)
Victory Garden "Walt Disney's Comics and Stories" #31 (April 1943)
The Rabbit's Foot "Walt Disney's Comics and Stories" #31 (April 1943)
Bird Watching "Dell Giveaway" #1 (1950)
`

const testSubDatesCS = `W WDC 31 - DD Victory Garden
Submission: 1942, September 8
W WDC 31 - DD Lucky Rabbit Foot
Submission: 1942, September 10
`

const testSubDatesOS = `W OS 62 - DD Frozen Gold
Submission: 1944, July 22
`

func mustSources(t *testing.T) *reconcile.Sources {
	t.Helper()
	sources, err := reconcile.ParseSources([]byte(testSources))
	if err != nil {
		t.Fatalf("ParseSources: %v", err)
	}
	return sources
}

func writeIndexDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		reconcile.StoryIndexFile: testStoryIndex,
		"sub-dates-cs.txt":       testSubDatesCS,
		"sub-dates-os.txt":       testSubDatesOS,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestEmbeddedSourcesLoad(t *testing.T) {
	sources, err := reconcile.LoadSources()
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	route, ok := sources.Route("Walt Disney's Comics and Stories")
	if !ok || route.Prefix != "W WDC" || route.Canonical != "Comics and Stories" {
		t.Fatalf("unexpected route %+v (found %v)", route, ok)
	}
	if fixed, ok := sources.Fixup("If the Hat Fits"); !ok || fixed != "hats and huge sombrero" {
		t.Fatalf("Fixup = %q, %v", fixed, ok)
	}
	files := sources.SubmissionFiles()
	for i := 1; i < len(files); i++ {
		if files[i-1].Prefix >= files[i].Prefix {
			t.Fatalf("submission files not sorted by distinct prefix: %+v", files)
		}
	}
}

func TestParseSourcesRejectsDuplicateRoute(t *testing.T) {
	doc := testSources + `
[[routes]]
issue_name = "Donald Duck Four Color"
canonical = "Four Color"
prefix = "W OS"
file = "other.txt"
`
	if _, err := reconcile.ParseSources([]byte(doc)); !errors.Is(err, errs.ErrConsistency) {
		t.Fatalf("err = %v, want consistency error", err)
	}
}

func TestMatch(t *testing.T) {
	sources := mustSources(t)
	garden := reconcile.SubmissionEntry{Title: "Victory Garden", Year: 1942, Month: 9, Day: 8}
	rabbit := reconcile.SubmissionEntry{Title: "Lucky Rabbit Foot", Year: 1942, Month: 9, Day: 10}
	pair := []reconcile.SubmissionEntry{garden, rabbit}

	tests := []struct {
		name       string
		title      string
		candidates []reconcile.SubmissionEntry
		want       reconcile.SubmissionEntry
		wantErr    error
	}{
		{"single candidate wins", "Anything At All", []reconcile.SubmissionEntry{rabbit}, rabbit, nil},
		{"case folded containment", "VICTORY GARDEN", pair, garden, nil},
		{"candidate inside title", "The Victory Garden Caper", pair, garden, nil},
		{"fixup", "The Rabbit's Foot", pair, rabbit, nil},
		{"no match", "Lifeguard", pair, reconcile.SubmissionEntry{}, errs.ErrFormat},
		{"no candidates", "Lifeguard", nil, reconcile.SubmissionEntry{}, errs.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reconcile.Match(tt.title, tt.candidates, sources)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Match = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSortBySubmissionIsStable(t *testing.T) {
	records := []reconcile.Record{
		{Title: "C", SubmittedYear: 1943, SubmittedMonth: 1, SubmittedDay: 5},
		{Title: "A", SubmittedYear: 1942, SubmittedMonth: 9, SubmittedDay: -1},
		{Title: "B", SubmittedYear: 1942, SubmittedMonth: 9, SubmittedDay: -1},
		{Title: "D", SubmittedYear: 1942, SubmittedMonth: 3, SubmittedDay: 30},
	}
	reconcile.SortBySubmission(records)

	var got []string
	for _, r := range records {
		got = append(got, r.Title)
	}
	if strings.Join(got, ",") != "D,A,B,C" {
		t.Fatalf("order = %v, want D,A,B,C", got)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	records := []reconcile.Record{
		{Title: "Victory Garden", IssueName: "Comics and Stories", IssueNumber: 31, IssueYear: 1943, IssueMonth: 4, SubmittedYear: 1942, SubmittedMonth: 9, SubmittedDay: 8},
		{Title: `Trick or Treat, "Halloween"`, IssueName: "Four Color", IssueNumber: 26, IssueYear: 1952, IssueMonth: -1, SubmittedYear: -1, SubmittedMonth: -1, SubmittedDay: -1},
	}
	var buf bytes.Buffer
	if err := reconcile.WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	read, err := reconcile.ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if err := reconcile.VerifyRoundTrip(records, read); err != nil {
		t.Fatalf("VerifyRoundTrip: %v", err)
	}

	read[1].SubmittedDay = 1
	if err := reconcile.VerifyRoundTrip(records, read); !errors.Is(err, errs.ErrConsistency) {
		t.Fatalf("expected consistency error for changed record, got %v", err)
	}
	if err := reconcile.VerifyRoundTrip(records, read[:1]); !errors.Is(err, errs.ErrConsistency) {
		t.Fatalf("expected consistency error for missing record, got %v", err)
	}
}

func TestReadCSVRejectsBadNumbers(t *testing.T) {
	_, err := reconcile.ReadCSV(strings.NewReader("Swamp,Four Color,x,1943,1,1942,5,1\n"))
	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("err = %v, want format error", err)
	}
	_, err = reconcile.ReadCSV(strings.NewReader("Swamp,Four Color,29\n"))
	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("err = %v, want format error for short row", err)
	}
}

func TestBuildReportsMissingIssue(t *testing.T) {
	sources := mustSources(t)
	stories := []reconcile.StoryEntry{{Title: "Lifeguard", IssueName: "Walt Disney's Comics and Stories", IssueNumber: "32", IssueYear: 1943, IssueMonth: 5}}
	_, err := reconcile.Build(stories, map[string]reconcile.SubmissionIndex{}, sources, logging.NewNop())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRunWritesSortedCSV(t *testing.T) {
	dir := writeIndexDir(t)
	output := filepath.Join(t.TempDir(), "the-stories.csv")

	records, err := reconcile.Run(reconcile.Options{IndexDir: dir, Output: output, Sources: mustSources(t), Logger: logging.NewNop()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (unrouted story skipped): %+v", len(records), records)
	}
	want := []string{"Victory Garden", "The Rabbit's Foot", "Frozen Gold"}
	for i, title := range want {
		if records[i].Title != title {
			t.Fatalf("record %d = %q, want %q", i, records[i].Title, title)
		}
	}
	if records[2].IssueName != "Four Color" || records[2].IssueNumber != 62 {
		t.Fatalf("unexpected canonical issue: %+v", records[2])
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	firstLine := strings.SplitN(string(data), "\n", 2)[0]
	if firstLine != "Victory Garden,Comics and Stories,31,1943,4,1942,9,8" {
		t.Fatalf("unexpected first csv line %q", firstLine)
	}

	report := reconcile.Report(records)
	for _, text := range []string{"Victory Garden", "Apr 1943", "September 8th, 1942", "Submitted"} {
		if !strings.Contains(report, text) {
			t.Fatalf("report missing %q:\n%s", text, report)
		}
	}
}

func TestReportKeepsHeaderCase(t *testing.T) {
	report := reconcile.Report([]reconcile.Record{{
		Title: "Frozen Gold", IssueName: "Four Color", IssueNumber: 62,
		IssueYear: 1945, IssueMonth: 1,
		SubmittedYear: 1944, SubmittedMonth: 7, SubmittedDay: 22,
	}})
	for _, header := range []string{"Title", "Issue", "Number", "Published", "Submitted"} {
		if !strings.Contains(report, header) {
			t.Fatalf("report missing header %q:\n%s", header, report)
		}
	}
	if strings.Contains(report, "SUBMITTED") {
		t.Fatalf("report header was upper-cased:\n%s", report)
	}
	if !strings.Contains(report, "July 22nd, 1944") {
		t.Fatalf("report missing submission date:\n%s", report)
	}
}

func TestRunMissingSubmissionFile(t *testing.T) {
	dir := writeIndexDir(t)
	if err := os.Remove(filepath.Join(dir, "sub-dates-os.txt")); err != nil {
		t.Fatal(err)
	}
	_, err := reconcile.Run(reconcile.Options{IndexDir: dir, Output: filepath.Join(t.TempDir(), "out.csv"), Sources: mustSources(t)})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
