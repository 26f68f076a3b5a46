package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAmbiguous     = errors.New("ambiguous")
	ErrConsistency   = errors.New("consistency error")
	ErrFormat        = errors.New("format error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker. The marker should be one of the exported
// sentinel errors above; nil falls back to ErrConsistency.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrConsistency
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// NotFound is shorthand for Wrap(ErrNotFound, ...) without a cause.
func NotFound(component, operation, message string) error {
	return Wrap(ErrNotFound, component, operation, message, nil)
}

// Inconsistent is shorthand for Wrap(ErrConsistency, ...) without a cause.
func Inconsistent(component, operation, message string) error {
	return Wrap(ErrConsistency, component, operation, message, nil)
}

// Malformed is shorthand for Wrap(ErrFormat, ...) without a cause.
func Malformed(component, operation, message string) error {
	return Wrap(ErrFormat, component, operation, message, nil)
}

// Kind returns a short label for the marker carried by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, ErrConsistency):
		return "consistency"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "unexpected failure"
	}
	return strings.Join(parts, ": ")
}
