package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns a caseless, NFC-normalized form of s for title comparison.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// ContainsEither reports whether either folded string contains the other.
func ContainsEither(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// SafeTitle flattens a display title for use in file names: line breaks
// become spaces, "- " collapses to "-" and double quotes are dropped.
func SafeTitle(title string) string {
	safe := strings.ReplaceAll(title, "\n", " ")
	safe = strings.ReplaceAll(safe, "- ", "-")
	return strings.ReplaceAll(safe, `"`, "")
}
