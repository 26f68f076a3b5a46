package reconcile

import (
	"fmt"
	"strings"

	"barks/internal/errs"
	"barks/internal/textutil"
)

// Match picks the submission entry for a story title. A single candidate
// always wins. Otherwise the first candidate whose title contains, or is
// contained in, the story title is used; failing that the fixup wording for
// the title is tried the same way.
func Match(title string, candidates []SubmissionEntry, sources *Sources) (SubmissionEntry, error) {
	switch len(candidates) {
	case 0:
		return SubmissionEntry{}, errs.NotFound("reconcile", "match", fmt.Sprintf("no submission entries for %q", title))
	case 1:
		return candidates[0], nil
	}

	for _, candidate := range candidates {
		if textutil.ContainsEither(title, candidate.Title) {
			return candidate, nil
		}
	}
	if sources != nil {
		if fixed, ok := sources.Fixup(title); ok {
			for _, candidate := range candidates {
				if textutil.ContainsEither(fixed, candidate.Title) {
					return candidate, nil
				}
			}
		}
	}

	titles := make([]string, len(candidates))
	for i, candidate := range candidates {
		titles[i] = fmt.Sprintf("%q", textutil.Fold(candidate.Title))
	}
	return SubmissionEntry{}, errs.Malformed("reconcile", "match", fmt.Sprintf(
		"could not match %q against %s; add a title fixup", title, strings.Join(titles, ", ")))
}
