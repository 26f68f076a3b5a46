// Package errs defines the error markers shared by the catalog, resolver and
// reconciliation code.
//
// Every failure is fatal to the current command. The markers exist so callers
// and tests can tell the four kinds of failure apart with errors.Is:
//   - ErrNotFound: missing directories, files or story titles.
//   - ErrAmbiguous: an issue label that names more than one story.
//   - ErrConsistency: page-type/override mismatches, duplicate titles and
//     out-of-order chronological or submission data.
//   - ErrFormat: malformed index lines, CSV rows and page tokens.
package errs
