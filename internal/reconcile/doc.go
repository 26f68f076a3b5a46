// Package reconcile rebuilds the curated stories CSV from two historical
// plain-text indexes: a story index listing each story with its issue and
// publication date, and per-publication submission indexes listing the date
// each issue's stories were submitted.
//
// Stories are matched to submission entries by case-folded title containment
// in either direction, then through a hand-maintained fixup table of known
// title variants. Anything still unmatched is a format error that needs a
// manual fixup. The output is sorted by submission date and re-read to check
// that every value survives the round trip.
package reconcile
