// Package metadata owns the static publication tables and the curated story
// CSV that together describe every story in the archive.
//
// Tables (source volumes, series membership and colorists, issue names, the
// fixes special cases) are decoded once from TOML into immutable lookup
// structures. Stories are read from the CSV in file order and numbered
// chronologically and per series; the load fails if the file is not already
// sorted by submission date.
package metadata
