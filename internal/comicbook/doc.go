// Package comicbook resolves one story config into a ComicBook: its identity,
// every source and destination path across the processing stages, the
// expanded page list and the publication text.
//
// The precedence engine in sources.go picks the authoritative image for each
// page. Restored files win over upscaled files, which win over the original
// scans, and within each stage a fixes file wins over the stage file. A
// fixes file for a COVER or BODY page modifies an existing page; for any other
// page type it adds a page and is rejected unless the title and page are
// listed as a special case in the metadata tables.
package comicbook
