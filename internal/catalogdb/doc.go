// Package catalogdb exports a read-only SQLite snapshot of the catalog for
// ad-hoc querying. The database is rebuilt from scratch on every export and
// is never read back by barks.
package catalogdb
