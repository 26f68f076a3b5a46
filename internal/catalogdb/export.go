package catalogdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"barks/internal/metadata"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is recorded in every snapshot. Bump it when the schema changes.
const schemaVersion = 1

// Story is one stories row.
type Story struct {
	Title string
	Info  metadata.ComicBookInfo
	// SourceKey is empty for stories without a config.
	SourceKey string
}

// Snapshot is everything written by Export.
type Snapshot struct {
	SourceBooks []metadata.SourceBook
	Stories     []Story
}

// NewSnapshot collects source books in volume order and stories in
// chronological order. sourceKeys maps configured titles to their source
// book key.
func NewSnapshot(tables *metadata.Tables, stories *metadata.Stories, sourceKeys map[string]string) Snapshot {
	var snap Snapshot
	for _, volume := range tables.Volumes() {
		if book, ok := tables.SourceBookByVolume(volume); ok {
			snap.SourceBooks = append(snap.SourceBooks, book)
		}
	}
	for _, title := range stories.Titles() {
		info, _ := stories.Get(title)
		snap.Stories = append(snap.Stories, Story{Title: title, Info: info, SourceKey: sourceKeys[title]})
	}
	return snap
}

// Export writes snap to a new SQLite database at path, replacing any
// existing file only once the new database is complete.
func Export(ctx context.Context, path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure export directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := removeIfExists(tmpPath); err != nil {
		return err
	}

	if err := write(ctx, tmpPath, snap); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func write(ctx context.Context, path string, snap Snapshot) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := insertSourceBooks(ctx, tx, snap.SourceBooks); err != nil {
		return err
	}
	if err := insertStories(ctx, tx, snap.Stories); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func insertSourceBooks(ctx context.Context, tx *sql.Tx, books []metadata.SourceBook) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO source_books
		(key, title, pub, volume, year, subdir, srce_file_ext) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare source book insert: %w", err)
	}
	defer stmt.Close()
	for _, b := range books {
		if _, err := stmt.ExecContext(ctx, b.Key, b.Title, b.Pub, b.Volume, b.Year, b.Subdir, b.SrceFileExt); err != nil {
			return fmt.Errorf("insert source book %s: %w", b.Key, err)
		}
	}
	return nil
}

func insertStories(ctx context.Context, tx *sql.Tx, stories []Story) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stories
		(title, chronological_number, issue_name, issue_title, issue_number, issue_year, issue_month,
		 submitted_year, submitted_month, submitted_day, series_name, number_in_series, colorist, source_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare story insert: %w", err)
	}
	defer stmt.Close()
	for _, s := range stories {
		info := s.Info
		var sourceKey sql.NullString
		if s.SourceKey != "" {
			sourceKey = sql.NullString{String: s.SourceKey, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			s.Title, info.ChronologicalNumber, info.IssueName, info.IssueTitle(), info.IssueNumber,
			info.IssueYear, info.IssueMonth, info.SubmittedYear, info.SubmittedMonth, info.SubmittedDay,
			info.SeriesName, info.NumberInSeries, info.Colorist, sourceKey,
		); err != nil {
			return fmt.Errorf("insert story %q: %w", s.Title, err)
		}
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale %s: %w", path, err)
	}
	return nil
}
