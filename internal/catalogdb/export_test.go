package catalogdb_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barks/internal/catalogdb"
	"barks/internal/metadata"
	"barks/internal/testsupport"
)

func fixtureSnapshot(t *testing.T) catalogdb.Snapshot {
	t.Helper()
	tables := testsupport.MustTables(t)
	stories, err := metadata.ReadStories(strings.NewReader(testsupport.FixtureStoriesCSV), tables)
	if err != nil {
		t.Fatalf("ReadStories: %v", err)
	}
	return catalogdb.NewSnapshot(tables, stories, map[string]string{"Frozen Gold": "FANTA_02"})
}

func openSnapshot(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestExportWritesStoriesAndSourceBooks(t *testing.T) {
	snap := fixtureSnapshot(t)
	if len(snap.SourceBooks) != 2 || snap.SourceBooks[0].Key != "FANTA_02" {
		t.Fatalf("unexpected source books %+v", snap.SourceBooks)
	}
	if len(snap.Stories) != 5 || snap.Stories[0].Title != "Frozen Gold" {
		t.Fatalf("unexpected stories %+v", snap.Stories)
	}

	path := filepath.Join(t.TempDir(), "export", "catalog.db")
	if err := catalogdb.Export(context.Background(), path, snap); err != nil {
		t.Fatalf("Export: %v", err)
	}

	db := openSnapshot(t, path)
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM stories").Scan(&count); err != nil {
		t.Fatalf("count stories: %v", err)
	}
	if count != 5 {
		t.Fatalf("stories = %d, want 5", count)
	}

	var issueTitle string
	var sourceKey sql.NullString
	var chrono int
	err := db.QueryRow("SELECT issue_title, source_key, chronological_number FROM stories WHERE title = ?", "Frozen Gold").
		Scan(&issueTitle, &sourceKey, &chrono)
	if err != nil {
		t.Fatalf("query Frozen Gold: %v", err)
	}
	if issueTitle != "FC 62" || !sourceKey.Valid || sourceKey.String != "FANTA_02" || chrono != 1 {
		t.Fatalf("unexpected row: %q %v %d", issueTitle, sourceKey, chrono)
	}

	if err := db.QueryRow("SELECT source_key FROM stories WHERE title = ?", "Silent Night").Scan(&sourceKey); err != nil {
		t.Fatalf("query Silent Night: %v", err)
	}
	if sourceKey.Valid {
		t.Fatalf("expected NULL source key for story without config, got %q", sourceKey.String)
	}

	var shared int
	if err := db.QueryRow("SELECT COUNT(*) FROM stories WHERE issue_title = 'WDCS 31'").Scan(&shared); err != nil {
		t.Fatalf("count shared issue: %v", err)
	}
	if shared != 2 {
		t.Fatalf("stories in WDCS 31 = %d, want 2", shared)
	}
}

func TestExportReplacesExistingSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	if err := os.WriteFile(path, []byte("not a database"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := fixtureSnapshot(t)
	snap.Stories = snap.Stories[:1]
	for range 2 {
		if err := catalogdb.Export(context.Background(), path, snap); err != nil {
			t.Fatalf("Export: %v", err)
		}
	}

	db := openSnapshot(t, path)
	var count, version int
	if err := db.QueryRow("SELECT COUNT(*) FROM stories").Scan(&count); err != nil {
		t.Fatalf("count stories: %v", err)
	}
	if count != 1 {
		t.Fatalf("stories = %d, want 1", count)
	}
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != 1 {
		t.Fatalf("schema version = %d", version)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file removed, stat err = %v", err)
	}
}

func TestExportCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "catalog.db")
	if err := catalogdb.Export(ctx, path, fixtureSnapshot(t)); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no snapshot after failure, stat err = %v", err)
	}
}
