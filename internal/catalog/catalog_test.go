package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"barks/internal/catalog"
	"barks/internal/errs"
	"barks/internal/layout"
	"barks/internal/logging"
	"barks/internal/testsupport"
)

func newCatalog(t *testing.T) (*catalog.Catalog, *testsupport.Archive) {
	t.Helper()
	a := testsupport.NewArchive(t)
	a.MakeStageDirs(testsupport.FixtureVolumeTitle)

	for _, story := range []struct{ title, source string }{
		{"Frozen Gold", "FANTA_02"},
		{"Silent Night", "FANTA_02"},
		{"The Victory Garden", "FANTA_02"},
		{"The Rabbit's Foot", "FANTA_02"},
		{"Mystery of the Swamp", "FANTA_03"},
	} {
		a.WriteStoryConfig(testsupport.StoryConfig{
			Name: story.title,
			Info: map[string]string{
				"title":        story.title,
				"file_title":   story.title,
				"source_comic": story.source,
			},
			Pages: [][2]string{{"001", "COVER"}, {"002-003", "BODY"}},
		})
	}
	testsupport.Symlink(t, filepath.Join(a.StoryTitlesDir(), "Frozen Gold.ini"), filepath.Join(a.StoryTitlesDir(), "Alias.ini"))
	testsupport.WriteText(t, filepath.Join(a.StoryTitlesDir(), "notes.txt"), "not a config")

	cat, err := catalog.Open(catalog.Options{
		DatabaseDir: a.DatabaseDir,
		Tables:      testsupport.MustTables(t),
		Layout:      a.Layout,
		FontsDir:    "/fonts",
		Logger:      logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return cat, a
}

func TestAllStoryTitlesExcludesSymlinks(t *testing.T) {
	cat, _ := newCatalog(t)
	want := []string{"Frozen Gold", "Mystery of the Swamp", "Silent Night", "The Rabbit's Foot", "The Victory Garden"}
	if got := cat.AllStoryTitles(); !reflect.DeepEqual(got, want) {
		t.Fatalf("AllStoryTitles() = %v, want %v", got, want)
	}
}

func TestIsStoryTitle(t *testing.T) {
	cat, _ := newCatalog(t)

	tests := []struct {
		title   string
		found   bool
		closest string
	}{
		{"Frozen Gold", true, ""},
		{"Frozen Gol", false, "Frozen Gold"},
		{"Alias", false, ""},
		{"qqqq", false, ""},
	}
	for _, tt := range tests {
		found, closest := cat.IsStoryTitle(tt.title)
		if found != tt.found || closest != tt.closest {
			t.Errorf("IsStoryTitle(%q) = %v, %q; want %v, %q", tt.title, found, closest, tt.found, tt.closest)
		}
	}
}

func TestStoryTitleFromIssue(t *testing.T) {
	cat, _ := newCatalog(t)

	found, titles, _ := cat.StoryTitleFromIssue("fc 62")
	if !found || !reflect.DeepEqual(titles, []string{"Frozen Gold"}) {
		t.Fatalf("fc 62: got %v %v", found, titles)
	}

	found, titles, _ = cat.StoryTitleFromIssue("WDCS 31")
	if !found || !reflect.DeepEqual(titles, []string{"The Victory Garden", "The Rabbit's Foot"}) {
		t.Fatalf("WDCS 31: got %v %v", found, titles)
	}

	found, titles, closest := cat.StoryTitleFromIssue("FC 63")
	if found || titles != nil || closest != "FC 62" {
		t.Fatalf("FC 63: got %v %v %q", found, titles, closest)
	}
}

func TestComicBookLookup(t *testing.T) {
	cat, _ := newCatalog(t)

	comic, err := cat.ComicBook("FC 62", true)
	if err != nil {
		t.Fatalf("ComicBook by issue: %v", err)
	}
	if comic.LookupTitle() != "Frozen Gold" {
		t.Fatalf("unexpected story %q", comic.LookupTitle())
	}

	comic, err = cat.ComicBook("Silent Night", true)
	if err != nil {
		t.Fatalf("ComicBook by title: %v", err)
	}
	if comic.Info.ChronologicalNumber != 2 {
		t.Fatalf("unexpected chronological number %d", comic.Info.ChronologicalNumber)
	}

	_, err = cat.ComicBook("WDCS 31", true)
	if !errors.Is(err, errs.ErrAmbiguous) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"The Victory Garden", "The Rabbit's Foot"`) {
		t.Fatalf("expected titles listed, got %v", err)
	}

	_, err = cat.ComicBook("Frozen Gol", true)
	if !errors.Is(err, errs.ErrNotFound) || !strings.Contains(err.Error(), `did you mean "Frozen Gold"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}

	_, err = cat.ComicBook("FC 62", false)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("issue labels must be ignored when disallowed, got %v", err)
	}
}

func TestStoryTitlesInVolumes(t *testing.T) {
	cat, _ := newCatalog(t)

	got, err := cat.StoryTitlesInVolumes([]int{3})
	if err != nil {
		t.Fatalf("StoryTitlesInVolumes: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Mystery of the Swamp"}) {
		t.Fatalf("volume 3: %v", got)
	}

	got, err = cat.StoryTitlesInVolumes([]int{2, 3})
	if err != nil {
		t.Fatalf("StoryTitlesInVolumes: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("volumes 2,3: %v", got)
	}
}

func TestVolumeDirectories(t *testing.T) {
	cat, a := newCatalog(t)

	dir, err := cat.VolumeDir(layout.Upscayled, 2)
	if err != nil {
		t.Fatalf("VolumeDir: %v", err)
	}
	if dir != filepath.Join(a.Root, "Fantagraphics-upscayled", testsupport.FixtureVolumeTitle) {
		t.Fatalf("VolumeDir = %q", dir)
	}
	if cat.RootDir(layout.PanelSegments) != filepath.Join(a.Root, "Fantagraphics-panel-segments") {
		t.Fatalf("RootDir = %q", cat.RootDir(layout.PanelSegments))
	}
	if _, err := cat.VolumeTitle(99); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for unknown volume, got %v", err)
	}
}

func TestMakeAllDirectoriesIsIdempotent(t *testing.T) {
	cat, a := newCatalog(t)
	title := "Carl Barks Vol. 3 - Donald Duck - Mystery of the Swamp"

	created, err := cat.MakeAllDirectories([]int{3})
	if err != nil {
		t.Fatalf("MakeAllDirectories: %v", err)
	}
	if len(created) != len(layout.AllStages())-1 {
		t.Fatalf("expected %d dirs, got %d", len(layout.AllStages())-1, len(created))
	}
	for _, dir := range created {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected %s to exist", dir)
		}
	}
	if _, err := os.Stat(a.Layout.VolumeDir(layout.Original, title)); !os.IsNotExist(err) {
		t.Fatalf("original scans directory must not be created, stat err %v", err)
	}
	if _, err := cat.MakeAllDirectories([]int{3}); err != nil {
		t.Fatalf("second MakeAllDirectories: %v", err)
	}
}

func TestOpenResolvesDatabaseDir(t *testing.T) {
	a := testsupport.NewArchive(t)
	link := filepath.Join(t.TempDir(), "db-link")
	testsupport.Symlink(t, a.DatabaseDir, link)

	cat, err := catalog.Open(catalog.Options{DatabaseDir: link, Tables: testsupport.MustTables(t), Layout: a.Layout})
	if err != nil {
		t.Fatalf("Open via symlink: %v", err)
	}
	want, _ := filepath.EvalSymlinks(a.DatabaseDir)
	if cat.DatabaseDir() != want {
		t.Fatalf("DatabaseDir() = %q, want %q", cat.DatabaseDir(), want)
	}

	_, err = catalog.Open(catalog.Options{DatabaseDir: filepath.Join(t.TempDir(), "missing"), Tables: testsupport.MustTables(t)})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
