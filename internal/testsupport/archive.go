package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"barks/internal/layout"
	"barks/internal/metadata"
)

// FixtureVolumeTitle is the single source volume in FixtureTables.
const FixtureVolumeTitle = "Carl Barks Vol. 2 - Donald Duck - Frozen Gold"

// FixtureTables is a small tables document with one source volume and a few
// stories, two of them sharing an issue.
const FixtureTables = `
[censored]
title = "Silent Night"
publication_issue = "Gemstone's Christmas Parade, No.3, 2005"

[[fixes_special_cases]]
title = "Silent Night"
page = "005"
reason = "censored page added from a later printing"

[[series]]
name = "Donald Duck Adventures"

[[series]]
name = "Comics and Stories"

[[issues]]
name = "Four Color"
short = "FC"

[[issues]]
name = "Comics and Stories"
short = "WDCS"

[[issues]]
name = "Uncle Scrooge"
short = "US"
as_title = "Uncle\nScrooge"

[[source_books]]
key = "FANTA_02"
title = "Carl Barks Vol. 2 - Donald Duck - Frozen Gold"
pub = "Fantagraphics"
volume = 2
year = 2024
subdir = "Fantagraphics-restored"
srce_file_ext = ".jpg"

[[source_books]]
key = "FANTA_03"
title = "Carl Barks Vol. 3 - Donald Duck - Mystery of the Swamp"
pub = "Fantagraphics"
volume = 3
year = 2024
subdir = "Fantagraphics-restored"
srce_file_ext = ".jpg"

[[stories]]
title = "Frozen Gold"
colorist = "Gary Leach"
series = "Donald Duck Adventures"

[[stories]]
title = "Silent Night"
colorist = "Susan Daigle-Leach"
series = "Comics and Stories"

[[stories]]
title = "The Victory Garden"
colorist = "Susan Daigle-Leach"
series = "Comics and Stories"

[[stories]]
title = "The Rabbit's Foot"
colorist = "Susan Daigle-Leach"
series = "Comics and Stories"

[[stories]]
title = "Mystery of the Swamp"
colorist = "Big Doors Studios"
series = "Donald Duck Adventures"
`

// FixtureStoriesCSV orders the fixture stories by submission date. The two
// Comics and Stories entries share issue WDCS 31.
const FixtureStoriesCSV = `Frozen Gold,Four Color,62,1945,1,1944,8,1
Silent Night,Comics and Stories,64,1946,1,1945,7,-1
The Victory Garden,Comics and Stories,31,1943,4,1945,8,2
The Rabbit's Foot,Comics and Stories,31,1943,4,1945,8,3
Mystery of the Swamp,Four Color,29,1943,9,1945,9,22
`

// MustTables parses FixtureTables.
func MustTables(t testing.TB) *metadata.Tables {
	t.Helper()
	tables, err := metadata.ParseTables([]byte(FixtureTables))
	if err != nil {
		t.Fatalf("parse fixture tables: %v", err)
	}
	return tables
}

// Archive is an on-disk archive root plus comics database directory.
type Archive struct {
	t           testing.TB
	Root        string
	DatabaseDir string
	Layout      layout.Layout
}

// NewArchive creates an empty archive root and database directory with the
// story-titles and story-indexes subdirectories and the fixture stories CSV.
func NewArchive(t testing.TB) *Archive {
	t.Helper()
	base := t.TempDir()
	a := &Archive{
		t:           t,
		Root:        filepath.Join(base, "Carl Barks"),
		DatabaseDir: filepath.Join(base, "comics-database"),
	}
	a.Layout = layout.New(a.Root)
	mustMkdir(t, a.Root)
	mustMkdir(t, a.StoryTitlesDir())
	WriteText(t, metadata.StoriesPath(a.DatabaseDir), FixtureStoriesCSV)
	return a
}

// StoryTitlesDir is the config directory of the database.
func (a *Archive) StoryTitlesDir() string {
	return filepath.Join(a.DatabaseDir, layout.StoryTitlesDir)
}

// MakeStageDirs creates the images directory of volumeTitle for each stage.
// With no stages it creates every stage.
func (a *Archive) MakeStageDirs(volumeTitle string, stages ...layout.Stage) {
	a.t.Helper()
	if len(stages) == 0 {
		stages = layout.AllStages()
	}
	for _, stage := range stages {
		mustMkdir(a.t, a.Layout.VolumeImageDir(stage, volumeTitle))
	}
}

// WritePage creates an image file for page in a stage of volumeTitle and
// returns its path.
func (a *Archive) WritePage(stage layout.Stage, volumeTitle, page, ext string) string {
	a.t.Helper()
	path := filepath.Join(a.Layout.VolumeImageDir(stage, volumeTitle), page+ext)
	WriteFile(a.t, path, 16)
	return path
}

// StoryConfig describes a story config file.
type StoryConfig struct {
	Name  string
	Info  map[string]string
	Pages [][2]string
}

// WriteStoryConfig writes a .ini story config into the story-titles
// directory and returns its path. Info keys are written in sorted order and
// pages in the given order.
func (a *Archive) WriteStoryConfig(cfg StoryConfig) string {
	a.t.Helper()
	var b strings.Builder
	b.WriteString("[info]\n")
	keys := make([]string, 0, len(cfg.Info))
	for k := range cfg.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := strings.ReplaceAll(cfg.Info[k], "\n", "\n    ")
		fmt.Fprintf(&b, "%s = %s\n", k, value)
	}
	b.WriteString("\n[pages]\n")
	for _, page := range cfg.Pages {
		fmt.Fprintf(&b, "%s = %s\n", page[0], page[1])
	}
	path := filepath.Join(a.StoryTitlesDir(), cfg.Name+".ini")
	WriteText(a.t, path, b.String())
	return path
}

func mustMkdir(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}
