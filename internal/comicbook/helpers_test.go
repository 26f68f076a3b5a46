package comicbook_test

import (
	"testing"

	"barks/internal/comicbook"
	"barks/internal/logging"
	"barks/internal/metadata"
	"barks/internal/testsupport"
)

var scenarioPages = [][2]string{
	{"001", "COVER"},
	{"002-004", "BODY"},
	{"005", "BACK_NO_PANELS"},
}

func storyConfig(title string) testsupport.StoryConfig {
	return testsupport.StoryConfig{
		Name: title,
		Info: map[string]string{
			"title":        title,
			"file_title":   title,
			"source_comic": "FANTA_02",
		},
		Pages: scenarioPages,
	}
}

func newArchive(t *testing.T) *testsupport.Archive {
	t.Helper()
	a := testsupport.NewArchive(t)
	a.MakeStageDirs(testsupport.FixtureVolumeTitle)
	return a
}

func loadComic(t *testing.T, a *testsupport.Archive, cfg testsupport.StoryConfig) (*comicbook.ComicBook, error) {
	t.Helper()
	tables := testsupport.MustTables(t)
	stories, err := metadata.LoadStories(metadata.StoriesPath(a.DatabaseDir), tables)
	if err != nil {
		t.Fatalf("load stories: %v", err)
	}
	return comicbook.Load(comicbook.LoadParams{
		IniFile:  a.WriteStoryConfig(cfg),
		Tables:   tables,
		Stories:  stories,
		Layout:   a.Layout,
		InsetDir: a.StoryTitlesDir(),
		FontsDir: "/fonts",
		Logger:   logging.NewNop(),
	})
}

func mustLoadComic(t *testing.T, a *testsupport.Archive, cfg testsupport.StoryConfig) *comicbook.ComicBook {
	t.Helper()
	comic, err := loadComic(t, a, cfg)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return comic
}
