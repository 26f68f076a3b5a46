package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"barks/internal/config"
	"barks/internal/layout"
	"barks/internal/testsupport"
)

// fixtureStories are written as story configs; the fixture tables map
// FANTA_02 and FANTA_03 onto two source volumes.
var fixtureStories = []struct{ title, source string }{
	{"Frozen Gold", "FANTA_02"},
	{"The Victory Garden", "FANTA_02"},
	{"The Rabbit's Foot", "FANTA_02"},
	{"Mystery of the Swamp", "FANTA_03"},
}

const onePageSegment = `[{"filename": "002.jpg", "size": [2000, 3000], "numbering": "ltr",
  "panels": [[100, 120, 800, 900], [950, 120, 900, 900], [100, 1100, 1750, 1200]]}]`

type cliTestEnv struct {
	cfg        *config.Config
	archive    *testsupport.Archive
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("BARKS_ROOT_DIR", "")
	t.Setenv("BARKS_COMICS_DATABASE_DIR", "")

	a := testsupport.NewArchive(t)
	a.MakeStageDirs(testsupport.FixtureVolumeTitle)
	for _, story := range fixtureStories {
		a.WriteStoryConfig(testsupport.StoryConfig{
			Name: story.title,
			Info: map[string]string{
				"title":        story.title,
				"file_title":   story.title,
				"source_comic": story.source,
			},
			Pages: [][2]string{{"001", "COVER"}, {"002-004", "BODY"}, {"005", "BACK_NO_PANELS"}},
		})
	}
	for _, page := range []string{"001", "002", "003", "004", "005"} {
		a.WritePage(layout.Original, testsupport.FixtureVolumeTitle, page, ".jpg")
	}

	opts = append([]testsupport.ConfigOption{testsupport.WithArchive(a), testsupport.WithFixtureTables()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	configPath := testsupport.WriteConfig(t, base, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		archive:    a,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", needle, haystack)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output not to contain %q\noutput:\n%s", needle, haystack)
	}
}
