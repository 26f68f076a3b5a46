package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"barks/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Log output stays on the console.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BarksRootDir = filepath.Join(base, "Carl Barks")
	cfgVal.Paths.ComicsDatabaseDir = filepath.Join(base, "comics-database")
	cfgVal.Paths.FontsDir = filepath.Join(base, "fonts")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.LogDir = ""
	cfgVal.Segmentation.KumikoDir = filepath.Join(base, "kumiko")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithArchive points the config at an archive built by NewArchive.
func WithArchive(a *Archive) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.BarksRootDir = a.Root
		b.cfg.Paths.ComicsDatabaseDir = a.DatabaseDir
	}
}

// WithFixtureTables writes FixtureTables next to the config and points
// metadata.tables_path at it.
func WithFixtureTables() ConfigOption {
	return func(b *configBuilder) {
		b.t.Helper()
		path := filepath.Join(b.baseDir, "tables.toml")
		WriteText(b.t, path, FixtureTables)
		b.cfg.Metadata.TablesPath = path
	}
}

// WithKumikoStub installs a fake kumiko checkout and an interpreter that
// prints output regardless of its arguments.
func WithKumikoStub(output string) ConfigOption {
	return func(b *configBuilder) {
		b.t.Helper()
		script := filepath.Join(b.cfg.Segmentation.KumikoDir, "kumiko")
		WriteText(b.t, script, "# stub\n")
		python := filepath.Join(b.baseDir, "bin", "python")
		WriteText(b.t, python, "#!/bin/sh\ncat <<'JSON'\n"+output+"\nJSON\n")
		if err := os.Chmod(python, 0o755); err != nil {
			b.t.Fatalf("chmod python stub: %v", err)
		}
		b.cfg.Segmentation.Python = python
	}
}

// WriteConfig marshals cfg to a TOML file under dir and returns its path.
func WriteConfig(t testing.TB, dir string, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "barks.toml")
	WriteText(t, path, string(data))
	return path
}
