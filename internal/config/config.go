package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the archive and working directories.
type Paths struct {
	BarksRootDir      string `toml:"barks_root_dir"`
	ComicsDatabaseDir string `toml:"comics_database_dir"`
	FontsDir          string `toml:"fonts_dir"`
	WorkDir           string `toml:"work_dir"`
	LogDir            string `toml:"log_dir"`
}

// Metadata points at an optional replacement for the built-in tables.
type Metadata struct {
	TablesPath string `toml:"tables_path"`
}

// Segmentation configures the external panel segmentation tool.
type Segmentation struct {
	KumikoDir string `toml:"kumiko_dir"`
	Python    string `toml:"python"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for barks.
//
// Configuration sections:
//   - Paths: archive root, comics database, fonts, work and log directories
//   - Metadata: optional tables override file
//   - Segmentation: kumiko checkout and Python interpreter
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Metadata     Metadata     `toml:"metadata"`
	Segmentation Segmentation `toml:"segmentation"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// NewWorkDir creates a fresh timestamped directory under the work root.
func (c *Config) NewWorkDir(now time.Time) (string, error) {
	if err := os.MkdirAll(c.Paths.WorkDir, 0o755); err != nil {
		return "", fmt.Errorf("create work root %q: %w", c.Paths.WorkDir, err)
	}
	dir := filepath.Join(c.Paths.WorkDir, now.Format(workDirLayout))
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	return dir, nil
}

// KumikoScript returns the segmentation entry point inside the kumiko checkout.
func (c *Config) KumikoScript() string {
	return filepath.Join(c.Segmentation.KumikoDir, kumikoScript)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
