package config

import (
	"errors"
	"fmt"
	"os"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.BarksRootDir == "" {
		return fmt.Errorf("paths.barks_root_dir must be set (or export %s)", envBarksRootDir)
	}
	if c.Paths.ComicsDatabaseDir == "" {
		return fmt.Errorf("paths.comics_database_dir must be set (or export %s)", envComicsDatabaseDir)
	}
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	if c.Metadata.TablesPath == "" {
		return nil
	}
	info, err := os.Stat(c.Metadata.TablesPath)
	if err != nil {
		return fmt.Errorf("metadata.tables_path: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("metadata.tables_path %q is a directory", c.Metadata.TablesPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
