package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeMetadata(); err != nil {
		return err
	}
	if err := c.normalizeSegmentation(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BarksRootDir, err = expandPath(strings.TrimSpace(c.Paths.BarksRootDir)); err != nil {
		return fmt.Errorf("paths.barks_root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ComicsDatabaseDir) == "" && c.Paths.BarksRootDir != "" {
		c.Paths.ComicsDatabaseDir = filepath.Join(c.Paths.BarksRootDir, defaultConfigsDir)
	}
	if c.Paths.ComicsDatabaseDir, err = expandPath(strings.TrimSpace(c.Paths.ComicsDatabaseDir)); err != nil {
		return fmt.Errorf("paths.comics_database_dir: %w", err)
	}
	if c.Paths.FontsDir, err = expandPath(strings.TrimSpace(c.Paths.FontsDir)); err != nil {
		return fmt.Errorf("paths.fonts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetadata() error {
	var err error
	if c.Metadata.TablesPath, err = expandPath(strings.TrimSpace(c.Metadata.TablesPath)); err != nil {
		return fmt.Errorf("metadata.tables_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSegmentation() error {
	var err error
	if strings.TrimSpace(c.Segmentation.KumikoDir) == "" {
		c.Segmentation.KumikoDir = defaultKumikoDir
	}
	if c.Segmentation.KumikoDir, err = expandPath(c.Segmentation.KumikoDir); err != nil {
		return fmt.Errorf("segmentation.kumiko_dir: %w", err)
	}
	c.Segmentation.Python = strings.TrimSpace(c.Segmentation.Python)
	if c.Segmentation.Python == "" {
		c.Segmentation.Python = defaultPython
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
