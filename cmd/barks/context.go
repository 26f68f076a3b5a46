package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"barks/internal/catalog"
	"barks/internal/config"
	"barks/internal/layout"
	"barks/internal/logging"
	"barks/internal/metadata"
)

type globalFlags struct {
	config            string
	comicsDatabaseDir string
	logLevel          string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	catalogOnce sync.Once
	catalog     *catalog.Catalog
	catalogErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) configPath() string {
	if c.flags == nil {
		return ""
	}
	return strings.TrimSpace(c.flags.config)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyOverrides folds the persistent flags into a loaded config.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if c.flags == nil {
		return nil
	}
	if dir := strings.TrimSpace(c.flags.comicsDatabaseDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return fmt.Errorf("--comics-database-dir: %w", err)
		}
		cfg.Paths.ComicsDatabaseDir = expanded
	}
	if level := strings.TrimSpace(c.flags.logLevel); level != "" {
		cfg.Logging.Level = strings.ToLower(level)
	}
	return cfg.Validate()
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, logging.NewRunID())
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureCatalog() (*catalog.Catalog, error) {
	c.catalogOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.catalogErr = err
			return
		}
		logger, err := c.ensureLogger()
		if err != nil {
			c.catalogErr = err
			return
		}
		tables, err := loadTables(cfg)
		if err != nil {
			c.catalogErr = err
			return
		}
		c.catalog, c.catalogErr = catalog.Open(catalog.Options{
			DatabaseDir: cfg.Paths.ComicsDatabaseDir,
			Tables:      tables,
			Layout:      layout.New(cfg.Paths.BarksRootDir),
			FontsDir:    cfg.Paths.FontsDir,
			Logger:      logger,
		})
	})
	return c.catalog, c.catalogErr
}

func loadTables(cfg *config.Config) (*metadata.Tables, error) {
	if cfg.Metadata.TablesPath != "" {
		return metadata.LoadTablesFile(cfg.Metadata.TablesPath)
	}
	return metadata.LoadTables()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
