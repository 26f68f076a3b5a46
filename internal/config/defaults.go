package config

import "os"

const (
	defaultConfigPath   = "~/.config/barks/config.toml"
	projectConfigFile   = "barks.toml"
	defaultBarksRootDir = "~/Books/Carl Barks"
	defaultConfigsDir   = "Configs"
	defaultFontsDir     = "~/Prj/fonts"
	defaultWorkDir      = "~/.cache/barks/work"
	defaultLogDir       = "~/.local/share/barks/logs"
	defaultKumikoDir    = "~/Prj/github/kumiko"
	defaultPython       = "python3"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	kumikoScript  = "kumiko"
	workDirLayout = "2006_01_02-15_04_05.000000"

	envBarksRootDir      = "BARKS_ROOT_DIR"
	envComicsDatabaseDir = "BARKS_COMICS_DATABASE_DIR"
)

// Default returns a Config populated with defaults. The archive root and the
// comics database come from the environment when set; a config file still
// takes precedence over both.
func Default() Config {
	return Config{
		Paths: Paths{
			BarksRootDir:      envOr(envBarksRootDir, defaultBarksRootDir),
			ComicsDatabaseDir: envOr(envComicsDatabaseDir, ""),
			FontsDir:          defaultFontsDir,
			WorkDir:           defaultWorkDir,
			LogDir:            defaultLogDir,
		},
		Segmentation: Segmentation{
			KumikoDir: defaultKumikoDir,
			Python:    defaultPython,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
