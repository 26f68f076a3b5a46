// Package config loads, normalizes, and validates barks configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the BARKS_ROOT_DIR and BARKS_COMICS_DATABASE_DIR
// environment fallbacks. The Config type centralizes the archive root, the
// comics database, the external segmentation tool and logging, so every
// command discovers them in one pass.
package config
