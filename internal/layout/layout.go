// Package layout names the on-disk directory contract: one root directory per
// processing stage, one volume directory per source book under each stage
// root, an images subdirectory inside every volume directory, and the
// destination trees for the chronological library.
package layout

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stage identifies a processing stage of the source images.
type Stage int

const (
	Original Stage = iota
	OriginalFixes
	Upscayled
	UpscayledFixes
	UpscayledRestored
	Restored
	RestoredFixes
	RestoredSVG
	RestoredOCR
	PanelSegments
)

const (
	// ImagesSubdir holds the page images inside every volume directory.
	ImagesSubdir = "images"
	// ComicsSubdir is the destination library under the archive root.
	ComicsSubdir = "The Comics"
	// ChronologicalDirsSubdir holds the unpacked chronological story dirs.
	ChronologicalDirsSubdir = "aaa-Chronological-dirs"
	// ChronologicalSubdir holds the chronological .cbz archives.
	ChronologicalSubdir = "Chronological"
	// YearsSubdir holds the per-year symlink trees.
	YearsSubdir = "Chronological Years"
	// StoryTitlesDir holds the per-story configs under the database dir.
	StoryTitlesDir = "story-titles"
	// InsetSuffix is appended to a story's file title to name its inset image.
	InsetSuffix = " Inset.png"
)

type stageInfo struct {
	name    string
	dirname string
}

var stages = []stageInfo{
	Original:          {"original", "Fantagraphics"},
	OriginalFixes:     {"original-fixes", "Fantagraphics-fixes-and-additions"},
	Upscayled:         {"upscayled", "Fantagraphics-upscayled"},
	UpscayledFixes:    {"upscayled-fixes", "Fantagraphics-upscayled-fixes-and-additions"},
	UpscayledRestored: {"upscayled-restored", "Fantagraphics-upscayled-restored"},
	Restored:          {"restored", "Fantagraphics-restored"},
	RestoredFixes:     {"restored-fixes", "Fantagraphics-restored-fixes-and-additions"},
	RestoredSVG:       {"restored-svg", "Fantagraphics-restored-svg"},
	RestoredOCR:       {"restored-ocr", "Fantagraphics-restored-ocr"},
	PanelSegments:     {"panel-segments", "Fantagraphics-panel-segments"},
}

// AllStages lists every stage in declaration order.
func AllStages() []Stage {
	out := make([]Stage, len(stages))
	for i := range stages {
		out[i] = Stage(i)
	}
	return out
}

// String returns the short stage name used in logs and CLI output.
func (s Stage) String() string {
	if !s.valid() {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stages[s].name
}

// Dirname returns the stage's root directory name under the archive root.
func (s Stage) Dirname() string {
	if !s.valid() {
		return ""
	}
	return stages[s].dirname
}

// IsFixes reports whether the stage holds manual override files.
func (s Stage) IsFixes() bool {
	return s == OriginalFixes || s == UpscayledFixes || s == RestoredFixes
}

// IsRestored reports whether files in the stage must be PNG restorations.
func (s Stage) IsRestored() bool {
	return s == Restored || s == RestoredFixes || s == UpscayledRestored
}

func (s Stage) valid() bool {
	return s >= 0 && int(s) < len(stages)
}

// ParseStage resolves a stage by its short name.
func ParseStage(name string) (Stage, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, info := range stages {
		if info.name == name {
			return Stage(i), true
		}
	}
	return 0, false
}

// Layout resolves directories relative to the archive root.
type Layout struct {
	RootDir string
}

// New returns a layout rooted at rootDir.
func New(rootDir string) Layout {
	return Layout{RootDir: rootDir}
}

// StageRoot returns the root directory for a stage.
func (l Layout) StageRoot(stage Stage) string {
	return filepath.Join(l.RootDir, stage.Dirname())
}

// VolumeDir returns the directory for a volume title within a stage.
func (l Layout) VolumeDir(stage Stage, volumeTitle string) string {
	return filepath.Join(l.StageRoot(stage), volumeTitle)
}

// VolumeImageDir returns the images directory for a volume within a stage.
func (l Layout) VolumeImageDir(stage Stage, volumeTitle string) string {
	return filepath.Join(l.VolumeDir(stage, volumeTitle), ImagesSubdir)
}

// ComicsDir is the root of the destination library.
func (l Layout) ComicsDir() string {
	return filepath.Join(l.RootDir, ComicsSubdir)
}

// ChronologicalDirsDir holds one unpacked directory per story.
func (l Layout) ChronologicalDirsDir() string {
	return filepath.Join(l.ComicsDir(), ChronologicalDirsSubdir)
}

// ChronologicalZipDir holds one archive per story.
func (l Layout) ChronologicalZipDir() string {
	return filepath.Join(l.ComicsDir(), ChronologicalSubdir)
}

// SeriesSymlinkDir holds the symlinks for one series.
func (l Layout) SeriesSymlinkDir(series string) string {
	return filepath.Join(l.ComicsDir(), series)
}

// YearSymlinkDir holds the symlinks for stories submitted in year.
func (l Layout) YearSymlinkDir(year int) string {
	return filepath.Join(l.ComicsDir(), YearsSubdir, fmt.Sprint(year))
}
