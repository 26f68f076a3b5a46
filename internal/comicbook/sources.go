package comicbook

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"barks/internal/errs"
	"barks/internal/layout"
	"barks/internal/logging"
)

// Provenance records whether a source file is an untouched scan, a manual
// fix of an existing page, or a page added by hand.
type Provenance int

const (
	ProvenanceOriginal Provenance = iota
	ProvenanceModified
	ProvenanceAdded
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceOriginal:
		return "ORIGINAL"
	case ProvenanceModified:
		return "MODIFIED"
	case ProvenanceAdded:
		return "ADDED"
	default:
		return fmt.Sprintf("Provenance(%d)", int(p))
	}
}

// SourceFile is the authoritative image for one page.
type SourceFile struct {
	Page       OriginalPage
	Path       string
	Stage      layout.Stage
	Provenance Provenance
}

type tier struct {
	name  string
	base  layout.Stage
	fixes layout.Stage
}

var (
	restoredTier  = tier{name: "restored", base: layout.Restored, fixes: layout.RestoredFixes}
	upscayledTier = tier{name: "upscayled", base: layout.Upscayled, fixes: layout.UpscayledFixes}
	originalTier  = tier{name: "original", base: layout.Original, fixes: layout.OriginalFixes}

	// resolutionOrder is most processed first.
	resolutionOrder = []tier{restoredTier, upscayledTier}
)

const (
	jpgExt = ".jpg"
	pngExt = ".png"
)

// FinalSourceFile decides which file is authoritative for page. The original
// tier is always classified first so that a bad original fixes file fails even
// when a restored file exists; the restored and upscayled tiers are then tried
// in that order before falling back to the original tier.
func (c *ComicBook) FinalSourceFile(page OriginalPage) (SourceFile, error) {
	original, found, err := c.classifyTier(originalTier, page)
	if err != nil {
		return SourceFile{}, err
	}

	for _, t := range resolutionOrder {
		resolved, ok, err := c.classifyTier(t, page)
		if err != nil {
			return SourceFile{}, err
		}
		if !ok {
			continue
		}
		if resolved.Stage == t.base && found {
			resolved.Provenance = original.Provenance
		}
		c.logDecision(t, resolved)
		return resolved, nil
	}

	if !found {
		return SourceFile{}, errs.NotFound("comicbook", "resolve source", fmt.Sprintf(
			"%q page %s: no source file in %q or %q",
			c.LookupTitle(), page.Filenames, c.SrceImageDir(layout.Original), c.SrceImageDir(layout.OriginalFixes)))
	}
	c.logDecision(originalTier, original)
	return original, nil
}

// AllSourceFiles resolves every expanded page in order.
func (c *ComicBook) AllSourceFiles() ([]SourceFile, error) {
	out := make([]SourceFile, 0, len(c.Pages))
	for _, page := range c.Pages {
		file, err := c.FinalSourceFile(page)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, nil
}

// classifyTier applies the override rules within one tier. It reports false
// when the tier holds neither a base nor a fixes file for the page.
func (c *ComicBook) classifyTier(t tier, page OriginalPage) (SourceFile, bool, error) {
	if t.base.IsRestored() {
		if err := c.checkNoJpg(t, page); err != nil {
			return SourceFile{}, false, err
		}
	}

	basePath, baseOK := c.findPageFile(t.base, page, c.tierExts(t.base))
	fixesPath, fixesOK := c.findPageFile(t.fixes, page, c.tierExts(t.fixes))

	if !fixesOK {
		if !baseOK {
			return SourceFile{}, false, nil
		}
		return SourceFile{Page: page, Path: basePath, Stage: t.base, Provenance: ProvenanceOriginal}, true, nil
	}

	if page.Type.OverridesExistingPage() {
		if !baseOK {
			return SourceFile{}, false, errs.Inconsistent("comicbook", "resolve source", fmt.Sprintf(
				"%q page %s: %s fixes file %q must override an existing %s file, but none was found in %q",
				c.LookupTitle(), page.Filenames, page.Type, fixesPath, t.name, c.SrceImageDir(t.base)))
		}
		return SourceFile{Page: page, Path: fixesPath, Stage: t.fixes, Provenance: ProvenanceModified}, true, nil
	}

	if !c.tables.IsFixesSpecialCase(c.LookupTitle(), page.Filenames) {
		return SourceFile{}, false, errs.Inconsistent("comicbook", "resolve source", fmt.Sprintf(
			"%q page %s: fixes file %q has page type %s; expected %s or %s for an override, or a listed special case for an added page",
			c.LookupTitle(), page.Filenames, fixesPath, page.Type, Cover, Body))
	}
	return SourceFile{Page: page, Path: fixesPath, Stage: t.fixes, Provenance: ProvenanceAdded}, true, nil
}

// checkNoJpg rejects JPEG twins in restored directories, which hold PNG only.
func (c *ComicBook) checkNoJpg(t tier, page OriginalPage) error {
	for _, stage := range []layout.Stage{t.base, t.fixes} {
		path := filepath.Join(c.SrceImageDir(stage), page.Filenames+jpgExt)
		if fileExists(path) {
			return errs.Inconsistent("comicbook", "resolve source", fmt.Sprintf(
				"%q page %s: restored file %q must be %s", c.LookupTitle(), page.Filenames, path, pngExt))
		}
	}
	return nil
}

// tierExts lists candidate extensions, preferred first. Restored and
// upscaled stages hold PNG files; original scans use the volume's extension
// and fixes may be either.
func (c *ComicBook) tierExts(stage layout.Stage) []string {
	switch stage {
	case layout.Original:
		return []string{c.SrceFileExt()}
	case layout.OriginalFixes:
		return uniqueExts(c.SrceFileExt(), jpgExt, pngExt)
	default:
		return []string{pngExt}
	}
}

func uniqueExts(exts ...string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if ext == "" {
			continue
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

func (c *ComicBook) findPageFile(stage layout.Stage, page OriginalPage, exts []string) (string, bool) {
	dir := c.SrceImageDir(stage)
	for _, ext := range exts {
		path := filepath.Join(dir, page.Filenames+ext)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func (c *ComicBook) logDecision(t tier, file SourceFile) {
	attrs := logging.DecisionAttrs("source_file", file.Provenance.String(), fmt.Sprintf("%s tier, %s stage", t.name, file.Stage))
	attrs = append(attrs,
		logging.String("page", file.Page.Filenames),
		logging.String("page_type", file.Page.Type.String()),
		logging.String("path", file.Path),
	)
	c.logger.Debug("source file selected", logging.Args(attrs...)...)
}
