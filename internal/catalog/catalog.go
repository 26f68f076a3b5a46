// Package catalog is the read-only index over the story configs directory and
// the story metadata. It looks stories up by exact title or by issue label,
// maps volume numbers onto stage directories and creates the stage directory
// tree.
package catalog

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"barks/internal/comicbook"
	"barks/internal/errs"
	"barks/internal/layout"
	"barks/internal/logging"
	"barks/internal/metadata"
	"barks/internal/textutil"
)

const (
	titleCutoff = 0.3
	issueCutoff = 0.7
	iniExt      = ".ini"
)

// DefaultVolumes are the source volumes with stage directories.
var DefaultVolumes = volumeRange(2, 20)

// Options configures Open.
type Options struct {
	DatabaseDir string
	Tables      *metadata.Tables
	Layout      layout.Layout
	FontsDir    string
	Logger      *slog.Logger
}

// Catalog is built once per process and never mutated.
type Catalog struct {
	databaseDir    string
	storyTitlesDir string
	tables         *metadata.Tables
	stories        *metadata.Stories
	layout         layout.Layout
	fontsDir       string
	iniFiles       []string
	storyTitles    map[string]struct{}
	issueTitles    map[string][]string
	logger         *slog.Logger
}

// Open indexes the database directory.
func Open(opts Options) (*Catalog, error) {
	if opts.Tables == nil {
		return nil, errs.Wrap(errs.ErrConfiguration, "catalog", "open", "tables are required", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "catalog")

	dbDir, err := realDir(opts.DatabaseDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotFound, "catalog", "open", fmt.Sprintf("could not find comics database directory %q", opts.DatabaseDir), err)
	}
	titlesDir := filepath.Join(dbDir, layout.StoryTitlesDir)
	if info, err := os.Stat(titlesDir); err != nil || !info.IsDir() {
		return nil, errs.NotFound("catalog", "open", fmt.Sprintf("could not find story titles directory %q", titlesDir))
	}

	stories, err := metadata.LoadStories(metadata.StoriesPath(dbDir), opts.Tables)
	if err != nil {
		return nil, err
	}
	iniFiles, err := listIniFiles(titlesDir)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		databaseDir:    dbDir,
		storyTitlesDir: titlesDir,
		tables:         opts.Tables,
		stories:        stories,
		layout:         opts.Layout,
		fontsDir:       opts.FontsDir,
		iniFiles:       iniFiles,
		storyTitles:    make(map[string]struct{}, len(iniFiles)),
		issueTitles:    stories.IssueTitles(),
		logger:         logger,
	}
	for _, name := range iniFiles {
		c.storyTitles[strings.TrimSuffix(name, iniExt)] = struct{}{}
	}
	logger.Debug("catalog opened",
		logging.String("database_dir", dbDir),
		logging.Int("story_configs", len(iniFiles)),
		logging.Int("stories", stories.Len()),
	)
	return c, nil
}

func realDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fs.ErrNotExist
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", err
	}
	resolved, err = filepath.Abs(resolved)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", resolved)
	}
	return resolved, nil
}

// listIniFiles returns the story config filenames, skipping symlinks.
func listIniFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotFound, "catalog", "list configs", dir, err)
	}
	var out []string
	for _, entry := range entries {
		if entry.Type()&fs.ModeSymlink != 0 || entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == iniExt {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// DatabaseDir is the resolved database directory.
func (c *Catalog) DatabaseDir() string { return c.databaseDir }

// StoryTitlesDir holds the story configs.
func (c *Catalog) StoryTitlesDir() string { return c.storyTitlesDir }

// Stories exposes the loaded story metadata.
func (c *Catalog) Stories() *metadata.Stories { return c.stories }

// Tables exposes the publication tables.
func (c *Catalog) Tables() *metadata.Tables { return c.tables }

// Layout exposes the archive layout.
func (c *Catalog) Layout() layout.Layout { return c.layout }

// IniFile returns the config path for a story title.
func (c *Catalog) IniFile(storyTitle string) string {
	return filepath.Join(c.storyTitlesDir, storyTitle+iniExt)
}

// IsStoryTitle reports whether a config exists for title. When it does not,
// the closest title above the similarity cutoff is returned, if any.
func (c *Catalog) IsStoryTitle(title string) (bool, string) {
	if _, ok := c.storyTitles[title]; ok {
		return true, ""
	}
	closest, _ := textutil.ClosestMatch(title, c.AllStoryTitles(), titleCutoff)
	return false, closest
}

// StoryTitleFromIssue looks an issue label up, case-insensitively. It
// returns every title published in that issue, or the closest label.
func (c *Catalog) StoryTitleFromIssue(issueTitle string) (bool, []string, string) {
	label := strings.ToUpper(issueTitle)
	if titles, ok := c.issueTitles[label]; ok {
		return true, append([]string(nil), titles...), ""
	}
	labels := make([]string, 0, len(c.issueTitles))
	for l := range c.issueTitles {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	closest, _ := textutil.ClosestMatch(label, labels, issueCutoff)
	return false, nil, closest
}

// AllStoryTitles lists every story with a config, sorted.
func (c *Catalog) AllStoryTitles() []string {
	out := make([]string, 0, len(c.storyTitles))
	for title := range c.storyTitles {
		out = append(out, title)
	}
	sort.Strings(out)
	return out
}

// StoryTitlesInVolumes lists the stories whose config names one of the given
// source volumes, sorted.
func (c *Catalog) StoryTitlesInVolumes(volumes []int) ([]string, error) {
	wanted := make(map[string]struct{}, len(volumes))
	for _, v := range volumes {
		wanted[metadata.SourceBookKey(v)] = struct{}{}
	}
	sources, err := c.StorySourceKeys()
	if err != nil {
		return nil, err
	}
	var out []string
	for title, source := range sources {
		if _, ok := wanted[source]; ok {
			out = append(out, title)
		}
	}
	sort.Strings(out)
	return out, nil
}

// StorySourceKeys maps every configured story title to the source book key
// named by its config.
func (c *Catalog) StorySourceKeys() (map[string]string, error) {
	out := make(map[string]string, len(c.iniFiles))
	for _, name := range c.iniFiles {
		source, err := readSourceComic(filepath.Join(c.storyTitlesDir, name))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(name, iniExt)] = source
	}
	return out, nil
}

func readSourceComic(path string) (string, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{AllowPythonMultilineValues: true, IgnoreInlineComment: true}, path)
	if err != nil {
		return "", errs.Wrap(errs.ErrFormat, "catalog", "read config", path, err)
	}
	section, err := cfg.GetSection("info")
	if err != nil {
		return "", errs.Wrap(errs.ErrFormat, "catalog", "read config", path, err)
	}
	return section.Key("source_comic").String(), nil
}

// ComicBook resolves a title, or an issue label when allowIssueTitles is set,
// into a loaded comic book. An issue label shared by several stories is an
// ambiguity error.
func (c *Catalog) ComicBook(title string, allowIssueTitles bool) (*comicbook.ComicBook, error) {
	storyTitle := ""
	if allowIssueTitles {
		found, titles, closest := c.StoryTitleFromIssue(title)
		switch {
		case found && len(titles) > 1:
			quoted := make([]string, len(titles))
			for i, t := range titles {
				quoted[i] = fmt.Sprintf("%q", t)
			}
			return nil, errs.Wrap(errs.ErrAmbiguous, "catalog", "lookup", fmt.Sprintf(
				"issue title %q has multiple titles: %s", title, strings.Join(quoted, ", ")), nil)
		case found:
			storyTitle = titles[0]
		case closest != "":
			return nil, errs.NotFound("catalog", "lookup", fmt.Sprintf("could not find issue title %q, did you mean %q?", title, closest))
		}
	}
	if storyTitle == "" {
		found, closest := c.IsStoryTitle(title)
		switch {
		case found:
			storyTitle = title
		case closest != "":
			return nil, errs.NotFound("catalog", "lookup", fmt.Sprintf("could not find title %q, did you mean %q?", title, closest))
		default:
			return nil, errs.NotFound("catalog", "lookup", fmt.Sprintf("could not find title %q", title))
		}
	}

	return comicbook.Load(comicbook.LoadParams{
		IniFile:  c.IniFile(storyTitle),
		Tables:   c.tables,
		Stories:  c.stories,
		Layout:   c.layout,
		InsetDir: c.storyTitlesDir,
		FontsDir: c.fontsDir,
		Logger:   c.logger,
	})
}

// VolumeTitle returns the directory title of a source volume.
func (c *Catalog) VolumeTitle(volume int) (string, error) {
	book, ok := c.tables.SourceBookByVolume(volume)
	if !ok {
		return "", errs.NotFound("catalog", "volume title", fmt.Sprintf("unknown volume %d", volume))
	}
	return book.Title, nil
}

// RootDir returns a stage's root directory.
func (c *Catalog) RootDir(stage layout.Stage) string {
	return c.layout.StageRoot(stage)
}

// VolumeDir returns a volume's directory within a stage.
func (c *Catalog) VolumeDir(stage layout.Stage, volume int) (string, error) {
	title, err := c.VolumeTitle(volume)
	if err != nil {
		return "", err
	}
	return c.layout.VolumeDir(stage, title), nil
}

// MakeAllDirectories creates the images directory of every derived stage for
// each volume. Original scans are never created. Existing directories are
// left alone.
func (c *Catalog) MakeAllDirectories(volumes []int) ([]string, error) {
	var created []string
	for _, volume := range volumes {
		title, err := c.VolumeTitle(volume)
		if err != nil {
			return created, err
		}
		for _, stage := range layout.AllStages() {
			if stage == layout.Original {
				continue
			}
			dir := c.layout.VolumeImageDir(stage, title)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return created, errs.Wrap(errs.ErrConfiguration, "catalog", "make dirs", dir, err)
			}
			created = append(created, dir)
		}
	}
	c.logger.Info("stage directories ensured", logging.Int("volumes", len(volumes)), logging.Int("dirs", len(created)))
	return created, nil
}

func volumeRange(first, last int) []int {
	out := make([]int, 0, last-first+1)
	for v := first; v <= last; v++ {
		out = append(out, v)
	}
	return out
}
