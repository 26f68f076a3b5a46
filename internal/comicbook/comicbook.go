package comicbook

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"barks/internal/errs"
	"barks/internal/layout"
	"barks/internal/logging"
	"barks/internal/metadata"
	"barks/internal/textutil"
)

const (
	// DefaultTitleFontFile is used when a story config names no title font.
	DefaultTitleFontFile = "Carl Barks Script.ttf"
	// DefaultTitleFontSize is the intro title size in points.
	DefaultTitleFontSize = 155
	// DefaultAuthorFontSize is the intro author line size in points.
	DefaultAuthorFontSize = 90

	infoSection  = "info"
	pagesSection = "pages"
)

// requiredStages must exist, with an images subdirectory, for every story.
var requiredStages = []layout.Stage{
	layout.Original,
	layout.Upscayled,
	layout.Restored,
	layout.OriginalFixes,
	layout.RestoredFixes,
}

// LoadParams carries the collaborators needed to resolve one story config.
type LoadParams struct {
	IniFile  string
	Tables   *metadata.Tables
	Stories  *metadata.Stories
	Layout   layout.Layout
	InsetDir string
	FontsDir string
	Logger   *slog.Logger
}

// ComicBook is the resolved view of one story. It is immutable once loaded.
type ComicBook struct {
	IniFile         string
	Title           string
	FileTitle       string
	IssueTitle      string
	TitleFontFile   string
	TitleFontSize   int
	AuthorFontSize  int
	SourceBook      metadata.SourceBook
	Info            metadata.ComicBookInfo
	PublicationDate string
	SubmittedDate   string
	PublicationText string
	IntroInsetFile  string
	ConfigPages     []OriginalPage
	Pages           []OriginalPage

	tables *metadata.Tables
	layout layout.Layout
	logger *slog.Logger
}

// Load reads a story config and composes the resolved comic book. Every
// required source directory is checked before returning.
func Load(params LoadParams) (*ComicBook, error) {
	if params.Tables == nil || params.Stories == nil {
		return nil, errs.Wrap(errs.ErrConfiguration, "comicbook", "load", "tables and stories are required", nil)
	}
	logger := logging.NewComponentLogger(params.Logger, "comicbook")
	logger.Info("loading story config", logging.String(logging.FieldIniFile, params.IniFile))

	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
		PreserveSurroundedQuote:    true,
	}, params.IniFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrNotFound, "comicbook", "load", params.IniFile, err)
		}
		return nil, errs.Wrap(errs.ErrFormat, "comicbook", "load", params.IniFile, err)
	}

	info, err := cfg.GetSection(infoSection)
	if err != nil {
		return nil, errs.Wrap(errs.ErrFormat, "comicbook", "load", fmt.Sprintf("%s: missing [%s]", params.IniFile, infoSection), err)
	}
	for _, key := range []string{"title", "file_title", "source_comic"} {
		if !info.HasKey(key) {
			return nil, errs.Malformed("comicbook", "load", fmt.Sprintf("%s: missing %s.%s", params.IniFile, infoSection, key))
		}
	}

	title := info.Key("title").String()
	fileTitle := info.Key("file_title").String()
	lookup := LookupTitle(title, fileTitle)
	if lookup == "" {
		return nil, errs.Malformed("comicbook", "load", fmt.Sprintf("%s: title and file_title are both empty", params.IniFile))
	}

	cbInfo, ok := params.Stories.Get(lookup)
	if !ok {
		return nil, errs.NotFound("comicbook", "load", fmt.Sprintf("no story metadata for %q", lookup))
	}
	sourceKey := info.Key("source_comic").String()
	book, ok := params.Tables.SourceBook(sourceKey)
	if !ok {
		return nil, errs.NotFound("comicbook", "load", fmt.Sprintf("unknown source comic %q", sourceKey))
	}

	configPages, err := readPages(cfg, params.IniFile)
	if err != nil {
		return nil, err
	}
	pages, err := ExpandPages(configPages)
	if err != nil {
		return nil, err
	}

	publicationText := mainPublicationText(params.Tables, fileTitle, cbInfo, book)
	if info.HasKey("extra_pub_info") {
		publicationText += "\n" + info.Key("extra_pub_info").String()
	}

	comic := &ComicBook{
		IniFile:         params.IniFile,
		Title:           title,
		FileTitle:       fileTitle,
		IssueTitle:      info.Key("issue_title").String(),
		TitleFontFile:   filepath.Join(params.FontsDir, info.Key("title_font_file").MustString(DefaultTitleFontFile)),
		TitleFontSize:   info.Key("title_font_size").MustInt(DefaultTitleFontSize),
		AuthorFontSize:  info.Key("author_font_size").MustInt(DefaultAuthorFontSize),
		SourceBook:      book,
		Info:            cbInfo,
		PublicationDate: metadata.FormattedFirstPublished(cbInfo),
		SubmittedDate:   metadata.FormattedSubmittedDate(cbInfo),
		PublicationText: publicationText,
		IntroInsetFile:  filepath.Join(params.InsetDir, insetFilename(params.IniFile, fileTitle)),
		ConfigPages:     configPages,
		Pages:           pages,
		tables:          params.Tables,
		layout:          params.Layout,
		logger:          logger,
	}

	if err := comic.checkRequiredDirs(); err != nil {
		return nil, err
	}
	return comic, nil
}

func readPages(cfg *ini.File, iniFile string) ([]OriginalPage, error) {
	section, err := cfg.GetSection(pagesSection)
	if err != nil {
		return nil, errs.Wrap(errs.ErrFormat, "comicbook", "load", fmt.Sprintf("%s: missing [%s]", iniFile, pagesSection), err)
	}
	keys := section.Keys()
	pages := make([]OriginalPage, 0, len(keys))
	for _, key := range keys {
		pageType, err := ParsePageType(strings.TrimSpace(key.Value()))
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "comicbook", "load", fmt.Sprintf("%s: page %s", iniFile, key.Name()), err)
		}
		pages = append(pages, OriginalPage{Filenames: key.Name(), Type: pageType})
	}
	return pages, nil
}

func (c *ComicBook) checkRequiredDirs() error {
	for _, stage := range requiredStages {
		for _, dir := range []string{c.SrceDir(stage), c.SrceImageDir(stage)} {
			stat, err := os.Stat(dir)
			if err != nil || !stat.IsDir() {
				return errs.NotFound("comicbook", "check dirs", fmt.Sprintf("could not find %s directory %q", stage, dir))
			}
		}
	}
	return nil
}

func mainPublicationText(tables *metadata.Tables, fileTitle string, info metadata.ComicBookInfo, book metadata.SourceBook) string {
	censored := tables.Censored()
	if censored.Title != "" && fileTitle == censored.Title {
		return "(*) Rejected by Western editors in 1945, this story was originally\n" +
			" intended for publication in " + metadata.FormattedFirstPublished(info) + "\n" +
			"Submitted to Western Publishing" + metadata.FormattedSubmittedDate(info) + "\n" +
			"\n" +
			"The story was also not published in the Fantagraphics CBDL but\n" +
			"fortunately did appear in " + censored.PublicationIssue + "\n" +
			"Color restoration by " + info.Colorist
	}
	return "First published in " + metadata.FormattedFirstPublished(info) + "\n" +
		"Submitted to Western Publishing" + metadata.FormattedSubmittedDate(info) + "\n" +
		"\n" +
		fmt.Sprintf("This edition published in %s CBDL, Volume %d, %d\n", book.Pub, book.Volume, book.Year) +
		"Color restoration by " + info.Colorist
}

func insetFilename(iniFile, fileTitle string) string {
	if fileTitle != "" {
		return fileTitle + layout.InsetSuffix
	}
	base := filepath.Base(iniFile)
	return strings.TrimSuffix(base, filepath.Ext(base)) + layout.InsetSuffix
}

// LookupTitle returns the key used for story metadata: the safe form of the
// display title, or the file title when the story has no display title.
func LookupTitle(title, fileTitle string) string {
	if title != "" {
		return textutil.SafeTitle(title)
	}
	return fileTitle
}

// LookupTitle returns this story's metadata key.
func (c *ComicBook) LookupTitle() string {
	return LookupTitle(c.Title, c.FileTitle)
}

// SrceDir returns the volume directory for stage.
func (c *ComicBook) SrceDir(stage layout.Stage) string {
	return c.layout.VolumeDir(stage, c.SourceBook.Title)
}

// SrceImageDir returns the images directory for stage.
func (c *ComicBook) SrceImageDir(stage layout.Stage) string {
	return c.layout.VolumeImageDir(stage, c.SourceBook.Title)
}

// SrceFileExt is the extension of the original scans in this volume.
func (c *ComicBook) SrceFileExt() string {
	return c.SourceBook.SrceFileExt
}

// DestRelDirname is "NNN <lookup title>" using the chronological number.
func (c *ComicBook) DestRelDirname() string {
	return fmt.Sprintf("%03d %s", c.Info.ChronologicalNumber, c.LookupTitle())
}

// DestDir is the unpacked destination directory.
func (c *ComicBook) DestDir() string {
	return filepath.Join(c.layout.ChronologicalDirsDir(), c.DestRelDirname())
}

// DestImageDir is the images directory inside DestDir.
func (c *ComicBook) DestImageDir() string {
	return filepath.Join(c.DestDir(), layout.ImagesSubdir)
}

// DestComicZip is the chronological archive path.
func (c *ComicBook) DestComicZip() string {
	return filepath.Join(c.layout.ChronologicalZipDir(), c.destComicZipFilename())
}

func (c *ComicBook) destComicZipFilename() string {
	return c.TitleWithIssueNum() + ".cbz"
}

// DestSeriesComicZipSymlink is the per-series symlink to the archive.
func (c *ComicBook) DestSeriesComicZipSymlink() string {
	name := fmt.Sprintf("%03d %s [%s].cbz", c.Info.NumberInSeries, c.LookupTitle(), c.ComicIssueTitle())
	return filepath.Join(c.layout.SeriesSymlinkDir(c.Info.SeriesName), name)
}

// DestYearComicZipSymlink is the per-submission-year symlink to the archive.
func (c *ComicBook) DestYearComicZipSymlink() string {
	return filepath.Join(c.layout.YearSymlinkDir(c.Info.SubmittedYear), c.destComicZipFilename())
}

// ComicTitle is the display title: the config title, else the issue title,
// else one derived from the issue name and number.
func (c *ComicBook) ComicTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.IssueTitle != "" {
		return c.IssueTitle
	}
	return c.comicTitleFromIssueName()
}

func (c *ComicBook) comicTitleFromIssueName() string {
	if asTitle, ok := c.tables.IssueNameAsTitle(c.Info.IssueName); ok {
		return fmt.Sprintf("%s #%d", asTitle, c.Info.IssueNumber)
	}
	return fmt.Sprintf("%s\n%d", c.Info.IssueName, c.Info.IssueNumber)
}

// ComicIssueTitle is "<SHORT> <number>", e.g. "WDCS 64".
func (c *ComicBook) ComicIssueTitle() string {
	return fmt.Sprintf("%s %d", c.Info.ShortIssueName(), c.Info.IssueNumber)
}

// TitleWithIssueNum is the destination dirname followed by the issue label.
func (c *ComicBook) TitleWithIssueNum() string {
	return fmt.Sprintf("%s [%s]", c.DestRelDirname(), c.ComicIssueTitle())
}

// SeriesComicTitle is "<series> <number in series>".
func (c *ComicBook) SeriesComicTitle() string {
	return fmt.Sprintf("%s %d", c.Info.SeriesName, c.Info.NumberInSeries)
}

// LogParams writes the resolved parameters at info level.
func (c *ComicBook) LogParams(logger *slog.Logger, workDir string) {
	if logger == nil {
		logger = c.logger
	}
	logger.Info("comic book resolved",
		logging.String("series", c.Info.SeriesName),
		logging.String("title", textutil.SafeTitle(c.ComicTitle())),
		logging.String("issue", c.ComicIssueTitle()),
		logging.Int("number_in_series", c.Info.NumberInSeries),
		logging.Int("chronological_number", c.Info.ChronologicalNumber),
		logging.String(logging.FieldIniFile, c.IniFile),
		logging.String("srce_root", c.layout.StageRoot(layout.Original)),
		logging.String("srce_dir", filepath.Base(c.SrceDir(layout.Original))),
		logging.String("fixes_root", c.layout.StageRoot(layout.OriginalFixes)),
		logging.String("segments_root", c.layout.StageRoot(layout.PanelSegments)),
		logging.String("srce_file_ext", c.SrceFileExt()),
		logging.String("dest_root", c.layout.ChronologicalDirsDir()),
		logging.String("dest_dir", filepath.Base(c.DestDir())),
		logging.String("zip_root", c.layout.ChronologicalZipDir()),
		logging.String("dest_zip", filepath.Base(c.DestComicZip())),
		logging.String("series_symlink", c.DestSeriesComicZipSymlink()),
		logging.String("year_symlink", c.DestYearComicZipSymlink()),
		logging.String("work_dir", workDir),
	)
}
