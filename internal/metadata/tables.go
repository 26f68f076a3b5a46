package metadata

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"barks/internal/errs"
)

//go:embed tables.toml
var defaultTables []byte

// SourceBook describes one published source volume.
type SourceBook struct {
	Key         string `toml:"key"`
	Title       string `toml:"title"`
	Pub         string `toml:"pub"`
	Volume      int    `toml:"volume"`
	Year        int    `toml:"year"`
	Subdir      string `toml:"subdir"`
	SrceFileExt string `toml:"srce_file_ext"`
}

// SeriesInfo places a story in a series and names its colorist.
type SeriesInfo struct {
	Colorist   string
	SeriesName string
}

// IssueName maps a publication name to its short label and, optionally, to
// the title shown when a story has no title of its own.
type IssueName struct {
	Name    string `toml:"name"`
	Short   string `toml:"short"`
	AsTitle string `toml:"as_title"`
}

// CensoredStory names the story that was never published in the source
// volumes and where it did appear.
type CensoredStory struct {
	Title            string `toml:"title"`
	PublicationIssue string `toml:"publication_issue"`
}

// FixesSpecialCase marks a title and page whose fixes file is an added page
// even though the page type is not COVER or BODY.
type FixesSpecialCase struct {
	Title  string `toml:"title"`
	Page   string `toml:"page"`
	Reason string `toml:"reason"`
}

type tablesDocument struct {
	Censored          CensoredStory      `toml:"censored"`
	FixesSpecialCases []FixesSpecialCase `toml:"fixes_special_cases"`
	Series            []struct {
		Name string `toml:"name"`
	} `toml:"series"`
	Issues      []IssueName  `toml:"issues"`
	SourceBooks []SourceBook `toml:"source_books"`
	Stories     []struct {
		Title    string `toml:"title"`
		Colorist string `toml:"colorist"`
		Series   string `toml:"series"`
	} `toml:"stories"`
}

type specialCaseKey struct {
	title string
	page  string
}

// Tables is the immutable view over the publication tables.
type Tables struct {
	censored     CensoredStory
	series       []string
	issues       map[string]IssueName
	sourceBooks  map[string]SourceBook
	volumes      map[int]SourceBook
	stories      map[string]SeriesInfo
	specialCases map[specialCaseKey]FixesSpecialCase
}

// LoadTables decodes the tables compiled into the binary.
func LoadTables() (*Tables, error) {
	return ParseTables(defaultTables)
}

// LoadTablesFile decodes tables from a TOML file on disk.
func LoadTablesFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotFound, "metadata", "read tables", path, err)
	}
	return ParseTables(data)
}

// ParseTables decodes and validates a TOML tables document.
func ParseTables(data []byte) (*Tables, error) {
	var doc tablesDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrFormat, "metadata", "parse tables", "", err)
	}

	t := &Tables{
		censored:     doc.Censored,
		issues:       make(map[string]IssueName, len(doc.Issues)),
		sourceBooks:  make(map[string]SourceBook, len(doc.SourceBooks)),
		volumes:      make(map[int]SourceBook, len(doc.SourceBooks)),
		stories:      make(map[string]SeriesInfo, len(doc.Stories)),
		specialCases: make(map[specialCaseKey]FixesSpecialCase, len(doc.FixesSpecialCases)),
	}

	for _, s := range doc.Series {
		name := strings.TrimSpace(s.Name)
		if name == "" || slices.Contains(t.series, name) {
			return nil, errs.Inconsistent("metadata", "parse tables", fmt.Sprintf("invalid or duplicate series %q", s.Name))
		}
		t.series = append(t.series, name)
	}
	for _, issue := range doc.Issues {
		if _, dup := t.issues[issue.Name]; dup || issue.Short == "" {
			return nil, errs.Inconsistent("metadata", "parse tables", fmt.Sprintf("invalid or duplicate issue name %q", issue.Name))
		}
		t.issues[issue.Name] = issue
	}
	for _, book := range doc.SourceBooks {
		if _, dup := t.sourceBooks[book.Key]; dup {
			return nil, errs.Inconsistent("metadata", "parse tables", fmt.Sprintf("duplicate source book %q", book.Key))
		}
		if _, dup := t.volumes[book.Volume]; dup {
			return nil, errs.Inconsistent("metadata", "parse tables", fmt.Sprintf("duplicate source volume %d", book.Volume))
		}
		t.sourceBooks[book.Key] = book
		t.volumes[book.Volume] = book
	}
	for _, story := range doc.Stories {
		if _, dup := t.stories[story.Title]; dup {
			return nil, errs.Inconsistent("metadata", "parse tables", fmt.Sprintf("duplicate story title %q", story.Title))
		}
		if !slices.Contains(t.series, story.Series) {
			return nil, errs.Inconsistent("metadata", "parse tables", fmt.Sprintf("story %q has unknown series %q", story.Title, story.Series))
		}
		t.stories[story.Title] = SeriesInfo{Colorist: story.Colorist, SeriesName: story.Series}
	}
	for _, sc := range doc.FixesSpecialCases {
		t.specialCases[specialCaseKey{title: sc.Title, page: sc.Page}] = sc
	}
	return t, nil
}

// SourceBook returns the source volume registered under key (e.g. FANTA_02).
func (t *Tables) SourceBook(key string) (SourceBook, bool) {
	book, ok := t.sourceBooks[key]
	return book, ok
}

// SourceBookByVolume returns the source volume with the given number.
func (t *Tables) SourceBookByVolume(volume int) (SourceBook, bool) {
	book, ok := t.volumes[volume]
	return book, ok
}

// Volumes lists every known volume number in ascending order.
func (t *Tables) Volumes() []int {
	out := make([]int, 0, len(t.volumes))
	for v := range t.volumes {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// SourceBookKey formats the table key for a volume number.
func SourceBookKey(volume int) string {
	return fmt.Sprintf("FANTA_%02d", volume)
}

// Series returns the series membership for a story title.
func (t *Tables) Series(title string) (SeriesInfo, bool) {
	info, ok := t.stories[title]
	return info, ok
}

// AllSeries returns the series names in table order.
func (t *Tables) AllSeries() []string {
	return slices.Clone(t.series)
}

// ShortIssueName returns the short label for a publication name.
func (t *Tables) ShortIssueName(issueName string) (string, bool) {
	issue, ok := t.issues[issueName]
	return issue.Short, ok
}

// IssueNameAsTitle returns the display title used for untitled stories from
// this publication, if one is configured.
func (t *Tables) IssueNameAsTitle(issueName string) (string, bool) {
	issue, ok := t.issues[issueName]
	if !ok || issue.AsTitle == "" {
		return "", false
	}
	return issue.AsTitle, true
}

// Censored returns the censored story descriptor.
func (t *Tables) Censored() CensoredStory {
	return t.censored
}

// IsFixesSpecialCase reports whether the title and page pair is listed as a
// legitimate added page.
func (t *Tables) IsFixesSpecialCase(title, page string) bool {
	_, ok := t.specialCases[specialCaseKey{title: title, page: page}]
	return ok
}

// FixesSpecialCases returns every special case, ordered by title and page.
func (t *Tables) FixesSpecialCases() []FixesSpecialCase {
	out := make([]FixesSpecialCase, 0, len(t.specialCases))
	for _, sc := range t.specialCases {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Page < out[j].Page
	})
	return out
}
