package comicbook

import (
	"fmt"
	"strconv"
	"strings"

	"barks/internal/errs"
)

// PageType tags a page in a story config.
type PageType int

const (
	Front PageType = iota + 1
	Title
	Cover
	Splash
	SplashNoBorder
	Painting
	PaintingNoBorder
	FrontMatter
	Body
	BackMatter
	BackNoPanels
	BlankPage
)

var pageTypeNames = map[PageType]string{
	Front:            "FRONT",
	Title:            "TITLE",
	Cover:            "COVER",
	Splash:           "SPLASH",
	SplashNoBorder:   "SPLASH_NO_BORDER",
	Painting:         "PAINTING",
	PaintingNoBorder: "PAINTING_NO_BORDER",
	FrontMatter:      "FRONT_MATTER",
	Body:             "BODY",
	BackMatter:       "BACK_MATTER",
	BackNoPanels:     "BACK_NO_PANELS",
	BlankPage:        "BLANK_PAGE",
}

func (p PageType) String() string {
	if name, ok := pageTypeNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PageType(%d)", int(p))
}

// ParsePageType matches a config value against the page type names. Matching
// is exact, as in the story configs.
func ParsePageType(name string) (PageType, error) {
	for p, n := range pageTypeNames {
		if n == name {
			return p, nil
		}
	}
	return 0, errs.Malformed("comicbook", "parse page type", fmt.Sprintf("unknown page type %q", name))
}

// IsFrontPage reports whether the page precedes the story proper.
func (p PageType) IsFrontPage() bool {
	switch p {
	case Front, Title, Cover, Splash, SplashNoBorder, Painting, PaintingNoBorder:
		return true
	}
	return false
}

// IsFrontMatter reports whether the page is a front page or front matter.
func (p PageType) IsFrontMatter() bool {
	return p.IsFrontPage() || p == FrontMatter
}

// HasNoPanels reports whether the page carries no comic panels.
func (p PageType) HasNoPanels() bool {
	return p.IsFrontPage() || p == BackNoPanels || p == BlankPage
}

// IsSplash reports whether the page is a splash page.
func (p PageType) IsSplash() bool {
	return p == Splash || p == SplashNoBorder
}

// IsPainting reports whether the page is a painting.
func (p PageType) IsPainting() bool {
	return p == Painting || p == PaintingNoBorder
}

// OverridesExistingPage reports whether a fixes file for this page type
// replaces an existing scan rather than adding a page.
func (p PageType) OverridesExistingPage() bool {
	return p == Cover || p == Body
}

// OriginalPage is one [pages] entry: a page token or "NNN-MMM" range and its
// type.
type OriginalPage struct {
	Filenames string
	Type      PageType
}

// ExpandPages unrolls range entries into one entry per page. Expanded tokens
// keep the zero padding width of the range start.
func ExpandPages(pages []OriginalPage) ([]OriginalPage, error) {
	out := make([]OriginalPage, 0, len(pages))
	for _, page := range pages {
		start, end, ok := strings.Cut(page.Filenames, "-")
		if !ok {
			out = append(out, page)
			continue
		}
		first, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "comicbook", "expand pages", fmt.Sprintf("bad range %q", page.Filenames), err)
		}
		last, err := strconv.Atoi(strings.TrimSpace(end))
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "comicbook", "expand pages", fmt.Sprintf("bad range %q", page.Filenames), err)
		}
		if first < 0 || last < first {
			return nil, errs.Malformed("comicbook", "expand pages", fmt.Sprintf("bad range %q", page.Filenames))
		}
		width := len(strings.TrimSpace(start))
		for n := first; n <= last; n++ {
			out = append(out, OriginalPage{Filenames: fmt.Sprintf("%0*d", width, n), Type: page.Type})
		}
	}
	return out, nil
}
