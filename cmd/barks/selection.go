package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"barks/internal/catalog"
	"barks/internal/comicbook"
	"barks/internal/errs"
)

// selection holds the story selection flags shared by several commands.
type selection struct {
	title  string
	volume string
	page   string
}

func (s selection) hasTitle() bool  { return strings.TrimSpace(s.title) != "" }
func (s selection) hasVolume() bool { return strings.TrimSpace(s.volume) != "" }
func (s selection) hasPage() bool   { return strings.TrimSpace(s.page) != "" }

// requireTitleOrVolume accepts exactly one of --title and --volume. --page
// may only narrow a single title.
func (s selection) requireTitleOrVolume() error {
	switch {
	case !s.hasTitle() && !s.hasVolume():
		return errors.New("specify one of --title or --volume")
	case s.hasTitle() && s.hasVolume():
		return errors.New("specify only one of --title or --volume")
	case s.hasVolume() && s.hasPage():
		return errors.New("--page cannot be combined with --volume")
	}
	return s.checkSpans()
}

// requireTitleAndPage is for commands that work on explicit pages of one
// story.
func (s selection) requireTitleAndPage() error {
	switch {
	case !s.hasTitle():
		return errors.New("--title is required")
	case !s.hasPage():
		return errors.New("--page is required")
	}
	return s.checkSpans()
}

func (s selection) requireVolume() error {
	if !s.hasVolume() {
		return errors.New("--volume is required")
	}
	return s.checkSpans()
}

// checkSpans parses the span flags so syntax errors surface before the
// catalog is opened.
func (s selection) checkSpans() error {
	if _, err := s.volumes(); err != nil {
		return err
	}
	_, err := s.pages()
	return err
}

// volumes returns the --volume span, or nil when the flag is unset.
func (s selection) volumes() ([]int, error) {
	if !s.hasVolume() {
		return nil, nil
	}
	vols, err := parseSpan(s.volume)
	if err != nil {
		return nil, fmt.Errorf("--volume: %w", err)
	}
	return vols, nil
}

// pages returns the --page span, or nil when the flag is unset.
func (s selection) pages() ([]int, error) {
	if !s.hasPage() {
		return nil, nil
	}
	pages, err := parseSpan(s.page)
	if err != nil {
		return nil, fmt.Errorf("--page: %w", err)
	}
	return pages, nil
}

// titles resolves the selection to story titles: the single --title as
// given, or every story in the --volume span.
func (s selection) titles(cat *catalog.Catalog) ([]string, error) {
	if s.hasTitle() {
		return []string{strings.TrimSpace(s.title)}, nil
	}
	vols, err := s.volumes()
	if err != nil {
		return nil, err
	}
	return cat.StoryTitlesInVolumes(vols)
}

// parseSpan expands a span such as "2-5,7" into sorted, distinct positive
// integers.
func parseSpan(value string) ([]int, error) {
	var out []int
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("invalid span %q: empty element", value)
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := spanNumber(value, lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = spanNumber(value, hi); err != nil {
				return nil, err
			}
			if last < first {
				return nil, fmt.Errorf("invalid span %q: range %s is reversed", value, part)
			}
		}
		for n := first; n <= last; n++ {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func spanNumber(span, token string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid span %q: %q is not a page or volume number", span, token)
	}
	return n, nil
}

// selectPages narrows a story's expanded pages to the requested numbers.
// Every requested page must exist.
func selectPages(comic *comicbook.ComicBook, numbers []int) ([]comicbook.OriginalPage, error) {
	if numbers == nil {
		return comic.Pages, nil
	}
	byNumber := make(map[int]comicbook.OriginalPage, len(comic.Pages))
	for _, page := range comic.Pages {
		if n, err := strconv.Atoi(page.Filenames); err == nil {
			byNumber[n] = page
		}
	}
	out := make([]comicbook.OriginalPage, 0, len(numbers))
	for _, n := range numbers {
		page, ok := byNumber[n]
		if !ok {
			return nil, errs.NotFound("cli", "select pages", fmt.Sprintf("page %d is not in %q", n, comic.Title))
		}
		out = append(out, page)
	}
	return out, nil
}
