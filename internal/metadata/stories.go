package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"barks/internal/errs"
)

const (
	// StoryIndexesDir holds the curated story index under the database dir.
	StoryIndexesDir = "story-indexes"
	// StoriesFilename is the curated story CSV.
	StoriesFilename = "the-stories.csv"

	storyColumns = 8
)

// Stories is the ordered title to ComicBookInfo mapping.
type Stories struct {
	titles []string
	info   map[string]ComicBookInfo
}

// StoriesPath returns the CSV location under a comics database directory.
func StoriesPath(databaseDir string) string {
	return filepath.Join(databaseDir, StoryIndexesDir, StoriesFilename)
}

// LoadStories reads the story CSV at path.
func LoadStories(path string, tables *Tables) (*Stories, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotFound, "metadata", "open stories", path, err)
	}
	defer f.Close()
	return ReadStories(f, tables)
}

// ReadStories parses story rows in order. Titles unknown to the series table
// are skipped. The result is checked with CheckSubmittedOrder.
func ReadStories(r io.Reader, tables *Tables) (*Stories, error) {
	if tables == nil {
		return nil, errs.Wrap(errs.ErrConfiguration, "metadata", "read stories", "tables are required", nil)
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	stories := &Stories{info: make(map[string]ComicBookInfo)}
	numberInSeries := make(map[string]int)
	chronological := 1

	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "metadata", "read stories", fmt.Sprintf("line %d", line), err)
		}

		title := row[0]
		series, ok := tables.Series(title)
		if !ok {
			continue
		}
		if len(row) != storyColumns {
			return nil, errs.Malformed("metadata", "read stories", fmt.Sprintf("line %d: expected %d columns, got %d", line, storyColumns, len(row)))
		}
		if _, dup := stories.info[title]; dup {
			return nil, errs.Inconsistent("metadata", "read stories", fmt.Sprintf("line %d: duplicate title %q", line, title))
		}

		nums, err := parseInts(row[2:])
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "metadata", "read stories", fmt.Sprintf("line %d: %q", line, title), err)
		}
		short, ok := tables.ShortIssueName(row[1])
		if !ok {
			return nil, errs.Inconsistent("metadata", "read stories", fmt.Sprintf("line %d: %q has unknown issue name %q", line, title, row[1]))
		}

		numberInSeries[series.SeriesName]++
		stories.titles = append(stories.titles, title)
		stories.info[title] = ComicBookInfo{
			IssueName:           row[1],
			IssueNumber:         nums[0],
			IssueYear:           nums[1],
			IssueMonth:          nums[2],
			SubmittedYear:       nums[3],
			SubmittedMonth:      nums[4],
			SubmittedDay:        nums[5],
			Colorist:            series.Colorist,
			SeriesName:          series.SeriesName,
			NumberInSeries:      numberInSeries[series.SeriesName],
			ChronologicalNumber: chronological,
			shortIssueName:      short,
		}
		chronological++
	}

	if err := CheckSubmittedOrder(stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// CheckSubmittedOrder verifies that submission months are valid and that
// submission dates and chronological numbers never decrease. An unknown day
// compares as the first of the month.
func CheckSubmittedOrder(stories *Stories) error {
	prevTitle := ""
	prevDate := time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC)
	prevChronological := -1

	for _, title := range stories.titles {
		info := stories.info[title]
		if info.SubmittedMonth < 1 || info.SubmittedMonth > 12 {
			return errs.Inconsistent("metadata", "check order", fmt.Sprintf("%q: invalid submission month %d", title, info.SubmittedMonth))
		}
		day := info.SubmittedDay
		if day == -1 {
			day = 1
		}
		date := time.Date(info.SubmittedYear, time.Month(info.SubmittedMonth), day, 0, 0, 0, 0, time.UTC)
		if date.Day() != day {
			return errs.Inconsistent("metadata", "check order", fmt.Sprintf("%q: invalid submission day %d", title, info.SubmittedDay))
		}
		if prevDate.After(date) {
			return errs.Inconsistent("metadata", "check order", fmt.Sprintf(
				"%q: out of order submitted date %s, previous entry %q %s",
				title, date.Format(time.DateOnly), prevTitle, prevDate.Format(time.DateOnly)))
		}
		if prevChronological > info.ChronologicalNumber {
			return errs.Inconsistent("metadata", "check order", fmt.Sprintf(
				"%q: out of order chronological number %d, previous entry %q %d",
				title, info.ChronologicalNumber, prevTitle, prevChronological))
		}
		prevTitle = title
		prevDate = date
		prevChronological = info.ChronologicalNumber
	}
	return nil
}

// Len returns the number of stories.
func (s *Stories) Len() int {
	return len(s.titles)
}

// Titles returns the story titles in chronological order.
func (s *Stories) Titles() []string {
	return slices.Clone(s.titles)
}

// Get returns the info for title.
func (s *Stories) Get(title string) (ComicBookInfo, bool) {
	info, ok := s.info[title]
	return info, ok
}

// IssueTitles groups story titles by their upper-cased issue label, keeping
// chronological order within each group.
func (s *Stories) IssueTitles() map[string][]string {
	out := make(map[string][]string)
	for _, title := range s.titles {
		label := s.info[title].IssueTitle()
		out[label] = append(out[label], title)
	}
	return out
}
