package metadata_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"barks/internal/errs"
	"barks/internal/metadata"
)

const testTables = `
[[series]]
name = "Donald Duck Adventures"

[[series]]
name = "Comics and Stories"

[[issues]]
name = "Four Color"
short = "FC"

[[issues]]
name = "Comics and Stories"
short = "WDCS"

[[stories]]
title = "Pirate Gold"
colorist = "Rich Tommaso"
series = "Donald Duck Adventures"

[[stories]]
title = "The Victory Garden"
colorist = "Susan Daigle-Leach"
series = "Comics and Stories"

[[stories]]
title = "The Rabbit's Foot"
colorist = "Susan Daigle-Leach"
series = "Comics and Stories"

[[stories]]
title = "Mummy's Ring"
colorist = "Gary Leach"
series = "Donald Duck Adventures"
`

func mustTables(t *testing.T) *metadata.Tables {
	t.Helper()
	tables, err := metadata.ParseTables([]byte(testTables))
	if err != nil {
		t.Fatalf("ParseTables: %v", err)
	}
	return tables
}

const storiesCSV = `Pirate Gold,Four Color,9,1942,10,1942,1,-1
Not In Tables,Four Color,1,1940,1,1941,1,1
The Victory Garden,Comics and Stories,31,1943,4,1942,4,15
The Rabbit's Foot,Comics and Stories,32,1943,5,1942,4,15
Mummy's Ring,Four Color,29,1943,9,1942,12,31
`

func TestReadStoriesNumbersInFileOrder(t *testing.T) {
	stories, err := metadata.ReadStories(strings.NewReader(storiesCSV), mustTables(t))
	if err != nil {
		t.Fatalf("ReadStories returned error: %v", err)
	}

	wantTitles := []string{"Pirate Gold", "The Victory Garden", "The Rabbit's Foot", "Mummy's Ring"}
	if got := stories.Titles(); !reflect.DeepEqual(got, wantTitles) {
		t.Fatalf("Titles() = %v, want %v", got, wantTitles)
	}

	tests := []struct {
		title          string
		chronological  int
		numberInSeries int
		series         string
	}{
		{"Pirate Gold", 1, 1, "Donald Duck Adventures"},
		{"The Victory Garden", 2, 1, "Comics and Stories"},
		{"The Rabbit's Foot", 3, 2, "Comics and Stories"},
		{"Mummy's Ring", 4, 2, "Donald Duck Adventures"},
	}
	for _, tt := range tests {
		info, ok := stories.Get(tt.title)
		if !ok {
			t.Fatalf("missing %q", tt.title)
		}
		if info.ChronologicalNumber != tt.chronological || info.NumberInSeries != tt.numberInSeries || info.SeriesName != tt.series {
			t.Errorf("%q: got chrono=%d series#=%d series=%q", tt.title, info.ChronologicalNumber, info.NumberInSeries, info.SeriesName)
		}
	}

	info, _ := stories.Get("The Victory Garden")
	if info.IssueTitle() != "WDCS 31" {
		t.Fatalf("IssueTitle() = %q", info.IssueTitle())
	}
	if info.Colorist != "Susan Daigle-Leach" {
		t.Fatalf("unexpected colorist %q", info.Colorist)
	}
	if _, ok := stories.Get("Not In Tables"); ok {
		t.Fatal("rows missing from the series table must be skipped")
	}
}

func TestReadStoriesSkipsShortRowsOutsideTables(t *testing.T) {
	csv := "Pirate Gold,Four Color,9,1942,10,1942,1,1\nSome Gag Page,Four Color\n"
	stories, err := metadata.ReadStories(strings.NewReader(csv), mustTables(t))
	if err != nil {
		t.Fatalf("ReadStories returned error: %v", err)
	}
	if stories.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", stories.Len())
	}
}

func TestReadStoriesIsDeterministic(t *testing.T) {
	tables := mustTables(t)
	first, err := metadata.ReadStories(strings.NewReader(storiesCSV), tables)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := metadata.ReadStories(strings.NewReader(storiesCSV), tables)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical results from repeated loads")
	}
}

func TestReadStoriesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		marker error
	}{
		{
			name:   "submission date decreases",
			csv:    "Pirate Gold,Four Color,9,1942,10,1942,5,1\nMummy's Ring,Four Color,29,1943,9,1942,4,30\n",
			marker: errs.ErrConsistency,
		},
		{
			name:   "invalid month",
			csv:    "Pirate Gold,Four Color,9,1942,10,1942,13,1\n",
			marker: errs.ErrConsistency,
		},
		{
			name:   "duplicate title",
			csv:    "Pirate Gold,Four Color,9,1942,10,1942,1,1\nPirate Gold,Four Color,9,1942,10,1942,1,1\n",
			marker: errs.ErrConsistency,
		},
		{
			name:   "wrong column count",
			csv:    "Pirate Gold,Four Color,9,1942\n",
			marker: errs.ErrFormat,
		},
		{
			name:   "non numeric",
			csv:    "Pirate Gold,Four Color,nine,1942,10,1942,1,1\n",
			marker: errs.ErrFormat,
		},
		{
			name:   "unknown issue name",
			csv:    "Pirate Gold,Mystery Weekly,9,1942,10,1942,1,1\n",
			marker: errs.ErrConsistency,
		},
	}

	tables := mustTables(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.ReadStories(strings.NewReader(tt.csv), tables)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestReadStoriesUnknownDayComparesAsFirst(t *testing.T) {
	csv := "Pirate Gold,Four Color,9,1942,10,1942,4,1\nMummy's Ring,Four Color,29,1943,9,1942,4,-1\n"
	if _, err := metadata.ReadStories(strings.NewReader(csv), mustTables(t)); err != nil {
		t.Fatalf("expected same-day ordering to pass, got %v", err)
	}
}
