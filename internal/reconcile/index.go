package reconcile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"barks/internal/errs"
)

const noneMarker = "<none>"

// abbreviated month spellings used by the story index
var storyIndexMonths = map[string]int{
	noneMarker: -1,
	"Jan":      1,
	"Feb":      2,
	"Mar":      3,
	"March":    3,
	"April":    4,
	"May":      5,
	"June":     6,
	"July":     7,
	"Aug":      8,
	"Sept":     9,
	"Oct":      10,
	"Nov":      11,
	"Dec":      12,
}

// full month names used by the submission indexes
var submissionMonths = map[string]int{
	noneMarker:  -1,
	"January":   1,
	"February":  2,
	"March":     3,
	"April":     4,
	"May":       5,
	"June":      6,
	"July":      7,
	"August":    8,
	"September": 9,
	"October":   10,
	"November":  11,
	"December":  12,
}

// StoryEntry is one story index line.
type StoryEntry struct {
	Title       string
	IssueName   string
	IssueNumber string
	IssueMonth  int
	IssueYear   int
}

// ParseStoryIndex reads lines of the form
//
//	Title "Issue Name" #N (Mon YYYY) trailing text
//
// Blank lines are skipped. A repeated title is a consistency error.
func ParseStoryIndex(r io.Reader) ([]StoryEntry, error) {
	var out []StoryEntry
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := normalizeLine(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseStoryLine(line)
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "reconcile", "parse story index", fmt.Sprintf("line %d", lineNo), err)
		}
		if _, dup := seen[entry.Title]; dup {
			return nil, errs.Inconsistent("reconcile", "parse story index", fmt.Sprintf("line %d: duplicate title %q", lineNo, entry.Title))
		}
		seen[entry.Title] = struct{}{}
		out = append(out, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrFormat, "reconcile", "parse story index", "", err)
	}
	return out, nil
}

func parseStoryLine(line string) (StoryEntry, error) {
	quote := strings.Index(line, `"`)
	if quote == -1 {
		return StoryEntry{}, fmt.Errorf("missing issue name quote in %q", line)
	}
	title := strings.TrimSpace(line[:quote])
	rest := line[quote+1:]
	end := strings.Index(rest, `"`)
	if end == -1 {
		return StoryEntry{}, fmt.Errorf("unterminated issue name in %q", line)
	}
	issueName := rest[:end]
	rest = rest[end+1:]

	hash := strings.Index(rest, "#")
	if hash == -1 {
		return StoryEntry{}, fmt.Errorf("missing issue number in %q", line)
	}
	rest = rest[hash+1:]
	blank := strings.Index(rest, " ")
	if blank == -1 {
		return StoryEntry{}, fmt.Errorf("missing blank after issue number in %q", line)
	}
	issueNumber := rest[:blank]
	rest = rest[blank:]

	open := strings.Index(rest, "(")
	closing := strings.Index(rest, ")")
	if open == -1 || closing == -1 || closing < open {
		return StoryEntry{}, fmt.Errorf("missing issue date in %q", line)
	}
	month, year, err := parseIssueDate(rest[open+1 : closing])
	if err != nil {
		return StoryEntry{}, err
	}
	if title == "" || issueName == "" || issueNumber == "" {
		return StoryEntry{}, fmt.Errorf("empty field in %q", line)
	}
	return StoryEntry{Title: title, IssueName: issueName, IssueNumber: issueNumber, IssueMonth: month, IssueYear: year}, nil
}

func parseIssueDate(date string) (int, int, error) {
	fields := strings.Split(date, " ")
	monthName := noneMarker
	var yearText string
	switch len(fields) {
	case 1:
		yearText = fields[0]
	case 2:
		monthName, yearText = fields[0], fields[1]
	default:
		return 0, 0, fmt.Errorf("bad issue date %q", date)
	}
	month, ok := storyIndexMonths[monthName]
	if !ok {
		return 0, 0, fmt.Errorf("unknown month %q", monthName)
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return 0, 0, fmt.Errorf("bad issue year %q", yearText)
	}
	return month, year, nil
}

// SubmissionEntry is one story in a submission index. Unknown values are -1.
type SubmissionEntry struct {
	Title string
	Year  int
	Month int
	Day   int
}

// SubmissionKey identifies one issue in a submission index.
type SubmissionKey struct {
	Prefix      string
	IssueNumber string
}

// SubmissionIndex groups entries by issue, in file order.
type SubmissionIndex map[SubmissionKey][]SubmissionEntry

const submissionMarker = "Submission:"

// ParseSubmissionIndex reads line pairs of the form
//
//	<prefix> <num> - XX <title>
//	Submission: <year>, <Month> <day>
//
// where year, month and day may be "<none>" and day may be "?".
func ParseSubmissionIndex(r io.Reader, prefix string) (SubmissionIndex, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := normalizeLine(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrFormat, "reconcile", "parse submission index", prefix, err)
	}
	if len(lines)%2 != 0 {
		return nil, errs.Malformed("reconcile", "parse submission index", fmt.Sprintf("%s: unpaired line %q", prefix, lines[len(lines)-1]))
	}

	index := make(SubmissionIndex)
	for i := 0; i < len(lines); i += 2 {
		key, entry, err := parseSubmissionPair(prefix, lines[i], lines[i+1])
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "reconcile", "parse submission index", prefix, err)
		}
		index[key] = append(index[key], entry)
	}
	return index, nil
}

func parseSubmissionPair(prefix, issueLine, dateLine string) (SubmissionKey, SubmissionEntry, error) {
	if !strings.HasPrefix(issueLine, prefix) || len(issueLine) <= len(prefix)+1 {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("wrong %q start: %q", prefix, issueLine)
	}
	if !strings.HasPrefix(dateLine, submissionMarker) {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("wrong submission start: %q", dateLine)
	}

	parts := strings.Split(issueLine[len(prefix)+1:], "-")
	if len(parts) < 2 {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("missing title separator: %q", issueLine)
	}
	issueNumber := strings.TrimSpace(parts[0])
	coded := strings.TrimSpace(parts[1])
	if len(coded) < 2 {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("missing story code: %q", issueLine)
	}
	title := strings.TrimSpace(coded[2:])

	date := strings.Split(strings.TrimPrefix(dateLine, submissionMarker), ",")
	if len(date) < 2 {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("bad submission date: %q", dateLine)
	}
	year, err := parseOptionalInt(strings.TrimSpace(date[0]))
	if err != nil {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("bad submission year: %q", dateLine)
	}
	month, day, err := parseMonthDay(strings.TrimSpace(date[1]))
	if err != nil {
		return SubmissionKey{}, SubmissionEntry{}, fmt.Errorf("%w: %q", err, dateLine)
	}

	return SubmissionKey{Prefix: prefix, IssueNumber: issueNumber},
		SubmissionEntry{Title: title, Year: year, Month: month, Day: day}, nil
}

func parseMonthDay(text string) (int, int, error) {
	if text == noneMarker {
		return -1, -1, nil
	}
	fields := strings.Split(text, " ")
	if len(fields) > 2 {
		return 0, 0, fmt.Errorf("bad month and day %q", text)
	}
	month, ok := submissionMonths[fields[0]]
	if !ok {
		return 0, 0, fmt.Errorf("bad month %q", fields[0])
	}
	if len(fields) == 1 {
		return month, -1, nil
	}
	day, err := parseOptionalInt(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad day %q", fields[1])
	}
	return month, day, nil
}

func parseOptionalInt(text string) (int, error) {
	if text == noneMarker || text == "?" {
		return -1, nil
	}
	return strconv.Atoi(text)
}
