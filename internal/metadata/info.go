package metadata

import (
	"fmt"
	"strings"
)

var monthLong = map[int]string{
	1:  "January",
	2:  "February",
	3:  "March",
	4:  "April",
	5:  "May",
	6:  "June",
	7:  "July",
	8:  "August",
	9:  "September",
	10: "October",
	11: "November",
	12: "December",
}

var monthShort = map[int]string{
	-1: "   ",
	1:  "Jan",
	2:  "Feb",
	3:  "Mar",
	4:  "Apr",
	5:  "May",
	6:  "Jun",
	7:  "Jul",
	8:  "Aug",
	9:  "Sep",
	10: "Oct",
	11: "Nov",
	12: "Dec",
}

// ComicBookInfo holds one story's bibliographic facts. Month and day fields
// use -1 for unknown.
type ComicBookInfo struct {
	IssueName           string
	IssueNumber         int
	IssueYear           int
	IssueMonth          int
	SubmittedYear       int
	SubmittedMonth      int
	SubmittedDay        int
	Colorist            string
	SeriesName          string
	NumberInSeries      int
	ChronologicalNumber int

	shortIssueName string
}

// ShortIssueName returns the abbreviated publication label, e.g. "WDCS".
func (c ComicBookInfo) ShortIssueName() string {
	return c.shortIssueName
}

// IssueTitle is the upper-cased issue label used for issue lookups, e.g.
// "WDCS 64".
func (c ComicBookInfo) IssueTitle() string {
	return strings.ToUpper(fmt.Sprintf("%s %d", c.shortIssueName, c.IssueNumber))
}

// MonthLong returns the full month name, or "" for an unknown month.
func MonthLong(month int) string {
	return monthLong[month]
}

// MonthShort returns the three-letter month name; unknown months are blank.
func MonthShort(month int) string {
	if s, ok := monthShort[month]; ok {
		return s
	}
	return monthShort[-1]
}

// FormattedDay returns the day with its English ordinal suffix.
func FormattedDay(day int) string {
	switch day {
	case 1, 31:
		return fmt.Sprintf("%dst", day)
	case 2, 22:
		return fmt.Sprintf("%dnd", day)
	case 3, 23:
		return fmt.Sprintf("%drd", day)
	default:
		return fmt.Sprintf("%dth", day)
	}
}

// FormattedFirstPublished renders "<issue> #<n>, <Month Year>", dropping the
// month when it is unknown.
func FormattedFirstPublished(info ComicBookInfo) string {
	issue := fmt.Sprintf("%s #%d", info.IssueName, info.IssueNumber)
	if info.IssueMonth == -1 {
		return fmt.Sprintf("%s, %d", issue, info.IssueYear)
	}
	return fmt.Sprintf("%s, %s %d", issue, MonthLong(info.IssueMonth), info.IssueYear)
}

// FormattedSubmittedDate renders the submission date as a suffix for
// "Submitted to Western Publishing".
func FormattedSubmittedDate(info ComicBookInfo) string {
	if info.SubmittedDay == -1 {
		return fmt.Sprintf(", %s %d", MonthLong(info.SubmittedMonth), info.SubmittedYear)
	}
	return fmt.Sprintf(" on %s %s, %d", MonthLong(info.SubmittedMonth), FormattedDay(info.SubmittedDay), info.SubmittedYear)
}
