package reconcile

import (
	"cmp"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"barks/internal/errs"
	"barks/internal/logging"
	"barks/internal/metadata"
)

// Record is one row of the stories CSV.
type Record struct {
	Title          string
	IssueName      string
	IssueNumber    int
	IssueYear      int
	IssueMonth     int
	SubmittedYear  int
	SubmittedMonth int
	SubmittedDay   int
}

const recordColumns = 8

// Build resolves a submission date for every story whose issue name has a
// route. Stories from unrouted publications are logged and skipped.
func Build(stories []StoryEntry, indexes map[string]SubmissionIndex, sources *Sources, logger *slog.Logger) ([]Record, error) {
	logger = logging.NewComponentLogger(logger, "reconcile")
	records := make([]Record, 0, len(stories))
	for _, story := range stories {
		route, ok := sources.Route(story.IssueName)
		if !ok {
			logging.WarnWithContext(logger, "story skipped", "unrouted_issue",
				logging.String("title", story.Title),
				logging.String("issue_name", story.IssueName),
				logging.String(logging.FieldImpact, "story missing from generated csv"),
				logging.String(logging.FieldErrorHint, "add a route for the issue name"),
			)
			continue
		}
		key := SubmissionKey{Prefix: route.Prefix, IssueNumber: story.IssueNumber}
		candidates := indexes[route.Prefix][key]
		if len(candidates) == 0 {
			return nil, errs.NotFound("reconcile", "build", fmt.Sprintf("%q: no submission entry for %s %s", story.Title, route.Prefix, story.IssueNumber))
		}
		entry, err := Match(story.Title, candidates, sources)
		if err != nil {
			return nil, err
		}
		number, err := strconv.Atoi(story.IssueNumber)
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "reconcile", "build", fmt.Sprintf("%q: issue number %q", story.Title, story.IssueNumber), err)
		}
		records = append(records, Record{
			Title:          story.Title,
			IssueName:      route.Canonical,
			IssueNumber:    number,
			IssueYear:      story.IssueYear,
			IssueMonth:     story.IssueMonth,
			SubmittedYear:  entry.Year,
			SubmittedMonth: entry.Month,
			SubmittedDay:   entry.Day,
		})
	}
	return records, nil
}

// CompareSubmission orders records by submission year, month and day.
func CompareSubmission(a, b Record) int {
	if c := cmp.Compare(a.SubmittedYear, b.SubmittedYear); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SubmittedMonth, b.SubmittedMonth); c != 0 {
		return c
	}
	return cmp.Compare(a.SubmittedDay, b.SubmittedDay)
}

// SortBySubmission sorts in place, keeping story index order for equal dates.
func SortBySubmission(records []Record) {
	slices.SortStableFunc(records, CompareSubmission)
}

// WriteCSV writes records in the stories CSV format.
func WriteCSV(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	for _, r := range records {
		row := []string{
			r.Title,
			r.IssueName,
			strconv.Itoa(r.IssueNumber),
			strconv.Itoa(r.IssueYear),
			strconv.Itoa(r.IssueMonth),
			strconv.Itoa(r.SubmittedYear),
			strconv.Itoa(r.SubmittedMonth),
			strconv.Itoa(r.SubmittedDay),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Title, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV reads records written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = recordColumns
	var out []Record
	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrFormat, "reconcile", "read csv", fmt.Sprintf("line %d", line), err)
		}
		nums := make([]int, recordColumns-2)
		for i, field := range row[2:] {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, errs.Wrap(errs.ErrFormat, "reconcile", "read csv", fmt.Sprintf("line %d column %d", line, i+3), err)
			}
			nums[i] = n
		}
		out = append(out, Record{
			Title:          row[0],
			IssueName:      row[1],
			IssueNumber:    nums[0],
			IssueYear:      nums[1],
			IssueMonth:     nums[2],
			SubmittedYear:  nums[3],
			SubmittedMonth: nums[4],
			SubmittedDay:   nums[5],
		})
	}
}

// VerifyRoundTrip checks that re-read records equal the written ones.
func VerifyRoundTrip(written, read []Record) error {
	if len(written) != len(read) {
		return errs.Inconsistent("reconcile", "verify", fmt.Sprintf("wrote %d records, read %d", len(written), len(read)))
	}
	for i := range written {
		if written[i] != read[i] {
			return errs.Inconsistent("reconcile", "verify", fmt.Sprintf("record %d differs: wrote %+v, read %+v", i+1, written[i], read[i]))
		}
	}
	return nil
}

// Report renders records as a fixed-width table.
func Report(records []Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Title", "Issue", "Number", "Published", "Submitted"})
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.Title,
			r.IssueName,
			r.IssueNumber,
			fmt.Sprintf("%s %4d", metadata.MonthShort(r.IssueMonth), r.IssueYear),
			formatSubmitted(r),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})
	return tw.Render()
}

func formatSubmitted(r Record) string {
	month := noneMarker
	if r.SubmittedMonth != -1 {
		month = metadata.MonthLong(r.SubmittedMonth)
	}
	var b strings.Builder
	b.WriteString(month)
	if r.SubmittedDay != -1 {
		b.WriteString(" " + metadata.FormattedDay(r.SubmittedDay))
	}
	fmt.Fprintf(&b, ", %d", r.SubmittedYear)
	return b.String()
}
