package metadata

import "testing"

func TestFormattedDay(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th",
		13: "13th", 21: "21th", 22: "22nd", 23: "23rd", 30: "30th", 31: "31st",
	}
	for day, want := range tests {
		if got := FormattedDay(day); got != want {
			t.Errorf("FormattedDay(%d) = %q, want %q", day, got, want)
		}
	}
}

func TestFormattedDates(t *testing.T) {
	info := ComicBookInfo{
		IssueName:      "Comics and Stories",
		IssueNumber:    64,
		IssueYear:      1946,
		IssueMonth:     1,
		SubmittedYear:  1945,
		SubmittedMonth: 7,
		SubmittedDay:   -1,
	}
	if got := FormattedFirstPublished(info); got != "Comics and Stories #64, January 1946" {
		t.Fatalf("FormattedFirstPublished = %q", got)
	}
	if got := FormattedSubmittedDate(info); got != ", July 1945" {
		t.Fatalf("FormattedSubmittedDate = %q", got)
	}

	info.IssueMonth = -1
	info.SubmittedDay = 22
	if got := FormattedFirstPublished(info); got != "Comics and Stories #64, 1946" {
		t.Fatalf("FormattedFirstPublished without month = %q", got)
	}
	if got := FormattedSubmittedDate(info); got != " on July 22nd, 1945" {
		t.Fatalf("FormattedSubmittedDate with day = %q", got)
	}
}

func TestMonthNames(t *testing.T) {
	if MonthLong(9) != "September" || MonthShort(9) != "Sep" {
		t.Fatalf("unexpected names for September: %q %q", MonthLong(9), MonthShort(9))
	}
	if MonthShort(-1) != "   " || MonthShort(42) != "   " {
		t.Fatal("unknown months render blank")
	}
	if MonthLong(0) != "" {
		t.Fatal("month 0 has no long name")
	}
}
