package main

import (
	"slices"
	"testing"
)

func TestParseSpan(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"7", []int{7}},
		{"2-5,7", []int{2, 3, 4, 5, 7}},
		{"7, 2-3 ,3", []int{2, 3, 7}},
		{"4-4", []int{4}},
	}
	for _, tt := range tests {
		got, err := parseSpan(tt.in)
		if err != nil {
			t.Fatalf("parseSpan(%q) error: %v", tt.in, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Fatalf("parseSpan(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSpanRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "a", "5-2", "1,,2", "-3", "2-", "1-x"} {
		if _, err := parseSpan(in); err == nil {
			t.Fatalf("parseSpan(%q) should fail", in)
		}
	}
}

func TestSelectionRequireTitleOrVolume(t *testing.T) {
	tests := []struct {
		name    string
		sel     selection
		wantErr string
	}{
		{name: "title", sel: selection{title: "Frozen Gold"}},
		{name: "title and page", sel: selection{title: "Frozen Gold", page: "1-3"}},
		{name: "volume", sel: selection{volume: "2-3"}},
		{name: "neither", sel: selection{}, wantErr: "specify one of --title or --volume"},
		{name: "both", sel: selection{title: "Frozen Gold", volume: "2"}, wantErr: "specify only one of --title or --volume"},
		{name: "page with volume", sel: selection{volume: "2", page: "1"}, wantErr: "--page cannot be combined with --volume"},
		{name: "bad volume span", sel: selection{volume: "3-2"}, wantErr: "--volume: invalid span"},
		{name: "bad page span", sel: selection{title: "Frozen Gold", page: "x"}, wantErr: "--page: invalid span"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.requireTitleOrVolume()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			requireContains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSelectionRequireTitleAndPage(t *testing.T) {
	if err := (selection{page: "1"}).requireTitleAndPage(); err == nil {
		t.Fatal("expected missing title error")
	}
	if err := (selection{title: "Frozen Gold"}).requireTitleAndPage(); err == nil {
		t.Fatal("expected missing page error")
	}
	if err := (selection{title: "Frozen Gold", page: "2"}).requireTitleAndPage(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
