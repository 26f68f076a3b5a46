package comicbook_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"barks/internal/comicbook"
	"barks/internal/errs"
	"barks/internal/layout"
	"barks/internal/testsupport"
)

func TestLoadComposesPaths(t *testing.T) {
	a := newArchive(t)
	comic := mustLoadComic(t, a, storyConfig("Frozen Gold"))

	comics := filepath.Join(a.Root, "The Comics")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dest rel dirname", comic.DestRelDirname(), "001 Frozen Gold"},
		{"issue title", comic.ComicIssueTitle(), "FC 62"},
		{"title with issue", comic.TitleWithIssueNum(), "001 Frozen Gold [FC 62]"},
		{"series title", comic.SeriesComicTitle(), "Donald Duck Adventures 1"},
		{"dest dir", comic.DestDir(), filepath.Join(comics, "aaa-Chronological-dirs", "001 Frozen Gold")},
		{"dest image dir", comic.DestImageDir(), filepath.Join(comics, "aaa-Chronological-dirs", "001 Frozen Gold", "images")},
		{"dest zip", comic.DestComicZip(), filepath.Join(comics, "Chronological", "001 Frozen Gold [FC 62].cbz")},
		{"series symlink", comic.DestSeriesComicZipSymlink(), filepath.Join(comics, "Donald Duck Adventures", "001 Frozen Gold [FC 62].cbz")},
		{"year symlink", comic.DestYearComicZipSymlink(), filepath.Join(comics, "Chronological Years", "1944", "001 Frozen Gold [FC 62].cbz")},
		{"restored dir", comic.SrceDir(layout.Restored), filepath.Join(a.Root, "Fantagraphics-restored", testsupport.FixtureVolumeTitle)},
		{"fixes image dir", comic.SrceImageDir(layout.OriginalFixes), filepath.Join(a.Root, "Fantagraphics-fixes-and-additions", testsupport.FixtureVolumeTitle, "images")},
		{"inset", comic.IntroInsetFile, filepath.Join(a.StoryTitlesDir(), "Frozen Gold Inset.png")},
		{"font", comic.TitleFontFile, filepath.Join("/fonts", comicbook.DefaultTitleFontFile)},
		{"submitted", comic.SubmittedDate, " on August 1st, 1944"},
		{"published", comic.PublicationDate, "Four Color #62, January 1945"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q want %q", tt.name, tt.got, tt.want)
		}
	}

	if comic.TitleFontSize != comicbook.DefaultTitleFontSize || comic.AuthorFontSize != comicbook.DefaultAuthorFontSize {
		t.Fatalf("unexpected font sizes %d/%d", comic.TitleFontSize, comic.AuthorFontSize)
	}
	if len(comic.ConfigPages) != 3 || len(comic.Pages) != 5 {
		t.Fatalf("expected 3 config pages and 5 pages, got %d/%d", len(comic.ConfigPages), len(comic.Pages))
	}
	wantText := "First published in Four Color #62, January 1945\n" +
		"Submitted to Western Publishing on August 1st, 1944\n" +
		"\n" +
		"This edition published in Fantagraphics CBDL, Volume 2, 2024\n" +
		"Color restoration by Gary Leach"
	if comic.PublicationText != wantText {
		t.Fatalf("unexpected publication text:\n%s", comic.PublicationText)
	}
}

func TestLoadCensoredStoryPublicationText(t *testing.T) {
	a := newArchive(t)
	cfg := storyConfig("Silent Night")
	cfg.Info["extra_pub_info"] = "Reprinted with permission"
	comic := mustLoadComic(t, a, cfg)

	if !strings.HasPrefix(comic.PublicationText, "(*) Rejected by Western editors in 1945") {
		t.Fatalf("expected censored wording, got:\n%s", comic.PublicationText)
	}
	if !strings.Contains(comic.PublicationText, "fortunately did appear in Gemstone's Christmas Parade, No.3, 2005") {
		t.Fatalf("expected publication issue, got:\n%s", comic.PublicationText)
	}
	if !strings.Contains(comic.PublicationText, "Submitted to Western Publishing, July 1945") {
		t.Fatalf("expected month-only submission date, got:\n%s", comic.PublicationText)
	}
	if !strings.HasSuffix(comic.PublicationText, "\nReprinted with permission") {
		t.Fatalf("expected extra publication info appended, got:\n%s", comic.PublicationText)
	}
}

func TestLoadOverridesFromConfig(t *testing.T) {
	a := newArchive(t)
	cfg := storyConfig("Frozen Gold")
	cfg.Info["title_font_file"] = "Other.ttf"
	cfg.Info["title_font_size"] = "120"
	cfg.Info["author_font_size"] = "70"
	cfg.Info["issue_title"] = "Four Color #62"
	comic := mustLoadComic(t, a, cfg)

	if comic.TitleFontFile != filepath.Join("/fonts", "Other.ttf") || comic.TitleFontSize != 120 || comic.AuthorFontSize != 70 {
		t.Fatalf("font overrides not applied: %q %d %d", comic.TitleFontFile, comic.TitleFontSize, comic.AuthorFontSize)
	}
	if comic.IssueTitle != "Four Color #62" {
		t.Fatalf("unexpected issue title %q", comic.IssueTitle)
	}
}

func TestComicTitleFallbacks(t *testing.T) {
	a := newArchive(t)

	cfg := storyConfig("Silent Night")
	cfg.Info["title"] = ""
	comic := mustLoadComic(t, a, cfg)
	if got := comic.ComicTitle(); got != "Comics and Stories\n64" {
		t.Fatalf("ComicTitle() = %q", got)
	}
	if comic.LookupTitle() != "Silent Night" {
		t.Fatalf("LookupTitle() = %q", comic.LookupTitle())
	}

	cfg.Name = "Silent Night Issue"
	cfg.Info["issue_title"] = "WDCS 64"
	comic = mustLoadComic(t, a, cfg)
	if got := comic.ComicTitle(); got != "WDCS 64" {
		t.Fatalf("ComicTitle() with issue title = %q", got)
	}
}

func TestLookupTitleUsesSafeTitle(t *testing.T) {
	if got := comicbook.LookupTitle("Donald Duck\nFinds Pirate Gold", "ignored"); got != "Donald Duck Finds Pirate Gold" {
		t.Fatalf("LookupTitle = %q", got)
	}
	if got := comicbook.LookupTitle("", "File Title"); got != "File Title" {
		t.Fatalf("LookupTitle fallback = %q", got)
	}
}

func TestLoadFailsOnMissingRequiredDirectory(t *testing.T) {
	a := testsupport.NewArchive(t)
	a.MakeStageDirs(testsupport.FixtureVolumeTitle, layout.Original, layout.Upscayled, layout.Restored, layout.OriginalFixes)

	_, err := loadComic(t, a, storyConfig("Frozen Gold"))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "restored-fixes") {
		t.Fatalf("expected missing stage in message, got %v", err)
	}
}

func TestLoadRejectsUnknownStoryAndSource(t *testing.T) {
	a := newArchive(t)

	_, err := loadComic(t, a, storyConfig("Not A Story"))
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for unknown story, got %v", err)
	}

	cfg := storyConfig("Frozen Gold")
	cfg.Info["source_comic"] = "FANTA_99"
	_, err = loadComic(t, a, cfg)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for unknown source, got %v", err)
	}
}

func TestLoadRejectsUnknownPageType(t *testing.T) {
	a := newArchive(t)
	cfg := storyConfig("Frozen Gold")
	cfg.Pages = [][2]string{{"001", "CENTERFOLD"}}
	_, err := loadComic(t, a, cfg)
	if !errors.Is(err, errs.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}
