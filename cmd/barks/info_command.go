package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"barks/internal/comicbook"
	"barks/internal/textutil"
)

type comicInfo struct {
	Title               string `json:"title"`
	ComicTitle          string `json:"comic_title"`
	Issue               string `json:"issue"`
	Series              string `json:"series"`
	NumberInSeries      int    `json:"number_in_series"`
	ChronologicalNumber int    `json:"chronological_number"`
	Colorist            string `json:"colorist"`
	SourceBook          string `json:"source_book"`
	Published           string `json:"published"`
	Submitted           string `json:"submitted"`
	PublicationText     string `json:"publication_text"`
	DestDir             string `json:"dest_dir"`
	DestZip             string `json:"dest_zip"`
	SeriesSymlink       string `json:"series_symlink"`
	YearSymlink         string `json:"year_symlink"`
	Pages               int    `json:"pages"`
}

type volumeStoryPages struct {
	Title string `json:"title"`
	Pages string `json:"pages"`
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var sel selection
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show resolved details for a story, or the pages of every story in a volume",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sel.requireTitleOrVolume(); err != nil {
				return err
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}

			if sel.hasTitle() {
				comic, err := cat.ComicBook(strings.TrimSpace(sel.title), true)
				if err != nil {
					return err
				}
				info := describeComic(comic)
				if jsonOutput {
					return writeJSON(cmd, info)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]tableColumn{col("Field"), col("Value")}, comicInfoRows(info)))
				return nil
			}

			titles, err := sel.titles(cat)
			if err != nil {
				return err
			}
			stories := make([]volumeStoryPages, 0, len(titles))
			for _, title := range titles {
				comic, err := cat.ComicBook(title, false)
				if err != nil {
					return err
				}
				stories = append(stories, volumeStoryPages{Title: title, Pages: storyPagesString(comic)})
			}
			if jsonOutput {
				return writeJSON(cmd, stories)
			}
			if len(stories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stories found")
				return nil
			}
			rows := make([][]string, 0, len(stories))
			for _, s := range stories {
				rows = append(rows, []string{s.Title, s.Pages})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]tableColumn{wrapCol("Title", 40), wrapCol("Pages", 60)}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.title, "title", "", "Story title or issue label (e.g. \"WDCS 31\")")
	cmd.Flags().StringVar(&sel.volume, "volume", "", "Volume span (e.g. 2-5,7)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func describeComic(comic *comicbook.ComicBook) comicInfo {
	return comicInfo{
		Title:               comic.Title,
		ComicTitle:          textutil.SafeTitle(comic.ComicTitle()),
		Issue:               comic.ComicIssueTitle(),
		Series:              comic.Info.SeriesName,
		NumberInSeries:      comic.Info.NumberInSeries,
		ChronologicalNumber: comic.Info.ChronologicalNumber,
		Colorist:            comic.Info.Colorist,
		SourceBook:          comic.SourceBook.Title,
		Published:           comic.PublicationDate,
		Submitted:           comic.SubmittedDate,
		PublicationText:     comic.PublicationText,
		DestDir:             comic.DestDir(),
		DestZip:             comic.DestComicZip(),
		SeriesSymlink:       comic.DestSeriesComicZipSymlink(),
		YearSymlink:         comic.DestYearComicZipSymlink(),
		Pages:               len(comic.Pages),
	}
}

func comicInfoRows(info comicInfo) [][]string {
	return [][]string{
		{"Title", info.Title},
		{"Comic title", info.ComicTitle},
		{"Issue", info.Issue},
		{"Series", fmt.Sprintf("%s (#%d)", info.Series, info.NumberInSeries)},
		{"Chronological number", strconv.Itoa(info.ChronologicalNumber)},
		{"Colorist", info.Colorist},
		{"Source book", info.SourceBook},
		{"Published", info.Published},
		{"Submitted", info.Submitted},
		{"Publication text", info.PublicationText},
		{"Destination", info.DestDir},
		{"Archive", info.DestZip},
		{"Series symlink", info.SeriesSymlink},
		{"Year symlink", info.YearSymlink},
		{"Pages", strconv.Itoa(info.Pages)},
	}
}

// storyPagesString lists the configured front and body page entries as
// written in the story config.
func storyPagesString(comic *comicbook.ComicBook) string {
	var entries []string
	for _, page := range comic.ConfigPages {
		if page.Type == comicbook.Front || page.Type == comicbook.Body {
			entries = append(entries, page.Filenames)
		}
	}
	return strings.Join(entries, ", ")
}
