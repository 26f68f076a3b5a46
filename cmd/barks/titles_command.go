package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"barks/internal/metadata"
)

type titleSummary struct {
	Title               string `json:"title"`
	Issue               string `json:"issue,omitempty"`
	Series              string `json:"series,omitempty"`
	ChronologicalNumber int    `json:"chronological_number,omitempty"`
	Submitted           string `json:"submitted,omitempty"`
}

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var sel selection
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List configured story titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sel.checkSpans(); err != nil {
				return err
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			titles := cat.AllStoryTitles()
			if sel.hasVolume() {
				if titles, err = sel.titles(cat); err != nil {
					return err
				}
			}

			summaries := make([]titleSummary, 0, len(titles))
			for _, title := range titles {
				summary := titleSummary{Title: title}
				if info, ok := cat.Stories().Get(title); ok {
					summary.Issue = info.IssueTitle()
					summary.Series = info.SeriesName
					summary.ChronologicalNumber = info.ChronologicalNumber
					summary.Submitted = metadata.FormattedSubmittedDate(info)
				}
				summaries = append(summaries, summary)
			}

			if jsonOutput {
				return writeJSON(cmd, summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stories found")
				return nil
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				number := ""
				if s.ChronologicalNumber > 0 {
					number = strconv.Itoa(s.ChronologicalNumber)
				}
				rows = append(rows, []string{number, s.Title, s.Issue, s.Series, s.Submitted})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]tableColumn{rightCol("#"), wrapCol("Title", 40), col("Issue"), wrapCol("Series", 30), col("Submitted")},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.volume, "volume", "", "Only list stories from these volumes (e.g. 2-5,7)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}
