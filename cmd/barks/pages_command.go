package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"barks/internal/comicbook"
)

type sourceFileRow struct {
	Title      string `json:"title"`
	Page       string `json:"page"`
	Type       string `json:"type"`
	Stage      string `json:"stage"`
	Provenance string `json:"provenance"`
	Path       string `json:"path"`
}

func newPagesCommand(ctx *commandContext) *cobra.Command {
	var sel selection
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Show the source image chosen for each page",
		Long: "Resolves every page through the restored, upscayled and original tiers,\n" +
			"preferring manual fixes, and reports where each image comes from.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sel.requireTitleOrVolume(); err != nil {
				return err
			}
			pageNumbers, err := sel.pages()
			if err != nil {
				return err
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			titles, err := sel.titles(cat)
			if err != nil {
				return err
			}

			var rows []sourceFileRow
			for _, title := range titles {
				comic, err := cat.ComicBook(title, sel.hasTitle())
				if err != nil {
					return err
				}
				pages, err := selectPages(comic, pageNumbers)
				if err != nil {
					return err
				}
				for _, page := range pages {
					file, err := comic.FinalSourceFile(page)
					if err != nil {
						return err
					}
					rows = append(rows, newSourceFileRow(comic, file))
				}
			}

			if jsonOutput {
				if rows == nil {
					rows = []sourceFileRow{}
				}
				return writeJSON(cmd, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No pages found")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.Title, r.Page, r.Type, r.Stage, r.Provenance, r.Path})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]tableColumn{wrapCol("Title", 40), rightCol("Page"), col("Type"), col("Stage"), col("Provenance"), col("Path")},
				table,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.title, "title", "", "Story title or issue label")
	cmd.Flags().StringVar(&sel.volume, "volume", "", "Volume span (e.g. 2-5,7)")
	cmd.Flags().StringVar(&sel.page, "page", "", "Page span within the story (e.g. 1-3,8)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newSourceFileRow(comic *comicbook.ComicBook, file comicbook.SourceFile) sourceFileRow {
	return sourceFileRow{
		Title:      comic.Title,
		Page:       file.Page.Filenames,
		Type:       file.Page.Type.String(),
		Stage:      file.Stage.String(),
		Provenance: file.Provenance.String(),
		Path:       file.Path,
	}
}
