package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"barks/internal/layout"
	"barks/internal/logging"
	"barks/internal/segmentation"
)

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Find the panel bounds of story pages with kumiko",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sel.requireTitleAndPage(); err != nil {
				return err
			}
			pageNumbers, err := sel.pages()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runner := segmentation.NewRunner(cfg.Segmentation.Python, cfg.KumikoScript(), logger)
			if err := runner.Check(); err != nil {
				return err
			}

			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			comic, err := cat.ComicBook(strings.TrimSpace(sel.title), true)
			if err != nil {
				return err
			}
			pages, err := selectPages(comic, pageNumbers)
			if err != nil {
				return err
			}

			workDir, err := cfg.NewWorkDir(time.Now())
			if err != nil {
				return err
			}
			comic.LogParams(logger, workDir)

			boundsDir := comic.SrceDir(layout.PanelSegments)
			if err := os.MkdirAll(boundsDir, 0o755); err != nil {
				return fmt.Errorf("create panel segments dir: %w", err)
			}

			rows := make([][]string, 0, len(pages))
			for _, page := range pages {
				file, err := comic.FinalSourceFile(page)
				if err != nil {
					return err
				}
				segment, err := runner.Segment(cmd.Context(), file.Path)
				if err != nil {
					return err
				}
				bounds, err := segmentation.PanelBounds(segment)
				if err != nil {
					return err
				}
				path, err := segmentation.WriteBounds(boundsDir, page.Filenames, bounds)
				if err != nil {
					return err
				}
				logger.Info("panel bounds written",
					logging.String(logging.FieldPage, page.Filenames),
					logging.Int("panels", len(segment.Panels)),
					logging.String("bounds_path", path),
				)
				rows = append(rows, []string{
					page.Filenames,
					strconv.Itoa(len(segment.Panels)),
					fmt.Sprintf("%d,%d", bounds.X0, bounds.Y0),
					fmt.Sprintf("%d,%d", bounds.X1, bounds.Y1),
					fmt.Sprintf("%dx%d", bounds.Width(), bounds.Height()),
				})
			}

			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]tableColumn{rightCol("Page"), rightCol("Panels"), rightCol("Top left"), rightCol("Bottom right"), rightCol("Size")},
				rows,
			))
			fmt.Fprintf(cmd.OutOrStdout(), "Bounds written to %s\n", boundsDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.title, "title", "", "Story title or issue label")
	cmd.Flags().StringVar(&sel.page, "page", "", "Page span within the story (e.g. 1-3,8)")
	return cmd
}
