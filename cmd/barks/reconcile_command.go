package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"barks/internal/config"
	"barks/internal/reconcile"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var indexDir string
	var output string
	var sourcesPath string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild the stories CSV from the story and submission indexes",
		Long: "Reads " + reconcile.StoryIndexFile + " and the submission indexes from --index-dir,\n" +
			"matches every story to its submission date, and writes the stories CSV\n" +
			"sorted by submission date. The written file is read back and verified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(strings.TrimSpace(indexDir))
			if err != nil {
				return fmt.Errorf("--index-dir: %w", err)
			}
			out, err := config.ExpandPath(strings.TrimSpace(output))
			if err != nil {
				return fmt.Errorf("--output: %w", err)
			}

			var sources *reconcile.Sources
			if path := strings.TrimSpace(sourcesPath); path != "" {
				if sources, err = reconcile.LoadSourcesFile(path); err != nil {
					return err
				}
			}

			records, err := reconcile.Run(reconcile.Options{
				IndexDir: dir,
				Output:   out,
				Sources:  sources,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reconcile.Report(records))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d stories to %s\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&indexDir, "index-dir", "", "Directory holding the story and submission indexes")
	cmd.Flags().StringVar(&output, "output", "", "Stories CSV to write")
	cmd.Flags().StringVar(&sourcesPath, "sources", "", "Routing and fixups TOML replacing the built-in one")
	_ = cmd.MarkFlagRequired("index-dir")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
