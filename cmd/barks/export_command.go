package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"barks/internal/catalogdb"
	"barks/internal/config"
)

func newExportIndexCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export-index",
		Short: "Write a SQLite snapshot of the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(strings.TrimSpace(output))
			if err != nil {
				return fmt.Errorf("--output: %w", err)
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			sourceKeys, err := cat.StorySourceKeys()
			if err != nil {
				return err
			}
			snap := catalogdb.NewSnapshot(cat.Tables(), cat.Stories(), sourceKeys)
			if err := catalogdb.Export(cmd.Context(), path, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d stories and %d source books to %s\n",
				len(snap.Stories), len(snap.SourceBooks), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "SQLite file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
