package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"barks/internal/catalog"
)

func newMakeDirsCommand(ctx *commandContext) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "make-dirs",
		Short: "Create the stage image directories for source volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			volumes, err := sel.volumes()
			if err != nil {
				return err
			}
			if volumes == nil {
				volumes = catalog.DefaultVolumes
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}
			dirs, err := cat.MakeAllDirectories(volumes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ensured %d directories for %d volumes under %s\n", len(dirs), len(volumes), cat.Layout().RootDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.volume, "volume", "", "Volume span (default: every volume)")
	return cmd
}
