package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"barks/internal/layout"
)

func newVolumesCommand(ctx *commandContext) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "Show the stage directories of source volumes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sel.requireVolume(); err != nil {
				return err
			}
			volumes, err := sel.volumes()
			if err != nil {
				return err
			}
			cat, err := ctx.ensureCatalog()
			if err != nil {
				return err
			}

			var rows [][]string
			for _, volume := range volumes {
				for _, stage := range layout.AllStages() {
					dir, err := cat.VolumeDir(stage, volume)
					if err != nil {
						return err
					}
					rows = append(rows, []string{strconv.Itoa(volume), stage.String(), dir, yesNo(dirExists(dir))})
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]tableColumn{rightCol("Volume"), col("Stage"), col("Directory"), col("Exists")},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&sel.volume, "volume", "", "Volume span (e.g. 2-5,7)")
	return cmd
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
