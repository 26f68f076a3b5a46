package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "barks",
		Short:         "Carl Barks archive tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.comicsDatabaseDir, "comics-database-dir", "", "Comics database directory (overrides paths.comics_database_dir)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newTitlesCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newPagesCommand(ctx))
	rootCmd.AddCommand(newVolumesCommand(ctx))
	rootCmd.AddCommand(newMakeDirsCommand(ctx))
	rootCmd.AddCommand(newSegmentCommand(ctx))
	rootCmd.AddCommand(newReconcileCommand(ctx))
	rootCmd.AddCommand(newExportIndexCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
