package main

import (
	"github.com/spf13/cobra"

	"framepress/internal/batch"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var opts batch.Options

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "framepress [dir]",
		Short:         "Batch video transcoder with resumable jobs",
		Long: "framepress converts every eligible video file in a directory with ffmpeg,\n" +
			"one file at a time. Press p to pause (progress is checkpointed for the\n" +
			"next run) or q to quit cleanly.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runBatch(cmd.Context(), ctx, dir, logLevelFlag, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Log the ffmpeg command for each file without encoding")
	rootCmd.Flags().BoolVarP(&opts.ListMode, "list", "l", false, "Write eligible file paths to the list file instead of encoding")
	rootCmd.Flags().BoolVarP(&opts.AssumeYes, "assume-yes", "y", false, "Resume from an existing checkpoint without prompting")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))

	return rootCmd
}
