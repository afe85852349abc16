package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"framepress/internal/history"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var dirFlag string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent encode outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in the configuration")
			}

			workDir, err := filepath.Abs(dirFlag)
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}
			path := cfg.History.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(workDir, path)
			}

			store, err := history.Open(path)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No history recorded yet.")
				return nil
			}

			rows := make([]table.Row, 0, len(records))
			for _, rec := range records {
				rows = append(rows, table.Row{
					rec.FinishedAt.Local().Format(time.DateTime),
					rec.File,
					rec.SourceCodec,
					rec.Outcome,
					fmt.Sprintf("%d/%d", rec.LastFrame, rec.TotalFrames),
				})
			}
			fmt.Fprintln(out, renderTable(
				table.Row{"Finished", "File", "Codec", "Outcome", "Frames"},
				rows, 5,
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of records to show")
	cmd.Flags().StringVarP(&dirFlag, "dir", "d", ".", "Working directory holding the history database")
	return cmd
}
