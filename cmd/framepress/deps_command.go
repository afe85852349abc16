package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"framepress/internal/deps"
)

func newDepsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check the external tools framepress needs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows := make([]table.Row, 0, 3)
			missingRequired := false
			for _, status := range deps.Check(cfg) {
				state := "ok"
				switch {
				case !status.Available && status.Optional:
					state = "missing (optional)"
				case !status.Available:
					state = "missing"
					missingRequired = true
				}
				rows = append(rows, table.Row{status.Name, status.Command, state, status.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				table.Row{"Tool", "Command", "State", "Detail"}, rows,
			))
			if missingRequired {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}
}
