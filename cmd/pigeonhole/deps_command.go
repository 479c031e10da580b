package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pigeonhole/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			allRequired := true
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if status.Optional {
						state = "missing (optional)"
					} else {
						allRequired = false
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tool", "Command", "Status", "Detail"}, rows))
			fmt.Fprintln(cmd.OutOrStdout(), "Native fallback reads .jpg, .png, .mp4, and .mov metadata; other files date by modification time.")
			if !allRequired {
				return errors.New("required external tools are missing")
			}
			return nil
		},
	}
}
