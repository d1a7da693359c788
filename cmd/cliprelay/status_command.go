package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cliprelay/internal/deps"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check availability of the host tools the pipeline uses",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := deps.CheckBinaries(deps.Desktop())

			rows := make([][]string, 0, len(results))
			for _, status := range results {
				availability := "available"
				if !status.Available {
					availability = "missing"
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, availability, detail})
			}

			columns := []column{{title: "Tool"}, {title: "Status"}, {title: "Detail"}}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))
			return nil
		},
	}
}
