package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cliprelay/internal/history"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past uploads",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No uploads recorded yet")
				return nil
			}

			if !stdoutIsTerminal() {
				for _, rec := range records {
					fmt.Fprintf(out, "%s\t%s\t%s\n",
						rec.UploadedAt.Local().Format("2006-01-02 15:04"), rec.Title, rec.URL)
				}
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					humanize.Time(rec.UploadedAt),
					rec.Title,
					rec.URL,
					humanize.Bytes(uint64(rec.SizeBytes)),
					strconv.Itoa(rec.Attempts),
				})
			}
			columns := []column{
				{title: "Uploaded"},
				{title: "Title"},
				{title: "URL"},
				{title: "Size", right: true},
				{title: "Attempts", right: true},
			}
			fmt.Fprintln(out, renderTable(columns, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of uploads to show (0 for all)")
	return cmd
}

func stdoutIsTerminal() bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
