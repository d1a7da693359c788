package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cliprelay/internal/detect"
	"cliprelay/internal/winquery"
)

func newDetectCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show the label the active window would produce",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			window := winquery.NewInspector(logger).ActiveWindow(ctx)
			label := detect.New(cfg.Detection).Detect(window)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Window title:   %s\n", window.Title)
			fmt.Fprintf(out, "Window process: %s\n", window.Process)
			fmt.Fprintf(out, "Label:          %s\n", label)
			return nil
		},
	}
}
