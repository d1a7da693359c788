package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cliprelay/internal/auth"
)

func newAuthCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize with YouTube (one-time setup)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			credentials, err := auth.LoadCredentials(cfg.YouTube.CredentialsPath)
			if err != nil {
				return err
			}
			broker, err := cmdCtx.broker()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "A browser window will open for you to authorize the upload scope.")

			openURL := func(url string) {
				fmt.Fprintf(out, "If the browser does not open, visit:\n\n  %s\n\n", url)
				broker.OpenURL(ctx, url)
			}
			if err := auth.Authorize(ctx, credentials, cfg.YouTube.TokenPath, openURL); err != nil {
				return err
			}

			fmt.Fprintf(out, "Success! Token saved to %s\n", cfg.YouTube.TokenPath)
			fmt.Fprintln(out, "The token refreshes automatically from now on.")
			return nil
		},
	}
}
