package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cliprelay/internal/notify"
)

func newTestNotifyCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification with actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			broker, err := cmdCtx.broker()
			if err != nil {
				return err
			}

			action := broker.NotifyWithActions(ctx,
				"Clip Relay Test", "https://youtu.be/dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ")

			out := cmd.OutOrStdout()
			switch action {
			case notify.ActionUnavailable:
				fmt.Fprintln(out, "Notification could not be sent (is notify-send installed and notifications enabled?)")
			case notify.ActionTimeout:
				fmt.Fprintln(out, "Notification sent; no action chosen before the timeout")
			default:
				fmt.Fprintf(out, "Notification sent; action: %s\n", action)
			}
			return nil
		},
	}
}
