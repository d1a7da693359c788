package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cliprelay/internal/services"
	"cliprelay/internal/watcher"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newRunCommand handles one replay-saved event: locate, detect, rename,
// upload, notify. This is what the recorder hook invokes.
func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process the most recent capture once",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			driver, cleanup, err := cmdCtx.driver(ctx)
			if err != nil {
				return reportSetupFailure(ctx, cmdCtx, err)
			}
			defer cleanup()

			return driver.Run(ctx)
		},
	}
}

func newUploadCommand(cmdCtx *commandContext) *cobra.Command {
	var filePath string
	var title string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a specific video file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			driver, cleanup, err := cmdCtx.driver(ctx)
			if err != nil {
				return reportSetupFailure(ctx, cmdCtx, err)
			}
			defer cleanup()

			return driver.RunFile(ctx, filePath, title)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Path to the video file")
	cmd.Flags().StringVar(&title, "title", "", "Video title")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newWatchCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the replay directory and upload new captures",
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
			driver, cleanup, err := cmdCtx.driver(ctx)
			if err != nil {
				return reportSetupFailure(ctx, cmdCtx, err)
			}
			defer cleanup()

			w, err := watcher.New(cfg, driver, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (press Ctrl+C to stop)\n", w.Dir())

			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// criticalNotifier is the piece of notify.Broker the setup path needs.
type criticalNotifier interface {
	Notify(ctx context.Context, title, message, urgency string)
}

// reportSetupFailure surfaces a failed pipeline assembly. run is usually
// invoked detached from any terminal, so user-actionable errors (missing
// credentials, missing token) also raise a critical desktop notification
// before the error is returned.
func reportSetupFailure(ctx context.Context, cmdCtx *commandContext, err error) error {
	if broker, berr := cmdCtx.broker(); berr == nil {
		notifySetupFailure(ctx, broker, err)
	}
	return describeSetupError(err)
}

func notifySetupFailure(ctx context.Context, notifier criticalNotifier, err error) {
	if !services.IsUserActionable(err) {
		return
	}
	notifier.Notify(ctx, "Upload Failed", err.Error(), "critical")
}

// describeSetupError makes credential problems actionable on the command
// line instead of surfacing a bare wrapped error.
func describeSetupError(err error) error {
	if services.IsUserActionable(err) && strings.Contains(err.Error(), "token") {
		return fmt.Errorf("%w\n\nRun \"cliprelay auth\" to authorize with YouTube first", err)
	}
	return err
}
