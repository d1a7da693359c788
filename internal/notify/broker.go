package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"cliprelay/internal/config"
	"cliprelay/internal/logging"
)

var commandContext = exec.CommandContext

// Action reports how the user responded to an actionable notification.
type Action int

const (
	// ActionDismissed means the notification was closed without choosing
	// an action.
	ActionDismissed Action = iota
	// ActionTimeout means the wait expired with no interaction.
	ActionTimeout
	// ActionCopy means the user chose to copy the link.
	ActionCopy
	// ActionOpen means the user chose to open the link in a browser.
	ActionOpen
	// ActionUnavailable means no notification surface could be reached.
	ActionUnavailable
)

func (a Action) String() string {
	switch a {
	case ActionDismissed:
		return "dismissed"
	case ActionTimeout:
		return "timeout"
	case ActionCopy:
		return "copy"
	case ActionOpen:
		return "open"
	case ActionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Broker sends desktop notifications through notify-send and handles the
// follow-up actions (clipboard copy, browser open). Every path degrades
// quietly: a missing tool never fails the pipeline that triggered the
// notification.
type Broker struct {
	enabled       bool
	appName       string
	actionTimeout time.Duration
	logger        *slog.Logger
}

// NewBroker builds a broker from the notifications config section.
func NewBroker(cfg config.Notifications, logger *slog.Logger) *Broker {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.ActionTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	appName := strings.TrimSpace(cfg.AppName)
	if appName == "" {
		appName = "Clip Relay"
	}
	return &Broker{
		enabled:       cfg.Enabled,
		appName:       appName,
		actionTimeout: timeout,
		logger:        logger.With(logging.String("component", "notify")),
	}
}

// Notify sends a plain notification. A missing notify-send binary is
// swallowed; notifications are best effort.
func (b *Broker) Notify(ctx context.Context, title, message, urgency string) {
	if !b.enabled {
		return
	}
	if urgency == "" {
		urgency = "normal"
	}
	cmd := commandContext(ctx, "notify-send", "-u", urgency, "-a", b.appName, title, message)
	if err := cmd.Run(); err != nil {
		if isToolMissing(err) {
			b.logger.Debug("notify-send not available")
			return
		}
		b.logger.Debug("notification failed", logging.Error(err))
	}
}

// NotifyWithActions sends a notification offering Copy Link and Open in
// Browser actions, then blocks until the user responds or the configured
// timeout elapses. The chosen action is carried out before returning.
func (b *Broker) NotifyWithActions(ctx context.Context, title, message, url string) Action {
	if !b.enabled {
		return ActionUnavailable
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.actionTimeout)
	defer cancel()

	cmd := commandContext(waitCtx, "notify-send",
		"-u", "normal",
		"-a", b.appName,
		"--action=copy=Copy Link",
		"--action=open=Open in Browser",
		title,
		message,
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if waitCtx.Err() == context.DeadlineExceeded {
			b.logger.Debug("notification timed out without interaction")
			return ActionTimeout
		}
		if isToolMissing(err) {
			b.logger.Debug("notify-send not available")
			return ActionUnavailable
		}
		// Action support varies across notification daemons. Fall back
		// to a plain notification so the link is at least visible.
		b.logger.Debug("actionable notification failed; sending plain notification", logging.Error(err))
		b.Notify(ctx, title, message, "normal")
		return ActionUnavailable
	}

	switch strings.TrimSpace(stdout.String()) {
	case "copy":
		if b.copyToClipboard(ctx, url) {
			b.logger.Info("copied link to clipboard", logging.String("url", url))
			b.Notify(ctx, "Link Copied!", url, "normal")
		} else {
			b.logger.Warn("no clipboard tool available")
			b.Notify(ctx, "Copy Failed", "Install wl-copy or xclip", "critical")
		}
		return ActionCopy
	case "open":
		b.logger.Info("opening link in browser", logging.String("url", url))
		b.openBrowser(ctx, url)
		return ActionOpen
	default:
		return ActionDismissed
	}
}

// copyToClipboard tries wl-copy first (Wayland), then xclip (X11).
func (b *Broker) copyToClipboard(ctx context.Context, text string) bool {
	if err := commandContext(ctx, "wl-copy", text).Run(); err == nil {
		return true
	}
	cmd := commandContext(ctx, "xclip", "-selection", "clipboard")
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run() == nil
}

// OpenURL opens a link in the user's browser, detached. Unlike
// notifications it works even when notifications are disabled; the auth
// flow depends on it.
func (b *Broker) OpenURL(ctx context.Context, url string) {
	b.openBrowser(ctx, url)
}

// openBrowser launches xdg-open detached so a long-lived browser process
// never blocks the caller.
func (b *Broker) openBrowser(ctx context.Context, url string) {
	cmd := commandContext(ctx, "xdg-open", url)
	if err := cmd.Start(); err != nil {
		b.logger.Debug("xdg-open failed", logging.Error(err))
		return
	}
	go func() { _ = cmd.Wait() }()
}

// PlayCue plays an audio file through paplay. Errors are swallowed; the cue
// is decoration, not signal.
func (b *Broker) PlayCue(ctx context.Context, path string) {
	if !b.enabled || strings.TrimSpace(path) == "" {
		return
	}
	if err := commandContext(ctx, "paplay", path).Run(); err != nil {
		b.logger.Debug("audio cue failed", logging.Error(err))
	}
}

func isToolMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
