package winquery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"cliprelay/internal/detect"
	"cliprelay/internal/logging"
)

const probeTimeout = 2 * time.Second

// Inspector reports the currently focused window. Implementations must treat
// every failure as "no information": callers rely on empty fields, never on
// errors.
type Inspector interface {
	ActiveWindow(ctx context.Context) detect.WindowContext
}

type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execCommandRunner struct{}

func (execCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = probeEnv()
	return cmd.Output()
}

// probeEnv ensures DISPLAY is set; replay hooks often run from sessions
// without one.
func probeEnv() []string {
	env := os.Environ()
	for _, entry := range env {
		if strings.HasPrefix(entry, "DISPLAY=") {
			return env
		}
	}
	return append(env, "DISPLAY=:0")
}

// XdotoolInspector queries the active window via xdotool and /proc.
type XdotoolInspector struct {
	runner   commandRunner
	logger   *slog.Logger
	timeout  time.Duration
	procRoot string
}

// Option configures the inspector.
type Option func(*XdotoolInspector)

// WithTimeout overrides the per-probe timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(i *XdotoolInspector) {
		if timeout > 0 {
			i.timeout = timeout
		}
	}
}

// WithProcRoot overrides the proc filesystem root (for tests).
func WithProcRoot(root string) Option {
	return func(i *XdotoolInspector) {
		if root != "" {
			i.procRoot = root
		}
	}
}

func withRunner(runner commandRunner) Option {
	return func(i *XdotoolInspector) {
		if runner != nil {
			i.runner = runner
		}
	}
}

// NewInspector constructs an xdotool-backed inspector.
func NewInspector(logger *slog.Logger, opts ...Option) *XdotoolInspector {
	if logger == nil {
		logger = logging.NewNop()
	}
	inspector := &XdotoolInspector{
		runner:   execCommandRunner{},
		logger:   logger.With(logging.String("component", "winquery")),
		timeout:  probeTimeout,
		procRoot: "/proc",
	}
	for _, opt := range opts {
		opt(inspector)
	}
	return inspector
}

// ActiveWindow snapshots the focused window's title and process name. Each
// probe is independently bounded; a failed or timed-out probe contributes an
// empty field.
func (i *XdotoolInspector) ActiveWindow(ctx context.Context) detect.WindowContext {
	return detect.WindowContext{
		Title:   i.windowTitle(ctx),
		Process: i.processName(ctx),
	}
}

func (i *XdotoolInspector) windowTitle(ctx context.Context) string {
	out, err := i.probe(ctx, "xdotool", "getactivewindow", "getwindowname")
	if err != nil {
		i.logger.Debug("window title query failed", logging.Error(err))
		return ""
	}
	return stripInvisible(strings.TrimSpace(out))
}

func (i *XdotoolInspector) processName(ctx context.Context) string {
	out, err := i.probe(ctx, "xdotool", "getactivewindow", "getwindowpid")
	if err != nil {
		i.logger.Debug("window pid query failed", logging.Error(err))
		return ""
	}
	pid := strings.TrimSpace(out)
	if pid == "" {
		return ""
	}

	comm, err := os.ReadFile(fmt.Sprintf("%s/%s/comm", i.procRoot, pid))
	if err != nil {
		i.logger.Debug("process name lookup failed", logging.String("pid", pid), logging.Error(err))
		return ""
	}
	return strings.TrimSpace(string(comm))
}

func (i *XdotoolInspector) probe(ctx context.Context, name string, args ...string) (string, error) {
	probeCtx := ctx
	var cancel context.CancelFunc
	if i.timeout > 0 {
		probeCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	out, err := i.runner.Output(probeCtx, name, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// invisibleRunes covers zero-width and other format characters that some
// games embed in window titles.
var invisibleRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200b, Hi: 0x200f, Stride: 1},
		{Lo: 0x2028, Hi: 0x202f, Stride: 1},
		{Lo: 0x2060, Hi: 0x206f, Stride: 1},
		{Lo: 0xfeff, Hi: 0xfeff, Stride: 1},
	},
}

func stripInvisible(value string) string {
	cleaned, _, err := transform.String(runes.Remove(runes.In(invisibleRunes)), value)
	if err != nil {
		return value
	}
	return cleaned
}
