package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"cliprelay/internal/config"
)

type invocation struct {
	name string
	args []string
}

// fakeCommands routes each tool name to a helper-process behavior and
// records every invocation.
type fakeCommands struct {
	behaviors map[string]map[string]string
	calls     []invocation
}

func (f *fakeCommands) install(t *testing.T) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		f.calls = append(f.calls, invocation{name: name, args: args})
		env, ok := f.behaviors[name]
		if !ok {
			return exec.CommandContext(ctx, "cliprelay-missing-tool")
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1")
		for key, value := range env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
		}
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func (f *fakeCommands) callsTo(name string) []invocation {
	var out []invocation
	for _, call := range f.calls {
		if call.name == name {
			out = append(out, call)
		}
	}
	return out
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	if ms, err := strconv.Atoi(os.Getenv("HELPER_SLEEP_MS")); err == nil && ms > 0 {
		time.Sleep(time.Duration(ms) * time.Millisecond)
	}
	if path := os.Getenv("HELPER_STDIN_FILE"); path != "" {
		data, _ := io.ReadAll(os.Stdin)
		_ = os.WriteFile(path, data, 0o644)
	}
	if out := os.Getenv("HELPER_STDOUT"); out != "" {
		fmt.Fprintln(os.Stdout, out)
	}
	if code, err := strconv.Atoi(os.Getenv("HELPER_EXIT")); err == nil && code != 0 {
		os.Exit(code)
	}
}

func newTestBroker(timeoutSeconds int) *Broker {
	return NewBroker(config.Notifications{
		Enabled:              true,
		AppName:              "Clip Relay",
		ActionTimeoutSeconds: timeoutSeconds,
	}, nil)
}

func TestNotifyPassesUrgencyAndAppName(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {},
	}}
	fake.install(t)

	newTestBroker(30).Notify(context.Background(), "Upload Failed", "boom", "critical")

	calls := fake.callsTo("notify-send")
	if len(calls) != 1 {
		t.Fatalf("expected 1 notify-send call, got %d", len(calls))
	}
	want := []string{"-u", "critical", "-a", "Clip Relay", "Upload Failed", "boom"}
	if strings.Join(calls[0].args, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected args %v", calls[0].args)
	}
}

func TestNotifySwallowsMissingTool(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{}}
	fake.install(t)

	// Must not panic or error when notify-send is absent.
	newTestBroker(30).Notify(context.Background(), "title", "message", "")
}

func TestNotifyWithActionsCopyUsesWlCopy(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {"HELPER_STDOUT": "copy"},
		"wl-copy":     {},
	}}
	fake.install(t)

	action := newTestBroker(30).NotifyWithActions(context.Background(), "Clip Uploaded!", "https://youtu.be/abc", "https://youtu.be/abc")
	if action != ActionCopy {
		t.Fatalf("expected copy action, got %v", action)
	}

	copies := fake.callsTo("wl-copy")
	if len(copies) != 1 || copies[0].args[0] != "https://youtu.be/abc" {
		t.Fatalf("expected wl-copy with url, got %v", copies)
	}
	// Confirmation notification follows a successful copy.
	notifies := fake.callsTo("notify-send")
	if len(notifies) != 2 {
		t.Fatalf("expected confirmation notification, got %d notify-send calls", len(notifies))
	}
	if !strings.Contains(strings.Join(notifies[1].args, " "), "Link Copied!") {
		t.Fatalf("unexpected confirmation args %v", notifies[1].args)
	}
}

func TestNotifyWithActionsCopyFallsBackToXclip(t *testing.T) {
	stdinFile := filepath.Join(t.TempDir(), "clipboard.txt")
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {"HELPER_STDOUT": "copy"},
		"wl-copy":     {"HELPER_EXIT": "1"},
		"xclip":       {"HELPER_STDIN_FILE": stdinFile},
	}}
	fake.install(t)

	action := newTestBroker(30).NotifyWithActions(context.Background(), "Clip Uploaded!", "https://youtu.be/abc", "https://youtu.be/abc")
	if action != ActionCopy {
		t.Fatalf("expected copy action, got %v", action)
	}

	clips := fake.callsTo("xclip")
	if len(clips) != 1 || strings.Join(clips[0].args, " ") != "-selection clipboard" {
		t.Fatalf("expected xclip -selection clipboard, got %v", clips)
	}
	data, err := os.ReadFile(stdinFile)
	if err != nil {
		t.Fatalf("read clipboard capture: %v", err)
	}
	if strings.TrimSpace(string(data)) != "https://youtu.be/abc" {
		t.Fatalf("expected url on xclip stdin, got %q", data)
	}
}

func TestNotifyWithActionsCopyFailureNotifiesCritical(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {"HELPER_STDOUT": "copy"},
		"wl-copy":     {"HELPER_EXIT": "1"},
		"xclip":       {"HELPER_EXIT": "1"},
	}}
	fake.install(t)

	newTestBroker(30).NotifyWithActions(context.Background(), "Clip Uploaded!", "url", "url")

	notifies := fake.callsTo("notify-send")
	if len(notifies) != 2 {
		t.Fatalf("expected failure notification, got %d notify-send calls", len(notifies))
	}
	joined := strings.Join(notifies[1].args, " ")
	if !strings.Contains(joined, "Copy Failed") || !strings.Contains(joined, "critical") {
		t.Fatalf("expected critical Copy Failed notification, got %v", notifies[1].args)
	}
}

func TestNotifyWithActionsOpenLaunchesBrowser(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {"HELPER_STDOUT": "open"},
		"xdg-open":    {},
	}}
	fake.install(t)

	action := newTestBroker(30).NotifyWithActions(context.Background(), "Clip Uploaded!", "https://youtu.be/abc", "https://youtu.be/abc")
	if action != ActionOpen {
		t.Fatalf("expected open action, got %v", action)
	}
	opens := fake.callsTo("xdg-open")
	if len(opens) != 1 || opens[0].args[0] != "https://youtu.be/abc" {
		t.Fatalf("expected xdg-open with url, got %v", opens)
	}
}

func TestNotifyWithActionsDismissed(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {},
	}}
	fake.install(t)

	action := newTestBroker(30).NotifyWithActions(context.Background(), "t", "m", "url")
	if action != ActionDismissed {
		t.Fatalf("expected dismissed, got %v", action)
	}
}

func TestNotifyWithActionsTimeout(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"notify-send": {"HELPER_SLEEP_MS": "2000"},
	}}
	fake.install(t)

	broker := NewBroker(config.Notifications{Enabled: true, AppName: "Clip Relay"}, nil)
	broker.actionTimeout = 50 * time.Millisecond

	action := broker.NotifyWithActions(context.Background(), "t", "m", "url")
	if action != ActionTimeout {
		t.Fatalf("expected timeout, got %v", action)
	}
}

func TestNotifyWithActionsToolUnavailable(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{}}
	fake.install(t)

	action := newTestBroker(30).NotifyWithActions(context.Background(), "t", "m", "url")
	if action != ActionUnavailable {
		t.Fatalf("expected unavailable, got %v", action)
	}
}

func TestDisabledBrokerDoesNothing(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{}}
	fake.install(t)

	broker := NewBroker(config.Notifications{Enabled: false}, nil)
	broker.Notify(context.Background(), "t", "m", "")
	if action := broker.NotifyWithActions(context.Background(), "t", "m", "url"); action != ActionUnavailable {
		t.Fatalf("expected unavailable from disabled broker, got %v", action)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no tool invocations, got %v", fake.calls)
	}
}

func TestPlayCue(t *testing.T) {
	fake := &fakeCommands{behaviors: map[string]map[string]string{
		"paplay": {},
	}}
	fake.install(t)

	newTestBroker(30).PlayCue(context.Background(), "/usr/share/sounds/cue.oga")
	cues := fake.callsTo("paplay")
	if len(cues) != 1 || cues[0].args[0] != "/usr/share/sounds/cue.oga" {
		t.Fatalf("expected paplay with cue path, got %v", cues)
	}
}

func TestActionString(t *testing.T) {
	if ActionCopy.String() != "copy" || ActionTimeout.String() != "timeout" {
		t.Fatal("unexpected action labels")
	}
}
