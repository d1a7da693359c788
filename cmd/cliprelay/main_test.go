package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cliprelay/internal/services"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootShowsHelp(t *testing.T) {
	output, err := executeCommand(t)
	if err != nil {
		t.Fatalf("execute root: %v", err)
	}
	for _, sub := range []string{"run", "upload", "watch", "history", "auth"} {
		if !strings.Contains(output, sub) {
			t.Fatalf("expected help to list %q:\n%s", sub, output)
		}
	}
}

func TestUploadRequiresFlags(t *testing.T) {
	if _, err := executeCommand(t, "upload"); err == nil {
		t.Fatal("expected error when --file and --title are missing")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("expected output to mention %s:\n%s", target, output)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[youtube]") {
		t.Fatalf("sample config missing youtube section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := executeCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

type capturedNotice struct {
	title   string
	message string
	urgency string
}

type fakeNotifier struct {
	notices []capturedNotice
}

func (f *fakeNotifier) Notify(_ context.Context, title, message, urgency string) {
	f.notices = append(f.notices, capturedNotice{title: title, message: message, urgency: urgency})
}

func TestNotifySetupFailureUserActionable(t *testing.T) {
	notifier := &fakeNotifier{}
	err := services.Wrap(services.ErrConfiguration, "auth", "load token",
		`no token found; run "cliprelay auth"`, nil)

	notifySetupFailure(context.Background(), notifier, err)

	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.notices))
	}
	got := notifier.notices[0]
	if got.title != "Upload Failed" || got.urgency != "critical" {
		t.Fatalf("unexpected notification %+v", got)
	}
	if !strings.Contains(got.message, "cliprelay auth") {
		t.Fatalf("unexpected message %q", got.message)
	}
}

func TestNotifySetupFailureSkipsInternalErrors(t *testing.T) {
	notifier := &fakeNotifier{}
	notifySetupFailure(context.Background(), notifier, errors.New("open sqlite db: disk I/O error"))
	if len(notifier.notices) != 0 {
		t.Fatalf("expected no notifications, got %+v", notifier.notices)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	columns := []column{{title: "Title"}, {title: "Size", right: true}}
	rows := [][]string{
		{"short", "5 B"},
		{"a longer title", "120 MB"},
	}

	rendered := renderTable(columns, rows)
	for _, want := range []string{"Title", "Size", "a longer title"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected table to contain %q:\n%s", want, rendered)
		}
	}
	if !strings.Contains(rendered, "   5 B ") {
		t.Fatalf("expected right-aligned size column:\n%s", rendered)
	}
}

func TestStatusRendersTable(t *testing.T) {
	output, err := executeCommand(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, tool := range []string{"xdotool", "notify-send", "xdg-open"} {
		if !strings.Contains(output, tool) {
			t.Fatalf("expected status to list %q:\n%s", tool, output)
		}
	}
}
