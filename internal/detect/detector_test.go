package detect

import (
	"strings"
	"testing"

	"cliprelay/internal/config"
)

func newTestDetector() *Detector {
	cfg := config.Default()
	return New(cfg.Detection)
}

func TestDetectProcessMatchBeatsTitle(t *testing.T) {
	d := newTestDetector()
	got := d.Detect(WindowContext{Title: "Some Window", Process: "valorant.exe"})
	if got != "Valorant" {
		t.Fatalf("expected Valorant, got %q", got)
	}
}

func TestDetectTitleMatchWhenProcessUnknown(t *testing.T) {
	d := newTestDetector()
	got := d.Detect(WindowContext{Title: "Fortnite Chapter 5", Process: "wine64-preloader"})
	if got != "Fortnite" {
		t.Fatalf("expected Fortnite, got %q", got)
	}
}

func TestDetectMatchIsUnanchored(t *testing.T) {
	d := newTestDetector()
	got := d.Detect(WindowContext{Process: "steam_app_12345"})
	if got != "Steam Game" {
		t.Fatalf("expected Steam Game for partial process match, got %q", got)
	}
}

func TestDetectRuleOrderDecides(t *testing.T) {
	// "valorant" precedes "steam" in the table, so a process containing both
	// resolves to the earlier rule.
	d := newTestDetector()
	got := d.Detect(WindowContext{Process: "steam-valorant-launcher"})
	if got != "Valorant" {
		t.Fatalf("expected first matching rule to win, got %q", got)
	}
}

func TestDetectConfiguredRulesTakePriority(t *testing.T) {
	cfg := config.Default()
	cfg.Detection.Rules = []config.Rule{{Pattern: "valorant", Label: "Ranked Grind"}}
	d := New(cfg.Detection)
	got := d.Detect(WindowContext{Process: "valorant.exe"})
	if got != "Ranked Grind" {
		t.Fatalf("expected configured rule to shadow built-in, got %q", got)
	}
}

func TestDetectTitleCleanup(t *testing.T) {
	d := newTestDetector()
	tests := []struct {
		title string
		want  string
	}{
		{"Cool Game v1.2.3", "Cool Game"},
		{"Game Title (Early Access)", "Game Title"},
		{"Epic Quest - Chapter 3", "Epic Quest"},
		{"Epic Quest – The Finale", "Epic Quest"},
	}
	for _, tc := range tests {
		got := d.Detect(WindowContext{Title: tc.title, Process: "unknown-binary"})
		if got != tc.want {
			t.Errorf("Detect(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestDetectDenylistSuppressesTitle(t *testing.T) {
	d := newTestDetector()
	got := d.Detect(WindowContext{Title: "OBS Studio", Process: "unknown-binary"})
	if got != "Clip" {
		t.Fatalf("expected denylisted title to yield default label, got %q", got)
	}
}

func TestDetectEmptyContextYieldsDefault(t *testing.T) {
	d := newTestDetector()
	if got := d.Detect(WindowContext{}); got != "Clip" {
		t.Fatalf("expected default label for empty context, got %q", got)
	}
}

func TestDetectLongTitleYieldsDefault(t *testing.T) {
	d := newTestDetector()
	long := strings.Repeat("x", 60)
	if got := d.Detect(WindowContext{Title: long, Process: "unknown-binary"}); got != "Clip" {
		t.Fatalf("expected default label for oversized title, got %q", got)
	}
}

func TestDetectResultNeverEmpty(t *testing.T) {
	d := newTestDetector()
	contexts := []WindowContext{
		{},
		{Title: "   "},
		{Title: "(beta)", Process: ""},
		{Title: "v1.0 ", Process: ""},
	}
	for _, win := range contexts {
		if got := d.Detect(win); got == "" {
			t.Fatalf("Detect(%+v) returned empty label", win)
		}
	}
}
