package detect

import (
	"regexp"
	"strings"

	"cliprelay/internal/config"
)

// WindowContext is a one-shot snapshot of the active window, as reported by
// the window inspector. Either field may be empty when the query failed.
type WindowContext struct {
	Title   string
	Process string
}

// Rule maps a lowercase substring pattern to a display label.
type Rule struct {
	Pattern string
	Label   string
}

// Detector resolves a WindowContext to a human-readable clip label.
// Detection is pure: no I/O, no state beyond the immutable rule table.
type Detector struct {
	rules          []Rule
	denylist       []string
	defaultLabel   string
	maxTitleLength int
}

var (
	subtitleRe = regexp.MustCompile(`\s*[-–]\s*.*$`)
	parensRe   = regexp.MustCompile(`\s*\(.*?\)\s*`)
	versionRe  = regexp.MustCompile(`\s*v?\d+\.\d+.*$`)
)

// New builds a detector from detection settings. Configured rules take
// priority over the built-in table; within each group, declaration order
// decides.
func New(cfg config.Detection) *Detector {
	rules := make([]Rule, 0, len(cfg.Rules)+len(defaultRules))
	for _, rule := range cfg.Rules {
		rules = append(rules, Rule{Pattern: rule.Pattern, Label: rule.Label})
	}
	rules = append(rules, defaultRules...)

	denylist := make([]string, 0, len(cfg.Denylist))
	for _, entry := range cfg.Denylist {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			denylist = append(denylist, entry)
		}
	}

	label := strings.TrimSpace(cfg.DefaultLabel)
	if label == "" {
		label = "Clip"
	}
	maxLen := cfg.MaxTitleLength
	if maxLen <= 0 {
		maxLen = 50
	}

	return &Detector{
		rules:          rules,
		denylist:       denylist,
		defaultLabel:   label,
		maxTitleLength: maxLen,
	}
}

// DefaultLabel returns the sentinel label used when nothing matches.
func (d *Detector) DefaultLabel() string {
	return d.defaultLabel
}

// Detect maps the window context to a display label. The process name is
// scanned against the rule table first (less prone to cosmetic title
// variation), then the title; when neither matches, the title is cleaned up
// and used directly unless it names a denylisted application or exceeds the
// length bound. The result is never empty.
func (d *Detector) Detect(win WindowContext) string {
	if label, ok := d.match(win.Process); ok {
		return label
	}
	if label, ok := d.match(win.Title); ok {
		return label
	}

	title := strings.TrimSpace(win.Title)
	if title == "" || d.denylisted(title) {
		return d.defaultLabel
	}

	cleaned := cleanTitle(title)
	if cleaned != "" && len(cleaned) < d.maxTitleLength {
		return cleaned
	}
	return d.defaultLabel
}

// match scans the rule table in order; substring matches are unanchored so
// OS-dependent decorations (".exe" suffixes, bundle names) still hit.
func (d *Detector) match(value string) (string, bool) {
	value = strings.ToLower(value)
	if value == "" {
		return "", false
	}
	for _, rule := range d.rules {
		if strings.Contains(value, rule.Pattern) {
			return rule.Label, true
		}
	}
	return "", false
}

func (d *Detector) denylisted(title string) bool {
	lower := strings.ToLower(title)
	for _, entry := range d.denylist {
		if strings.Contains(lower, entry) {
			return true
		}
	}
	return false
}

// cleanTitle strips a trailing " - subtitle", parenthesized segments, and a
// trailing version token, then trims whitespace.
func cleanTitle(title string) string {
	cleaned := subtitleRe.ReplaceAllString(title, "")
	cleaned = parensRe.ReplaceAllString(cleaned, " ")
	cleaned = versionRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
