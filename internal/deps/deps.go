package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Desktop returns the host tools the pipeline uses. Every one of them is
// optional: detection, notifications, clipboard, and audio all degrade
// quietly when their tool is missing.
func Desktop() []Requirement {
	return []Requirement{
		{Name: "xdotool", Command: "xdotool", Description: "active window detection", Optional: true},
		{Name: "notify-send", Command: "notify-send", Description: "desktop notifications", Optional: true},
		{Name: "wl-copy", Command: "wl-copy", Description: "clipboard (Wayland)", Optional: true},
		{Name: "xclip", Command: "xclip", Description: "clipboard (X11)", Optional: true},
		{Name: "xdg-open", Command: "xdg-open", Description: "open links in browser", Optional: true},
		{Name: "paplay", Command: "paplay", Description: "audio cue playback", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
