package capture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// videoExtensions lists the capture formats the recording host produces.
var videoExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
	".avi": {},
}

// timestampLayout is embedded in renamed capture files. Colons are avoided
// so names stay portable.
const timestampLayout = "2006-01-02 15-04"

// IsVideoFile reports whether the path carries a recognized capture extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// FindLatest returns the most recently modified capture file among the
// immediate children of dir. Absence of the directory or of matching files
// is a valid empty result, never an error. Subdirectories are not searched.
func FindLatest(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var latest string
	var latestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !IsVideoFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(dir, entry.Name())
			latestMod = info.ModTime()
		}
	}
	return latest
}

// Rename moves the capture to "<label> - <timestamp><ext>" alongside the
// original. When the target already exists or equals the original the rename
// is skipped and the original path is returned with no error: an existing
// clip is never overwritten. A failed rename also returns the original path
// so the caller can proceed with it and report the failure.
func Rename(original, label string, when time.Time) (string, error) {
	dir := filepath.Dir(original)
	ext := filepath.Ext(original)
	target := filepath.Join(dir, fmt.Sprintf("%s - %s%s", label, when.Format(timestampLayout), ext))

	if target == original {
		return original, nil
	}
	if _, err := os.Stat(target); err == nil {
		return original, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return original, fmt.Errorf("stat rename target: %w", err)
	}

	if err := os.Rename(original, target); err != nil {
		return original, fmt.Errorf("rename capture: %w", err)
	}
	return target, nil
}
