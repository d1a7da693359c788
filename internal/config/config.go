package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ReplayDir string `toml:"replay_dir"`
	LogDir    string `toml:"log_dir"`
	StateDir  string `toml:"state_dir"`
}

// YouTube contains upload destination settings.
type YouTube struct {
	Privacy             string `toml:"privacy"`
	DescriptionTemplate string `toml:"description_template"`
	CategoryID          string `toml:"category_id"`
	CredentialsPath     string `toml:"credentials_path"`
	TokenPath           string `toml:"token_path"`
}

// Retry contains the upload retry policy.
type Retry struct {
	MaxAttempts    int `toml:"max_attempts"`
	BackoffSeconds int `toml:"backoff_seconds"`
}

// Rule maps a lowercase substring pattern to a display label. Configured
// rules are evaluated before the built-in table, in declaration order; the
// first match wins.
type Rule struct {
	Pattern string `toml:"pattern"`
	Label   string `toml:"label"`
}

// Detection contains active-context detection settings.
type Detection struct {
	DefaultLabel   string   `toml:"default_label"`
	MaxTitleLength int      `toml:"max_title_length"`
	Denylist       []string `toml:"denylist"`
	Rules          []Rule   `toml:"rules"`
}

// Notifications contains desktop notification settings.
type Notifications struct {
	Enabled              bool   `toml:"enabled"`
	AppName              string `toml:"app_name"`
	ActionTimeoutSeconds int    `toml:"action_timeout_seconds"`
	AudioCue             string `toml:"audio_cue"`
}

// Watch contains replay directory watcher settings.
type Watch struct {
	SettleMillis int `toml:"settle_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cliprelay.
//
// Configuration sections by subsystem:
//   - Paths: replay directory plus log/state directories
//   - YouTube: upload privacy, metadata template, credential locations
//   - Retry: upload retry policy
//   - Detection: active-window heuristics and the pattern rule table
//   - Notifications: desktop notification behaviour and audio cue
//   - Watch: replay directory watcher tuning
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	YouTube       YouTube       `toml:"youtube"`
	Retry         Retry         `toml:"retry"`
	Detection     Detection     `toml:"detection"`
	Notifications Notifications `toml:"notifications"`
	Watch         Watch         `toml:"watch"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cliprelay/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cliprelay.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log and state directories. The replay
// directory belongs to the recording host and is never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ReplayDirs returns candidate replay directories in priority order: the
// configured directory first, then the conventional fallback locations the
// recording host commonly writes to.
func (c *Config) ReplayDirs() []string {
	dirs := make([]string, 0, 4)
	if dir := strings.TrimSpace(c.Paths.ReplayDir); dir != "" {
		dirs = append(dirs, dir)
	}
	for _, fallback := range []string{"~/Videos/Replays", "~/Videos", "~/OBS"} {
		expanded, err := expandPath(fallback)
		if err != nil {
			continue
		}
		dirs = append(dirs, expanded)
	}
	return dirs
}

// ActionTimeout reports the interactive notification wait bound in seconds.
func (c *Config) ActionTimeout() int {
	if c.Notifications.ActionTimeoutSeconds <= 0 {
		return defaultActionTimeoutSeconds
	}
	return c.Notifications.ActionTimeoutSeconds
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
