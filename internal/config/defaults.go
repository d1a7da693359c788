package config

const (
	defaultReplayDir            = "~/Videos/Replays"
	defaultLogDir               = "~/.local/share/cliprelay/logs"
	defaultStateDir             = "~/.local/share/cliprelay"
	defaultPrivacy              = "unlisted"
	defaultDescriptionTemplate  = "Recorded on {date}"
	defaultCategoryID           = "20"
	defaultCredentialsPath      = "~/.config/cliprelay/credentials.json"
	defaultTokenPath            = "~/.config/cliprelay/token.json"
	defaultRetryMaxAttempts     = 3
	defaultRetryBackoffSeconds  = 30
	defaultDetectionLabel       = "Clip"
	defaultMaxTitleLength       = 50
	defaultAppName              = "Clip Relay"
	defaultActionTimeoutSeconds = 30
	defaultWatchSettleMillis    = 500
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// defaultDenylist names generic applications whose window titles must never
// be promoted to clip labels.
func defaultDenylist() []string {
	return []string{"obs", "chrome", "firefox", "terminal", "code"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ReplayDir: defaultReplayDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		YouTube: YouTube{
			Privacy:             defaultPrivacy,
			DescriptionTemplate: defaultDescriptionTemplate,
			CategoryID:          defaultCategoryID,
			CredentialsPath:     defaultCredentialsPath,
			TokenPath:           defaultTokenPath,
		},
		Retry: Retry{
			MaxAttempts:    defaultRetryMaxAttempts,
			BackoffSeconds: defaultRetryBackoffSeconds,
		},
		Detection: Detection{
			DefaultLabel:   defaultDetectionLabel,
			MaxTitleLength: defaultMaxTitleLength,
			Denylist:       defaultDenylist(),
		},
		Notifications: Notifications{
			Enabled:              true,
			AppName:              defaultAppName,
			ActionTimeoutSeconds: defaultActionTimeoutSeconds,
		},
		Watch: Watch{
			SettleMillis: defaultWatchSettleMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
