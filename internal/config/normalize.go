package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.normalizeDetection()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ReplayDir, err = expandPath(c.Paths.ReplayDir); err != nil {
		return fmt.Errorf("paths.replay_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeYouTube() error {
	var err error
	c.YouTube.Privacy = strings.ToLower(strings.TrimSpace(c.YouTube.Privacy))
	if c.YouTube.Privacy == "" {
		c.YouTube.Privacy = defaultPrivacy
	}
	if strings.TrimSpace(c.YouTube.DescriptionTemplate) == "" {
		c.YouTube.DescriptionTemplate = defaultDescriptionTemplate
	}
	if strings.TrimSpace(c.YouTube.CategoryID) == "" {
		c.YouTube.CategoryID = defaultCategoryID
	}
	if strings.TrimSpace(c.YouTube.CredentialsPath) == "" {
		c.YouTube.CredentialsPath = defaultCredentialsPath
	}
	if c.YouTube.CredentialsPath, err = expandPath(c.YouTube.CredentialsPath); err != nil {
		return fmt.Errorf("youtube.credentials_path: %w", err)
	}
	if strings.TrimSpace(c.YouTube.TokenPath) == "" {
		c.YouTube.TokenPath = defaultTokenPath
	}
	if c.YouTube.TokenPath, err = expandPath(c.YouTube.TokenPath); err != nil {
		return fmt.Errorf("youtube.token_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeDetection() {
	if strings.TrimSpace(c.Detection.DefaultLabel) == "" {
		c.Detection.DefaultLabel = defaultDetectionLabel
	}
	if c.Detection.MaxTitleLength <= 0 {
		c.Detection.MaxTitleLength = defaultMaxTitleLength
	}
	if len(c.Detection.Denylist) == 0 {
		c.Detection.Denylist = defaultDenylist()
	}
	rules := c.Detection.Rules[:0]
	for _, rule := range c.Detection.Rules {
		rule.Pattern = strings.ToLower(strings.TrimSpace(rule.Pattern))
		rule.Label = strings.TrimSpace(rule.Label)
		if rule.Pattern == "" || rule.Label == "" {
			continue
		}
		rules = append(rules, rule)
	}
	c.Detection.Rules = rules
}

func (c *Config) normalizeNotifications() {
	if strings.TrimSpace(c.Notifications.AppName) == "" {
		c.Notifications.AppName = defaultAppName
	}
	if c.Notifications.ActionTimeoutSeconds <= 0 {
		c.Notifications.ActionTimeoutSeconds = defaultActionTimeoutSeconds
	}
	c.Notifications.AudioCue = strings.TrimSpace(c.Notifications.AudioCue)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Watch.SettleMillis <= 0 {
		c.Watch.SettleMillis = defaultWatchSettleMillis
	}
}
