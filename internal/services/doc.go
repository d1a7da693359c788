// Package services defines the shared error taxonomy used across the
// pipeline: sentinel markers for tool availability, timeouts, transient and
// fatal transfer failures, and configuration problems, plus the Wrap helper
// that tags failures consistently for errors.Is classification.
package services
