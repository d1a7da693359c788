package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolUnavailable marks a missing external binary. Never pipeline-fatal.
	ErrToolUnavailable = errors.New("tool unavailable")
	// ErrTimeout marks a bounded wait that elapsed. An expected outcome, not a fault.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks a server-side or unclassified transfer failure eligible for retry.
	ErrTransient = errors.New("transient failure")
	// ErrFatal marks a client-side transfer failure that must not be retried.
	ErrFatal = errors.New("fatal failure")
	// ErrConfiguration marks missing required input (file, credentials, token).
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUserActionable reports whether the error stems from missing input or
// setup the user can fix (as opposed to transfer failures).
func IsUserActionable(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
