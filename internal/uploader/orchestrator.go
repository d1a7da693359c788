package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cliprelay/internal/logging"
	"cliprelay/internal/services"
	"cliprelay/internal/services/youtube"
)

// ClipMetadata describes one capture handed to the orchestrator. Ownership
// transfers from the locator; the orchestrator only reads it.
type ClipMetadata struct {
	OriginalPath string
	Path         string
	Label        string
	Title        string
	Description  string
}

// Uploader performs a single insert call to completion. Implementations
// return either the new video id or an error that may carry an HTTP status
// code (as *youtube.StatusError) for classification.
type Uploader interface {
	Insert(ctx context.Context, clip ClipMetadata) (string, error)
}

// Policy is the immutable per-invocation retry policy.
type Policy struct {
	MaxAttempts int
	BaseBackoff time.Duration
}

// Outcome classifies a single upload attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

// Classify maps an attempt error to an outcome. Server-side statuses (500,
// 502, 503, 504) and errors carrying no status at all are retryable; any
// other status is fatal.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var statusErr *youtube.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return OutcomeRetryable
		default:
			return OutcomeFatal
		}
	}
	return OutcomeRetryable
}

// Orchestrator drives upload attempts with classified retry and exponential
// backoff.
type Orchestrator struct {
	uploader Uploader
	logger   *slog.Logger
	sleeper  func(time.Duration)
}

// Option customizes the orchestrator.
type Option func(*Orchestrator)

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(o *Orchestrator) {
		o.sleeper = sleeper
	}
}

// New constructs an orchestrator around the given uploader.
func New(uploader Uploader, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		uploader: uploader,
		logger:   logger.With(logging.String("component", "uploader")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result reports a finished retry run.
type Result struct {
	VideoID  string
	Attempts int
}

// UploadWithRetry runs attempts until success, a fatal classification, or
// policy exhaustion. Attempt n failing retryably sleeps
// BaseBackoff * 2^(n-1) before attempt n+1; the final attempt's failure is
// surfaced without sleeping. Fatal classifications short-circuit
// immediately regardless of remaining attempts.
func (o *Orchestrator) UploadWithRetry(ctx context.Context, clip ClipMetadata, policy Policy) (Result, error) {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		o.logger.Info("upload attempt",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", attempts),
			logging.String("file", clip.Path),
		)

		videoID, err := o.uploader.Insert(ctx, clip)
		switch Classify(err) {
		case OutcomeSuccess:
			o.logger.Info("upload succeeded",
				logging.Int("attempt", attempt),
				logging.String("video_id", videoID),
			)
			return Result{VideoID: videoID, Attempts: attempt}, nil
		case OutcomeFatal:
			o.logger.Error("upload failed fatally", logging.Int("attempt", attempt), logging.Error(err))
			return Result{Attempts: attempt}, services.Wrap(services.ErrFatal, "uploader", "insert", "", err)
		case OutcomeRetryable:
			lastErr = err
			if attempt == attempts {
				break
			}
			delay := policy.BaseBackoff << (attempt - 1)
			o.logger.Warn("upload attempt failed; backing off",
				logging.Int("attempt", attempt),
				logging.Duration("delay", delay),
				logging.Error(err),
			)
			if err := o.sleep(ctx, delay); err != nil {
				return Result{Attempts: attempt}, err
			}
		}
	}

	o.logger.Error("upload attempts exhausted", logging.Int("attempts", attempts), logging.Error(lastErr))
	return Result{Attempts: attempts}, services.Wrap(services.ErrTransient, "uploader", "insert",
		fmt.Sprintf("failed after %d attempts", attempts), lastErr)
}

func (o *Orchestrator) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if o.sleeper != nil {
		o.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
