package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"cliprelay/internal/capture"
	"cliprelay/internal/config"
	"cliprelay/internal/detect"
	"cliprelay/internal/history"
	"cliprelay/internal/logging"
	"cliprelay/internal/notify"
	"cliprelay/internal/services"
	"cliprelay/internal/services/youtube"
	"cliprelay/internal/uploader"
	"cliprelay/internal/winquery"
)

const titleTimeLayout = "2006-01-02 15:04"

// Notifier is the slice of notify.Broker the driver talks to.
type Notifier interface {
	Notify(ctx context.Context, title, message, urgency string)
	NotifyWithActions(ctx context.Context, title, message, url string) notify.Action
	PlayCue(ctx context.Context, path string)
}

// Deps carries the driver's collaborators. Nil optional fields get working
// defaults; Uploader is required.
type Deps struct {
	Inspector winquery.Inspector
	Detector  *detect.Detector
	Uploader  uploader.Uploader
	Broker    Notifier
	Store     *history.Store
	Logger    *slog.Logger
	Now       func() time.Time
	Sleeper   func(time.Duration)
}

// Driver sequences a replay save through the pipeline: locate the capture,
// detect the active context, rename, upload with retry, record history, and
// notify. It holds no state between runs.
type Driver struct {
	cfg          *config.Config
	inspector    winquery.Inspector
	detector     *detect.Detector
	orchestrator *uploader.Orchestrator
	broker       Notifier
	store        *history.Store
	logger       *slog.Logger
	now          func() time.Time
}

// New builds a driver from configuration and dependencies.
func New(cfg *config.Config, deps Deps) (*Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: config is required")
	}
	if deps.Uploader == nil {
		return nil, fmt.Errorf("pipeline: uploader is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	inspector := deps.Inspector
	if inspector == nil {
		inspector = winquery.NewInspector(logger)
	}
	detector := deps.Detector
	if detector == nil {
		detector = detect.New(cfg.Detection)
	}
	broker := deps.Broker
	if broker == nil {
		broker = notify.NewBroker(cfg.Notifications, logger)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	var orchestratorOpts []uploader.Option
	if deps.Sleeper != nil {
		orchestratorOpts = append(orchestratorOpts, uploader.WithSleeper(deps.Sleeper))
	}

	return &Driver{
		cfg:          cfg,
		inspector:    inspector,
		detector:     detector,
		orchestrator: uploader.New(deps.Uploader, logger, orchestratorOpts...),
		broker:       broker,
		store:        deps.Store,
		logger:       logger.With(logging.String("component", "pipeline")),
		now:          now,
	}, nil
}

// Run handles one replay-saved event end to end: play the audio cue, find
// the newest capture, detect the active context, rename the file, and hand
// it to the upload path.
func (d *Driver) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := d.logger.With(logging.String("run_id", runID))

	d.broker.PlayCue(ctx, d.cfg.Notifications.AudioCue)

	replayDir := d.resolveReplayDir()
	if replayDir == "" {
		err := services.Wrap(services.ErrConfiguration, "pipeline", "locate capture",
			"could not determine replay directory; set paths.replay_dir", nil)
		d.broker.Notify(ctx, "Upload Failed", err.Error(), "critical")
		return err
	}

	original := capture.FindLatest(replayDir)
	if original == "" {
		err := services.Wrap(services.ErrConfiguration, "pipeline", "locate capture",
			fmt.Sprintf("no replay file found in %s", replayDir), nil)
		d.broker.Notify(ctx, "Upload Failed", err.Error(), "critical")
		return err
	}
	logger.Info("replay saved", logging.String("file", original))

	window := d.inspector.ActiveWindow(ctx)
	label := d.detector.Detect(window)
	logger.Info("detected context",
		logging.String("label", label),
		logging.String("window_title", window.Title),
		logging.String("window_process", window.Process),
	)

	when := d.now()
	path, err := capture.Rename(original, label, when)
	if err != nil {
		// Upload proceeds under the original name.
		logger.Warn("could not rename capture", logging.Error(err))
	} else if path != original {
		logger.Info("renamed capture", logging.String("file", path))
	}

	title := fmt.Sprintf("%s - %s", label, when.Format(titleTimeLayout))
	return d.upload(ctx, logger, uploader.ClipMetadata{
		OriginalPath: original,
		Path:         path,
		Label:        label,
		Title:        title,
	}, when)
}

// RunFile uploads an explicitly named file with an explicit title, the
// non-automatic entry point. A missing file raises a critical notification
// before returning the error.
func (d *Driver) RunFile(ctx context.Context, filePath, title string) error {
	runID := uuid.NewString()
	logger := d.logger.With(logging.String("run_id", runID))

	expanded, err := config.ExpandPath(filePath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err != nil {
		d.broker.Notify(ctx, "Upload Failed", fmt.Sprintf("File not found: %s", expanded), "critical")
		return services.Wrap(services.ErrConfiguration, "pipeline", "locate capture",
			fmt.Sprintf("file not found: %s", expanded), err)
	}

	logger.Info("starting upload", logging.String("title", title), logging.String("file", expanded))
	return d.upload(ctx, logger, uploader.ClipMetadata{
		OriginalPath: expanded,
		Path:         expanded,
		Label:        title,
		Title:        title,
	}, d.now())
}

func (d *Driver) upload(ctx context.Context, logger *slog.Logger, clip uploader.ClipMetadata, when time.Time) error {
	clip.Description = d.renderDescription(when)

	policy := uploader.Policy{
		MaxAttempts: d.cfg.Retry.MaxAttempts,
		BaseBackoff: time.Duration(d.cfg.Retry.BackoffSeconds) * time.Second,
	}

	result, err := d.orchestrator.UploadWithRetry(ctx, clip, policy)
	if err != nil {
		d.broker.Notify(ctx, "Upload Failed", err.Error(), "critical")
		return err
	}

	url := youtube.WatchURL(result.VideoID)
	logger.Info("upload complete",
		logging.String("video_id", result.VideoID),
		logging.String("url", url),
		logging.Int("attempts", result.Attempts),
	)

	d.recordUpload(ctx, logger, clip, result, url, when)
	d.broker.NotifyWithActions(ctx, "Clip Uploaded!", url, url)
	return nil
}

func (d *Driver) recordUpload(ctx context.Context, logger *slog.Logger, clip uploader.ClipMetadata, result uploader.Result, url string, when time.Time) {
	if d.store == nil {
		return
	}
	var size int64
	if info, err := os.Stat(clip.Path); err == nil {
		size = info.Size()
	}
	_, err := d.store.Record(ctx, history.Record{
		Label:      clip.Label,
		Title:      clip.Title,
		FilePath:   clip.Path,
		VideoID:    result.VideoID,
		URL:        url,
		SizeBytes:  size,
		Attempts:   result.Attempts,
		UploadedAt: when.UTC(),
	})
	if err != nil {
		// History is a convenience; the upload already succeeded.
		logger.Warn("could not record upload history", logging.Error(err))
	}
}

func (d *Driver) resolveReplayDir() string {
	for _, dir := range d.cfg.ReplayDirs() {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

func (d *Driver) renderDescription(when time.Time) string {
	template := d.cfg.YouTube.DescriptionTemplate
	if strings.TrimSpace(template) == "" {
		template = "Recorded on {date}"
	}
	return strings.ReplaceAll(template, "{date}", when.Format(titleTimeLayout))
}
