package pipeline

import (
	"context"

	"cliprelay/internal/config"
	"cliprelay/internal/services/youtube"
	"cliprelay/internal/uploader"
)

// youtubeUploader adapts the API client to the orchestrator's interface,
// folding in the configured privacy and category.
type youtubeUploader struct {
	client  *youtube.Client
	youtube config.YouTube
}

// NewYouTubeUploader wraps the API client for use by the retry orchestrator.
func NewYouTubeUploader(client *youtube.Client, cfg config.YouTube) uploader.Uploader {
	return &youtubeUploader{client: client, youtube: cfg}
}

func (u *youtubeUploader) Insert(ctx context.Context, clip uploader.ClipMetadata) (string, error) {
	return u.client.Insert(ctx, youtube.InsertRequest{
		FilePath:    clip.Path,
		Title:       clip.Title,
		Description: clip.Description,
		CategoryID:  u.youtube.CategoryID,
		Privacy:     u.youtube.Privacy,
	})
}
