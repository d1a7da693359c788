package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
)

const defaultUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"

// StatusError carries the HTTP status code of a failed API call so the
// orchestrator can classify it as retryable or fatal.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("youtube api: http %d: %s", e.Code, strings.TrimSpace(e.Body))
}

// InsertRequest describes one video insert call.
type InsertRequest struct {
	FilePath    string
	Title       string
	Description string
	CategoryID  string
	Privacy     string
}

// Client uploads videos through the YouTube Data API resumable protocol.
type Client struct {
	httpClient *http.Client
	uploadURL  string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the OAuth-wrapped default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUploadURL overrides the API endpoint (used by tests).
func WithUploadURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.uploadURL = url
		}
	}
}

// NewClient constructs a client whose requests carry tokens from source.
// No client-level timeout is set: uploads are long-running and bounded by
// the caller's context instead.
func NewClient(ctx context.Context, source oauth2.TokenSource, opts ...Option) *Client {
	client := &Client{
		httpClient: oauth2.NewClient(ctx, source),
		uploadURL:  defaultUploadURL,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type videoResource struct {
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CategoryID  string `json:"categoryId"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus           string `json:"privacyStatus"`
		SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
	} `json:"status"`
}

// Insert uploads the file and returns the new video's identifier. The call
// runs the resumable protocol to completion: session initiation followed by
// the media transfer. Failures surface as *StatusError when the API
// responded, or the transport error otherwise.
func (c *Client) Insert(ctx context.Context, req InsertRequest) (string, error) {
	file, err := os.Open(req.FilePath)
	if err != nil {
		return "", fmt.Errorf("open media: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat media: %w", err)
	}

	session, err := c.initiateSession(ctx, req, info.Size())
	if err != nil {
		return "", err
	}

	return c.transferMedia(ctx, session, file, info.Size(), req.FilePath)
}

func (c *Client) initiateSession(ctx context.Context, req InsertRequest, size int64) (string, error) {
	var resource videoResource
	resource.Snippet.Title = req.Title
	resource.Snippet.Description = req.Description
	resource.Snippet.CategoryID = req.CategoryID
	resource.Status.PrivacyStatus = req.Privacy

	encoded, err := json.Marshal(resource)
	if err != nil {
		return "", fmt.Errorf("encode video resource: %w", err)
	}

	url := c.uploadURL + "?uploadType=resumable&part=snippet,status"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("X-Upload-Content-Type", mediaContentType(req.FilePath))
	httpReq.Header.Set("X-Upload-Content-Length", strconv.FormatInt(size, 10))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("initiate upload session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", readStatusError(resp)
	}

	session := resp.Header.Get("Location")
	if session == "" {
		return "", fmt.Errorf("upload session response missing location header")
	}
	return session, nil
}

func (c *Client) transferMedia(ctx context.Context, session string, media io.Reader, size int64, path string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, session, media)
	if err != nil {
		return "", fmt.Errorf("build media request: %w", err)
	}
	httpReq.ContentLength = size
	httpReq.Header.Set("Content-Type", mediaContentType(path))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transfer media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", readStatusError(resp)
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode insert response: %w", err)
	}
	if payload.ID == "" {
		return "", fmt.Errorf("insert response missing video id")
	}
	return payload.ID, nil
}

func readStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}

func mediaContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mkv":
		return "video/x-matroska"
	case ".avi":
		return "video/x-msvideo"
	default:
		return "video/mp4"
	}
}

// WatchURL returns the shareable short link for a video id.
func WatchURL(videoID string) string {
	return "https://youtu.be/" + videoID
}
