package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"

	"cliprelay/internal/logging"
	"cliprelay/internal/services"
)

// LoadToken reads a previously saved token. A missing file is a
// configuration error telling the user to run the auth flow first.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrConfiguration, "auth", "load token",
				fmt.Sprintf("token file not found at %s; run \"cliprelay auth\" to authorize first", path), err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load token", "", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load token",
			fmt.Sprintf("parse %s; run \"cliprelay auth\" to re-authorize", path), err)
	}
	return &token, nil
}

// SaveToken writes the token with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// TokenSource returns a source that serves the saved token and persists any
// refreshed replacement back to disk, keeping the refresh token durable
// across runs.
func TokenSource(ctx context.Context, cfg *oauth2.Config, tokenPath string, logger *slog.Logger) (oauth2.TokenSource, error) {
	token, err := LoadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &persistingSource{
		source: oauth2.ReuseTokenSource(token, cfg.TokenSource(ctx, token)),
		path:   tokenPath,
		last:   token,
		logger: logger.With(logging.String("component", "auth")),
	}, nil
}

type persistingSource struct {
	mu     sync.Mutex
	source oauth2.TokenSource
	path   string
	last   *oauth2.Token
	logger *slog.Logger
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.logger.Info("access token refreshed; persisting")
		if saveErr := SaveToken(s.path, token); saveErr != nil {
			s.logger.Warn("failed to persist refreshed token", logging.Error(saveErr))
		}
		s.last = token
	}
	return token, nil
}
