package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"cliprelay/internal/logging"
	"cliprelay/internal/services"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	return path
}

func TestLoadCredentialsInstalledApp(t *testing.T) {
	path := writeCredentials(t, `{
		"installed": {
			"client_id": "client-1",
			"client_secret": "secret-1",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"redirect_uris": ["http://localhost"]
		}
	}`)

	cfg, err := LoadCredentials(path)
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if cfg.ClientID != "client-1" || cfg.ClientSecret != "secret-1" {
		t.Fatalf("unexpected client: %s/%s", cfg.ClientID, cfg.ClientSecret)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != UploadScope {
		t.Fatalf("unexpected scopes %v", cfg.Scopes)
	}
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadCredentialsNoUsableSection(t *testing.T) {
	path := writeCredentials(t, `{"something_else": {}}`)
	if _, err := LoadCredentials(path); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2026, 8, 23, 16, 0, 0, 0, time.UTC),
	}
	if err := SaveToken(path, want); err != nil {
		t.Fatalf("save token: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat token: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
		}
	}

	got, err := LoadToken(path)
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Fatalf("token mismatch: %+v", got)
	}
}

func TestLoadTokenMissingDirectsToAuth(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "token.json"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

type staticSource struct {
	tokens []*oauth2.Token
	calls  int
}

func (s *staticSource) Token() (*oauth2.Token, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.tokens) {
		idx = len(s.tokens) - 1
	}
	return s.tokens[idx], nil
}

func TestPersistingSourceSavesRefreshedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	first := &oauth2.Token{AccessToken: "one", RefreshToken: "refresh"}
	second := &oauth2.Token{AccessToken: "two", RefreshToken: "refresh"}

	source := &persistingSource{
		source: &staticSource{tokens: []*oauth2.Token{first, second}},
		path:   path,
		last:   first,
		logger: logging.NewNop(),
	}

	if _, err := source.Token(); err != nil {
		t.Fatalf("first token: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("unchanged token must not be rewritten")
	}

	if _, err := source.Token(); err != nil {
		t.Fatalf("second token: %v", err)
	}
	saved, err := LoadToken(path)
	if err != nil {
		t.Fatalf("load persisted token: %v", err)
	}
	if saved.AccessToken != "two" {
		t.Fatalf("expected refreshed token persisted, got %q", saved.AccessToken)
	}
}

func TestAuthorizeLoopbackFlow(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse token form: %v", err)
		}
		if got := r.Form.Get("code"); got != "auth-code" {
			t.Errorf("unexpected code %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"refresh_token": "refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	defer tokenServer.Close()

	cfg := &oauth2.Config{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		Scopes:       []string{UploadScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://example.invalid/auth",
			TokenURL: tokenServer.URL,
		},
	}

	tokenPath := filepath.Join(t.TempDir(), "token.json")

	// Simulate the browser: parse state and redirect_uri out of the consent
	// URL and hit the loopback server with the authorization code.
	openURL := func(authURL string) {
		parsed, err := url.Parse(authURL)
		if err != nil {
			t.Errorf("parse auth url: %v", err)
			return
		}
		redirect := parsed.Query().Get("redirect_uri")
		state := parsed.Query().Get("state")
		go func() {
			resp, err := http.Get(redirect + "?state=" + url.QueryEscape(state) + "&code=auth-code")
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Authorize(ctx, cfg, tokenPath, openURL); err != nil {
		t.Fatalf("authorize: %v", err)
	}

	token, err := LoadToken(tokenPath)
	if err != nil {
		t.Fatalf("load saved token: %v", err)
	}
	if token.RefreshToken != "refresh" {
		t.Fatalf("expected refresh token persisted, got %+v", token)
	}
}
