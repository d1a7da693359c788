package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Authorize runs the installed-app loopback flow: it listens on an ephemeral
// localhost port, hands the consent URL to openURL, waits for the redirect
// carrying the authorization code, exchanges it, and saves the token to
// tokenPath. Offline access is requested so the saved token carries a
// refresh token.
func Authorize(ctx context.Context, cfg *oauth2.Config, tokenPath string, openURL func(string)) error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer listener.Close()

	redirect := *cfg
	redirect.RedirectURL = fmt.Sprintf("http://%s/", listener.Addr().String())

	state := uuid.NewString()
	authURL := redirect.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			if query.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				results <- callback{err: fmt.Errorf("oauth state mismatch")}
				return
			}
			if errMsg := query.Get("error"); errMsg != "" {
				http.Error(w, "authorization denied", http.StatusBadRequest)
				results <- callback{err: fmt.Errorf("authorization denied: %s", errMsg)}
				return
			}
			fmt.Fprintln(w, "Authorization complete. You can close this tab.")
			results <- callback{code: query.Get("code")}
		}),
	}
	go func() { _ = server.Serve(listener) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if openURL != nil {
		openURL(authURL)
	}

	var result callback
	select {
	case result = <-results:
	case <-ctx.Done():
		return ctx.Err()
	}
	if result.err != nil {
		return result.err
	}

	token, err := redirect.Exchange(ctx, result.code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	return SaveToken(tokenPath, token)
}
