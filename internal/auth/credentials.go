package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"

	"cliprelay/internal/services"
)

// UploadScope is the only permission the pipeline requests.
const UploadScope = "https://www.googleapis.com/auth/youtube.upload"

// clientSecrets mirrors the JSON downloaded from the Google Cloud console
// for a desktop-app OAuth client.
type clientSecrets struct {
	Installed *clientSection `json:"installed"`
	Web       *clientSection `json:"web"`
}

type clientSection struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

// LoadCredentials reads a client secrets file and returns the OAuth config
// for the upload scope. A missing file is a configuration error carrying
// setup guidance for the user.
func LoadCredentials(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrConfiguration, "auth", "load credentials",
				fmt.Sprintf("credentials file not found at %s; create a Desktop app OAuth client in the Google Cloud console, enable the YouTube Data API v3, and save the downloaded JSON there", path), err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load credentials", "", err)
	}

	var secrets clientSecrets
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load credentials",
			fmt.Sprintf("parse %s", path), err)
	}

	section := secrets.Installed
	if section == nil {
		section = secrets.Web
	}
	if section == nil || strings.TrimSpace(section.ClientID) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "auth", "load credentials",
			fmt.Sprintf("%s does not contain a usable OAuth client (expected an \"installed\" section)", path), nil)
	}

	authURL := section.AuthURI
	if authURL == "" {
		authURL = "https://accounts.google.com/o/oauth2/auth"
	}
	tokenURL := section.TokenURI
	if tokenURL == "" {
		tokenURL = "https://oauth2.googleapis.com/token"
	}

	return &oauth2.Config{
		ClientID:     section.ClientID,
		ClientSecret: section.ClientSecret,
		Scopes:       []string{UploadScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}, nil
}
