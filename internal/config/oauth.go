package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// OAuthClient is the desktop client file downloaded from the Google Cloud console.
// The Sheets client signs in with it to read the roster and publish month tables.
type OAuthClient struct {
	Installed InstalledApp `json:"installed" validate:"required"`
}

// InstalledApp holds the "installed" block of the client file
type InstalledApp struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadOAuthClient finds oauthClient[.<env>].json next to the config file and reads it
func LoadOAuthClient(env string) (*OAuthClient, error) {
	path, err := findFile("oauthClient", ".json", env)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	return ReadOAuthClient(path)
}

func ReadOAuthClient(path string) (*OAuthClient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var client OAuthClient
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return &client, nil
}

// Validate checks the required fields and that one redirect URI points at
// localhost, where the sign-in callback listens.
func (c *OAuthClient) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}

	for _, raw := range c.Installed.RedirectURIs {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if host := u.Hostname(); u.Scheme == "http" && (host == "localhost" || host == "127.0.0.1") {
			return nil
		}
	}
	return fmt.Errorf("oauth client validation failed: no localhost redirect uri in %v", c.Installed.RedirectURIs)
}
