// Package auth provides OAuth2 client credentials for remote data sources.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config holds the client credentials grant settings.
type Config struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether a token endpoint is configured.
func (c Config) Enabled() bool { return c.TokenURL != "" }

// Validate requires both credentials once a token endpoint is set.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("auth: client_id and client_secret are required with token_url")
	}
	return nil
}

func (c Config) oauth2() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}

// ClientCred caches an access token and renews it when it expires. It is
// safe for concurrent use.
type ClientCred struct {
	conf  clientcredentials.Config
	mu    sync.Mutex
	token *oauth2.Token
}

// NewClientCred returns a ClientCred for cfg.
func NewClientCred(cfg Config) *ClientCred {
	return &ClientCred{conf: cfg.oauth2()}
}

// Token returns a valid access token, fetching a new one when needed.
func (c *ClientCred) Token(ctx context.Context) (string, error) {
	tok, err := c.current(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (c *ClientCred) current(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != nil && c.token.Valid() {
		return c.token, nil
	}
	tok, err := c.conf.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	c.token = tok
	return tok, nil
}

// SetAuthHeader adds the bearer token to r.
func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	tok, err := c.current(r.Context())
	if err != nil {
		return err
	}
	tok.SetAuthHeader(r)
	return nil
}
