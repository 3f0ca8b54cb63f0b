package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/errors"
)

// tokenResponse represents a token endpoint response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

// fetchClientCredentialsToken performs a single client-credentials grant
// against the configured token URL and returns the access token.
//
// Missing configuration fails before any network call. A transport-level
// success with a non-2xx status is an authentication error; a 2xx body
// without a usable access_token is a data error.
func (c *Client) fetchClientCredentialsToken(ctx context.Context) (string, error) {
	cfg := c.cfg
	if cfg.OAuth2TokenURL == "" || cfg.OAuth2ClientID == "" || cfg.OAuth2ClientSecret == "" {
		return "", errors.New(errors.ErrorTypeConfig,
			"oauth2 client credentials require oauth2_token_url, oauth2_client_id and oauth2_client_secret")
	}

	params := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {cfg.OAuth2ClientID},
		"client_secret": {cfg.OAuth2ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.OAuth2TokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeConfig, "invalid oauth2_token_url")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.session.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeConnection, "token request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Newf(errors.ErrorTypeAuthentication,
			"token request failed with status %d", resp.StatusCode).
			WithDetail("token_url", cfg.OAuth2TokenURL)
	}

	var token tokenResponse
	if err := gojson.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeData, "failed to decode token response")
	}
	if token.AccessToken == "" {
		return "", errors.New(errors.ErrorTypeData, "token response missing access_token")
	}

	c.logger.Info("oauth2 token acquired",
		zap.String("token_url", cfg.OAuth2TokenURL),
		zap.Int("expires_in", token.ExpiresIn))

	return token.AccessToken, nil
}
