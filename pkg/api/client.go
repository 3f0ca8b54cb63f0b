// Package api provides an HTTP API client with a pluggable authentication
// pipeline.
//
// A Client wraps one long-lived session (transport, default headers,
// optional basic-auth pair) built once at construction. Authentication is
// applied to the session at build time, with one exception: query-string API
// keys are merged into the parameters of each request, because they live in
// the URL rather than the session.
//
// The client adds no retry, backoff or caching; it returns the raw
// *http.Response and the caller owns both error handling and the body.
package api

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Client issues HTTP requests against a configured base URL with a uniform
// authentication contract.
type Client struct {
	cfg     *config.APIConfig
	baseURL string
	logger  *zap.Logger
	session *session
}

// session is the mutable request state fixed at construction: an HTTP
// client, the headers sent with every request, and an optional basic-auth
// credential pair. It is owned exclusively by one Client and not designed
// for concurrent mutation; after New returns, nothing mutates it.
type session struct {
	httpClient *http.Client
	headers    http.Header
	basicUser  string
	basicPass  string
	useBasic   bool
}

// New creates a Client and builds its session, applying the configured auth
// mode. Configuration errors (missing fields for the selected mode, unknown
// modes) are returned before any network I/O; the only mode that touches the
// network during construction is oauth2_client_credentials, which performs
// exactly one token request.
func New(ctx context.Context, cfg *config.APIConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "api config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid api config")
	}

	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.Named("api_client").With(zap.String("base_url", cfg.BaseURL)),
		session: newSession(cfg),
	}

	if err := c.applyAuth(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// newSession builds the HTTP client and default headers for a config.
func newSession(cfg *config.APIConfig) *session {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
	// Best effort; HTTP/1.1 works fine if http2 cannot be configured.
	_ = http2.ConfigureTransport(transport)

	headers := make(http.Header)
	for key, value := range cfg.DefaultHeaders {
		headers.Set(key, value)
	}

	return &session{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		headers: headers,
	}
}

// applyAuth mutates the session according to the auth mode. Called exactly
// once, from New.
func (c *Client) applyAuth(ctx context.Context) error {
	cfg := c.cfg
	switch cfg.AuthMode() {
	case config.APIAuthNone:
		return nil

	case config.APIAuthBasic:
		c.session.useBasic = true
		c.session.basicUser = cfg.Username
		c.session.basicPass = cfg.Password
		return nil

	case config.APIAuthBearer:
		c.session.headers.Set("Authorization", "Bearer "+cfg.Token)
		return nil

	case config.APIAuthKeyHeader:
		// No-op when either half of the key is absent.
		if cfg.APIKeyName != "" && cfg.APIKeyValue != "" {
			c.session.headers.Set(cfg.APIKeyName, cfg.APIKeyValue)
		}
		return nil

	case config.APIAuthKeyQuery:
		// Applied per request.
		return nil

	case config.APIAuthOAuth2ClientCredentials:
		token, err := c.fetchClientCredentialsToken(ctx)
		if err != nil {
			return err
		}
		c.session.headers.Set("Authorization", "Bearer "+token)
		return nil

	default:
		return errors.Newf(errors.ErrorTypeConfig, "unsupported auth type: %s", cfg.AuthType)
	}
}

// Request performs an HTTP request against the configured base URL.
//
// The path is joined to the base URL tolerant of leading and trailing
// slashes, the method is uppercased, and caller-supplied query parameters
// are merged with any parameters already present in the path. When the auth
// mode is api_key_query the configured key is set last, after caller
// parameters. The response body is the caller's to close.
func (c *Client) Request(ctx context.Context, method, path string, params url.Values, body io.Reader) (*http.Response, error) {
	rawURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), rawURL, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "failed to build request")
	}

	query := req.URL.Query()
	for key, values := range params {
		query[key] = values
	}
	if c.cfg.AuthMode() == config.APIAuthKeyQuery && c.cfg.APIKeyName != "" && c.cfg.APIKeyValue != "" {
		query.Set(c.cfg.APIKeyName, c.cfg.APIKeyValue)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	for key, values := range c.session.headers {
		if req.Header.Get(key) == "" {
			req.Header[key] = append([]string(nil), values...)
		}
	}
	if c.session.useBasic {
		req.SetBasicAuth(c.session.basicUser, c.session.basicPass)
	}

	resp, err := c.session.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "request failed").
			WithDetail("method", req.Method).
			WithDetail("url", req.URL.String())
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, path, params, nil)
}

// Post performs a POST request with the given body.
func (c *Client) Post(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.Request(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with the given body.
func (c *Client) Put(ctx context.Context, path string, body io.Reader) (*http.Response, error) {
	return c.Request(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	return c.Request(ctx, http.MethodDelete, path, params, nil)
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections held by the session transport.
func (c *Client) Close() error {
	if transport, ok := c.session.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}
