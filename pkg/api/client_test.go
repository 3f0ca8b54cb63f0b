package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
)

func newTestClient(t *testing.T, cfg *config.APIConfig) *Client {
	t.Helper()
	client, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return client
}

func TestPathJoiningIsSlashTolerant(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
	}))
	defer srv.Close()

	for _, baseURL := range []string{srv.URL, srv.URL + "/"} {
		client := newTestClient(t, &config.APIConfig{BaseURL: baseURL})
		for _, path := range []string{"/foo", "foo"} {
			resp, err := client.Get(context.Background(), path, nil)
			require.NoError(t, err)
			resp.Body.Close()
		}
	}

	require.Len(t, gotPaths, 4)
	for _, p := range gotPaths {
		assert.Equal(t, "/foo", p)
	}
}

func TestMethodIsUppercased(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer srv.Close()

	client := newTestClient(t, &config.APIConfig{BaseURL: srv.URL})
	resp, err := client.Request(context.Background(), "patch", "/x", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "PATCH", gotMethod)
}

func TestNoneAuthLeavesSessionUntouched(t *testing.T) {
	client := newTestClient(t, &config.APIConfig{BaseURL: "https://api.example.com"})
	assert.Empty(t, client.session.headers)
	assert.False(t, client.session.useBasic)
}

func TestBasicAuthAppliedPerRequest(t *testing.T) {
	var user, pass string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, hasAuth = r.BasicAuth()
	}))
	defer srv.Close()

	client := newTestClient(t, &config.APIConfig{
		BaseURL:  srv.URL,
		AuthType: config.APIAuthBasic,
		Username: "user",
		Password: "secret",
	})
	resp, err := client.Get(context.Background(), "/secure", nil)
	require.NoError(t, err)
	resp.Body.Close()

	require.True(t, hasAuth)
	assert.Equal(t, "user", user)
	assert.Equal(t, "secret", pass)
}

func TestBearerAuthSetsOneHeader(t *testing.T) {
	client := newTestClient(t, &config.APIConfig{
		BaseURL:  "https://api.example.com",
		AuthType: config.APIAuthBearer,
		Token:    "XYZ",
	})
	assert.Equal(t, "Bearer XYZ", client.session.headers.Get("Authorization"))
	assert.Len(t, client.session.headers, 1)
}

func TestAPIKeyHeader(t *testing.T) {
	client := newTestClient(t, &config.APIConfig{
		BaseURL:     "https://api.example.com",
		AuthType:    config.APIAuthKeyHeader,
		APIKeyName:  "X-API-Key",
		APIKeyValue: "SECRET",
	})
	assert.Equal(t, "SECRET", client.session.headers.Get("X-API-Key"))
}

func TestAPIKeyHeaderNoopWhenIncomplete(t *testing.T) {
	for _, cfg := range []*config.APIConfig{
		{BaseURL: "https://x", AuthType: config.APIAuthKeyHeader, APIKeyName: "X-API-Key"},
		{BaseURL: "https://x", AuthType: config.APIAuthKeyHeader, APIKeyValue: "SECRET"},
	} {
		client := newTestClient(t, cfg)
		assert.Empty(t, client.session.headers)
	}
}

func TestAPIKeyQueryMergedPerRequest(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
	}))
	defer srv.Close()

	client := newTestClient(t, &config.APIConfig{
		BaseURL:     srv.URL,
		AuthType:    config.APIAuthKeyQuery,
		APIKeyName:  "api_key",
		APIKeyValue: "SECRET",
	})

	// Session stays untouched; the key rides the query string.
	assert.Empty(t, client.session.headers)

	resp, err := client.Get(context.Background(), "/data", url.Values{"foo": {"bar"}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "bar", gotQuery.Get("foo"))
	assert.Equal(t, "SECRET", gotQuery.Get("api_key"))
}

func TestDefaultHeadersSent(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
	}))
	defer srv.Close()

	client := newTestClient(t, &config.APIConfig{
		BaseURL:        srv.URL,
		DefaultHeaders: map[string]string{"Accept": "application/json"},
	})
	resp, err := client.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json", gotAccept)
}

func TestUnknownAuthTypeFailsConstruction(t *testing.T) {
	_, err := New(context.Background(), &config.APIConfig{
		BaseURL:  "https://api.example.com",
		AuthType: "kerberos",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestOAuth2AcquiresTokenWithSinglePost(t *testing.T) {
	var tokenPosts int64
	var gotGrant, gotClientID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			atomic.AddInt64(&tokenPosts, 1)
			require.NoError(t, r.ParseForm())
			gotGrant = r.PostForm.Get("grant_type")
			gotClientID = r.PostForm.Get("client_id")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"TOK","token_type":"bearer","expires_in":3600}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, &config.APIConfig{
		BaseURL:            srv.URL,
		AuthType:           config.APIAuthOAuth2ClientCredentials,
		OAuth2TokenURL:     srv.URL + "/oauth/token",
		OAuth2ClientID:     "client-id",
		OAuth2ClientSecret: "client-secret",
	})

	assert.Equal(t, int64(1), atomic.LoadInt64(&tokenPosts))
	assert.Equal(t, "client_credentials", gotGrant)
	assert.Equal(t, "client-id", gotClientID)
	assert.Equal(t, "Bearer TOK", client.session.headers.Get("Authorization"))

	// Further requests reuse the session token; no extra token posts.
	resp, err := client.Get(context.Background(), "/protected", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int64(1), atomic.LoadInt64(&tokenPosts))
}

func TestOAuth2MissingFieldFailsBeforeNetwork(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	_, err := New(context.Background(), &config.APIConfig{
		BaseURL:        srv.URL,
		AuthType:       config.APIAuthOAuth2ClientCredentials,
		OAuth2TokenURL: srv.URL + "/oauth/token",
		OAuth2ClientID: "client-id",
		// secret missing
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Equal(t, int64(0), atomic.LoadInt64(&hits))
}

func TestOAuth2TokenResponseMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	}))
	defer srv.Close()

	_, err := New(context.Background(), &config.APIConfig{
		BaseURL:            srv.URL,
		AuthType:           config.APIAuthOAuth2ClientCredentials,
		OAuth2TokenURL:     srv.URL + "/oauth/token",
		OAuth2ClientID:     "id",
		OAuth2ClientSecret: "secret",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestOAuth2RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(context.Background(), &config.APIConfig{
		BaseURL:            srv.URL,
		AuthType:           config.APIAuthOAuth2ClientCredentials,
		OAuth2TokenURL:     srv.URL + "/oauth/token",
		OAuth2ClientID:     "id",
		OAuth2ClientSecret: "wrong",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))
}
