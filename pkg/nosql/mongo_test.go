package nosql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
)

func TestClientOptionsWithCredentials(t *testing.T) {
	opts := clientOptions(&config.MongoConfig{
		URI:        "mongodb://localhost:27017",
		Username:   "app",
		Password:   "secret",
		AuthSource: "admin",
	})

	require.NotNil(t, opts.Auth)
	assert.Equal(t, "app", opts.Auth.Username)
	assert.Equal(t, "secret", opts.Auth.Password)
	assert.Equal(t, "admin", opts.Auth.AuthSource)
}

func TestClientOptionsPartialCredentialsIgnored(t *testing.T) {
	for _, cfg := range []*config.MongoConfig{
		{URI: "mongodb://localhost:27017", Username: "app"},
		{URI: "mongodb://localhost:27017", Password: "secret"},
	} {
		opts := clientOptions(cfg)
		assert.Nil(t, opts.Auth)
	}
}

func TestClientOptionsNoAuthSource(t *testing.T) {
	opts := clientOptions(&config.MongoConfig{
		URI:      "mongodb://localhost:27017",
		Username: "app",
		Password: "secret",
	})
	require.NotNil(t, opts.Auth)
	assert.Empty(t, opts.Auth.AuthSource)
}

func TestConnectRequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), &config.MongoConfig{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestConnectSucceedsWithoutServer(t *testing.T) {
	client, err := Connect(context.Background(), &config.MongoConfig{
		URI: "mongodb://localhost:27017",
	})
	require.NoError(t, err)
	_ = client.Disconnect(context.Background())
}
