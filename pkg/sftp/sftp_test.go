package sftp

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"

	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	var block *pem.Block
	if passphrase != "" {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "", []byte(passphrase))
	} else {
		block, err = ssh.MarshalPrivateKey(priv, "")
	}
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

func TestAuthMethodsPassword(t *testing.T) {
	methods, err := authMethods(&config.SFTPConfig{
		Host:     "sftp.example.com",
		Username: "u",
		Password: "p",
	})
	require.NoError(t, err)
	assert.Len(t, methods, 1)
}

func TestAuthMethodsPrivateKey(t *testing.T) {
	methods, err := authMethods(&config.SFTPConfig{
		Host:           "sftp.example.com",
		Username:       "u",
		AuthType:       config.SFTPAuthPrivateKey,
		PrivateKeyPath: writeTestKey(t, ""),
	})
	require.NoError(t, err)
	assert.Len(t, methods, 1)
}

func TestAuthMethodsPassphraseProtectedKey(t *testing.T) {
	methods, err := authMethods(&config.SFTPConfig{
		Host:                 "sftp.example.com",
		Username:             "u",
		AuthType:             config.SFTPAuthPrivateKey,
		PrivateKeyPath:       writeTestKey(t, "topsecret"),
		PrivateKeyPassphrase: "topsecret",
	})
	require.NoError(t, err)
	assert.Len(t, methods, 1)
}

func TestAuthMethodsPasswordAndKeyOffersBoth(t *testing.T) {
	methods, err := authMethods(&config.SFTPConfig{
		Host:           "sftp.example.com",
		Username:       "u",
		Password:       "p",
		AuthType:       config.SFTPAuthPasswordAndKey,
		PrivateKeyPath: writeTestKey(t, ""),
	})
	require.NoError(t, err)
	assert.Len(t, methods, 2)
}

func TestAuthMethodsMissingKeyFile(t *testing.T) {
	_, err := authMethods(&config.SFTPConfig{
		Host:           "sftp.example.com",
		Username:       "u",
		AuthType:       config.SFTPAuthPrivateKey,
		PrivateKeyPath: "/nonexistent/id_ed25519",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestAuthMethodsWrongPassphrase(t *testing.T) {
	_, err := authMethods(&config.SFTPConfig{
		Host:                 "sftp.example.com",
		Username:             "u",
		AuthType:             config.SFTPAuthPrivateKey,
		PrivateKeyPath:       writeTestKey(t, "right"),
		PrivateKeyPassphrase: "wrong",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestAuthMethodsUnknownMode(t *testing.T) {
	_, err := authMethods(&config.SFTPConfig{
		Host:     "sftp.example.com",
		Username: "u",
		AuthType: "gssapi",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestHostKeyPolicyDefaultsToInsecure(t *testing.T) {
	callback, err := hostKeyPolicy(&config.SFTPConfig{Host: "sftp.example.com"})
	require.NoError(t, err)
	assert.NotNil(t, callback)
}

func TestHostKeyPolicyMissingKnownHosts(t *testing.T) {
	_, err := hostKeyPolicy(&config.SFTPConfig{
		Host:           "sftp.example.com",
		KnownHostsPath: "/nonexistent/known_hosts",
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestConnectValidatesBeforeDial(t *testing.T) {
	_, err := Connect(context.Background(), &config.SFTPConfig{
		AuthType: config.SFTPAuthPrivateKey,
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
