package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("ARMATURE_TEST_DB_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "db.yaml")
	content := []byte(`
type: postgres
host: localhost
port: 5432
user: pguser
password: ${ARMATURE_TEST_DB_PASSWORD}
database: pgdb
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	var cfg DBConfig
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, DatabasePostgres, cfg.Type)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, 5432, cfg.Port)
}

func TestLoadMissingFile(t *testing.T) {
	var cfg DBConfig
	assert.Error(t, Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")

	in := APIConfig{
		BaseURL:  "https://api.example.com",
		AuthType: APIAuthKeyHeader,
		APIKeyName: "X-API-Key",
		APIKeyValue: "SECRET",
		DefaultHeaders: map[string]string{"Accept": "application/json"},
	}
	require.NoError(t, Save(path, &in))

	var out APIConfig
	require.NoError(t, Load(path, &out))
	assert.Equal(t, in, out)
}
