// Package secrets constructs HashiCorp Vault clients from VaultConfig.
//
// Two authentication paths are supported: a direct Vault token, which wins
// when present, and a GCP-signed JWT exchanged through the gcp auth method.
// With neither configured the client is returned unauthenticated, which is
// enough for unauthenticated endpoints like sys/health.
package secrets

import (
	"context"

	vaultapi "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

const gcpLoginPath = "auth/gcp/login"

// NewClient creates a Vault client and performs the configured login. Only
// the jwt path touches the network; token and unauthenticated construction
// are local.
func NewClient(ctx context.Context, cfg *config.VaultConfig) (*vaultapi.Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "vault config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid vault config")
	}

	apiConfig := vaultapi.DefaultConfig()
	apiConfig.Address = cfg.URL

	client, err := vaultapi.NewClient(apiConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create vault client")
	}

	log := logger.WithBackend("vault").With(zap.String("url", cfg.URL))

	switch {
	case cfg.Token != "":
		client.SetToken(cfg.Token)
		log.Debug("vault client authenticated with token")

	case cfg.JWT != "":
		token, err := gcpLogin(ctx, client, cfg)
		if err != nil {
			return nil, err
		}
		client.SetToken(token)
		log.Debug("vault client authenticated via gcp jwt", zap.String("role", cfg.Role))

	default:
		log.Debug("vault client created without authentication")
	}

	return client, nil
}

// gcpLogin exchanges the JWT for a client token at auth/gcp/login.
func gcpLogin(ctx context.Context, client *vaultapi.Client, cfg *config.VaultConfig) (string, error) {
	secret, err := client.Logical().WriteWithContext(ctx, gcpLoginPath, map[string]interface{}{
		"role": cfg.Role,
		"jwt":  cfg.JWT,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeAuthentication, "vault gcp login failed").
			WithDetail("role", cfg.Role)
	}
	if secret == nil || secret.Auth == nil || secret.Auth.ClientToken == "" {
		return "", errors.New(errors.ErrorTypeData, "vault login response missing client token")
	}
	return secret.Auth.ClientToken, nil
}
