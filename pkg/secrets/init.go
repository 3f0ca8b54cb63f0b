package secrets

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("vault", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		vaultCfg, ok := cfg.(*config.VaultConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "vault backend requires *config.VaultConfig")
		}
		return NewClient(ctx, vaultCfg)
	})
}
