package api

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("api", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		apiCfg, ok := cfg.(*config.APIConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "api backend requires *config.APIConfig")
		}
		return New(ctx, apiCfg)
	})
}
