package nosql

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("mongodb", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		mongoCfg, ok := cfg.(*config.MongoConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "mongodb backend requires *config.MongoConfig")
		}
		return Connect(ctx, mongoCfg)
	})
}
