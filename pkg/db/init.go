package db

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("database", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		dbCfg, ok := cfg.(*config.DBConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "database backend requires *config.DBConfig")
		}
		return Open(ctx, dbCfg)
	})
}
