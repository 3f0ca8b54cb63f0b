package gcp

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("gcs", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		gcpCfg, ok := cfg.(*config.GCPConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "gcs backend requires *config.GCPConfig")
		}
		return NewStorageClient(ctx, gcpCfg)
	})
	registry.MustRegister("bigquery", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		gcpCfg, ok := cfg.(*config.GCPConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "bigquery backend requires *config.GCPConfig")
		}
		return NewBigQueryClient(ctx, gcpCfg)
	})
}
