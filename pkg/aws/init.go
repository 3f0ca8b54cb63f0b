package aws

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("s3", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		s3Cfg, ok := cfg.(*config.S3Config)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "s3 backend requires *config.S3Config")
		}
		return NewS3Client(ctx, s3Cfg)
	})
}
