package sftp

import (
	"context"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/registry"
)

func init() {
	registry.MustRegister("sftp", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		sftpCfg, ok := cfg.(*config.SFTPConfig)
		if !ok {
			return nil, errors.New(errors.ErrorTypeConfig, "sftp backend requires *config.SFTPConfig")
		}
		return Connect(ctx, sftpCfg)
	})
}
