// Package nosql constructs MongoDB clients from MongoConfig.
package nosql

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

// Connect creates a MongoDB client. Credentials are attached only when both
// username and password are present; a lone half is ignored and the URI's own
// credentials, if any, stand. The driver defers dialing, so Connect succeeds
// without a reachable server.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "mongo config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid mongo config")
	}

	client, err := mongo.Connect(ctx, clientOptions(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create mongo client")
	}

	logger.WithBackend("mongodb").Debug("mongo client created",
		zap.Bool("explicit_credentials", cfg.Username != "" && cfg.Password != ""))

	return client, nil
}

// clientOptions assembles the driver options for a config.
func clientOptions(cfg *config.MongoConfig) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Username != "" && cfg.Password != "" {
		cred := options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		}
		if cfg.AuthSource != "" {
			cred.AuthSource = cfg.AuthSource
		}
		opts.SetAuth(cred)
	}
	return opts
}
