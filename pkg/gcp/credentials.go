// Package gcp constructs Google Cloud clients and one-shot job helpers from
// GCPConfig.
//
// All factories share one credential convention: when CredentialsPath is
// set, it is passed to the client via option.WithCredentialsFile and also
// exported as GOOGLE_APPLICATION_CREDENTIALS, but only when that variable is
// not already set, so transitive SDK lookups resolve the same identity.
package gcp

import (
	"os"

	"google.golang.org/api/option"

	"github.com/armature-io/armature/pkg/config"
)

const credentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

// clientOptions translates a config into client options shared by every GCP
// factory in this package.
func clientOptions(cfg *config.GCPConfig) []option.ClientOption {
	if cfg.CredentialsPath == "" {
		return nil
	}
	if os.Getenv(credentialsEnv) == "" {
		os.Setenv(credentialsEnv, cfg.CredentialsPath)
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsPath)}
}
