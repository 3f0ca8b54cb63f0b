// Package registry manages backend factory registration and dispatch.
//
// Backend packages self-register a factory from init(), mirroring the
// database/sql driver convention: importing a backend package makes its kind
// available, and asking for a kind nobody imported yields a missing-driver
// error carrying the import path to add. This keeps "driver not installed" a
// first-class, testable outcome instead of a compile-time accident.
package registry

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
	"github.com/armature-io/armature/pkg/metrics"
)

// Factory creates a backend client from its config struct. The config must
// be the pointer type documented for the backend kind; the returned handle
// is the native driver object and its lifecycle belongs to the caller.
type Factory func(ctx context.Context, cfg interface{}) (interface{}, error)

// BackendInfo describes a backend kind known to the library, whether or not
// its factory is linked into the current binary.
type BackendInfo struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	// ImportPath is the package whose import registers the factory; it is
	// the install hint carried by missing-driver errors
	ImportPath string `json:"import_path"`
}

// Registry maps backend kinds to factories.
type Registry struct {
	factories map[string]Factory
	catalog   map[string]BackendInfo
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// builtinCatalog lists every backend kind the library ships, so an
// unregistered kind can still report which import provides it.
var builtinCatalog = []BackendInfo{
	{Kind: "database", Description: "relational database via database/sql", ImportPath: "github.com/armature-io/armature/pkg/db"},
	{Kind: "mongodb", Description: "MongoDB client", ImportPath: "github.com/armature-io/armature/pkg/nosql"},
	{Kind: "api", Description: "HTTP API client with pluggable auth", ImportPath: "github.com/armature-io/armature/pkg/api"},
	{Kind: "sftp", Description: "SFTP client over SSH", ImportPath: "github.com/armature-io/armature/pkg/sftp"},
	{Kind: "vault", Description: "HashiCorp Vault client", ImportPath: "github.com/armature-io/armature/pkg/secrets"},
	{Kind: "gcs", Description: "Google Cloud Storage client", ImportPath: "github.com/armature-io/armature/pkg/gcp"},
	{Kind: "bigquery", Description: "BigQuery client", ImportPath: "github.com/armature-io/armature/pkg/gcp"},
	{Kind: "s3", Description: "Amazon S3 client", ImportPath: "github.com/armature-io/armature/pkg/aws"},
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		catalog:   make(map[string]BackendInfo),
		logger:    logger.Named("backend_registry"),
	}
	for _, info := range builtinCatalog {
		r.catalog[info.Kind] = info
	}
	return r
}

// Register registers a backend factory
func (r *Registry) Register(kind string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return errors.Newf(errors.ErrorTypeConfig, "backend %s already registered", kind)
	}

	r.factories[kind] = factory
	r.logger.Info("backend registered", zap.String("kind", kind))
	return nil
}

// MustRegister registers a backend factory and panics on conflict. Intended
// for init() in backend packages.
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Describe adds catalog metadata for a backend kind. Metadata may exist for
// kinds whose factory is not linked in; it feeds the install hint.
func (r *Registry) Describe(info BackendInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catalog[info.Kind] = info
}

// Connect creates a client for the given backend kind. An unregistered kind
// yields a missing-driver error whose hint names the package to import.
func (r *Registry) Connect(ctx context.Context, kind string, cfg interface{}) (interface{}, error) {
	r.mu.RLock()
	factory, exists := r.factories[kind]
	info, known := r.catalog[kind]
	r.mu.RUnlock()

	if !exists {
		hint := ""
		if known {
			hint = info.ImportPath
		}
		err := errors.NewMissingDriver(kind, hint)
		metrics.RecordError(kind, string(errors.ErrorTypeMissingDriver))
		return nil, err
	}

	client, err := factory(ctx, cfg)
	if err != nil {
		metrics.RecordError(kind, string(categorize(err)))
		return nil, errors.Wrap(err, categorize(err), fmt.Sprintf("failed to create %s client", kind))
	}

	metrics.RecordCreated(kind)
	return client, nil
}

// categorize preserves the factory's error type on the wrapping error so
// callers and metrics see the original category.
func categorize(err error) errors.ErrorType {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return errors.ErrorTypeInternal
}

// List returns the registered backend kinds
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Has checks whether a backend kind is registered
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[kind]
	return exists
}

// Catalog returns metadata for all described backends
func (r *Registry) Catalog() []BackendInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]BackendInfo, 0, len(r.catalog))
	for _, info := range r.catalog {
		infos = append(infos, info)
	}
	return infos
}

// Clear removes all registered factories and metadata (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]Factory)
	r.catalog = make(map[string]BackendInfo)
}

// Global registry functions

// Register registers a backend factory in the global registry
func Register(kind string, factory Factory) error {
	return globalRegistry.Register(kind, factory)
}

// MustRegister registers a backend factory in the global registry, panicking
// on conflict
func MustRegister(kind string, factory Factory) {
	globalRegistry.MustRegister(kind, factory)
}

// Describe adds catalog metadata to the global registry
func Describe(info BackendInfo) {
	globalRegistry.Describe(info)
}

// Connect creates a client from the global registry
func Connect(ctx context.Context, kind string, cfg interface{}) (interface{}, error) {
	return globalRegistry.Connect(ctx, kind, cfg)
}

// List returns registered kinds from the global registry
func List() []string {
	return globalRegistry.List()
}

// Has checks whether a kind is registered in the global registry
func Has(kind string) bool {
	return globalRegistry.Has(kind)
}

// GetRegistry returns the global registry instance
func GetRegistry() *Registry {
	return globalRegistry
}
