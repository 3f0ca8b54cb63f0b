package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armature-io/armature/pkg/errors"
)

func TestConnectUnregisteredKindIsMissingDriver(t *testing.T) {
	r := NewRegistry()
	r.Describe(BackendInfo{
		Kind:       "mongodb",
		ImportPath: "github.com/armature-io/armature/pkg/nosql",
	})

	_, err := r.Connect(context.Background(), "mongodb", nil)
	require.Error(t, err)
	assert.True(t, errors.IsMissingDriver(err))
	assert.Contains(t, err.Error(), "mongodb")
	assert.Contains(t, err.Error(), "pkg/nosql")
}

func TestConnectUnknownKindWithoutCatalogEntry(t *testing.T) {
	r := NewRegistry()
	_, err := r.Connect(context.Background(), "carrier-pigeon", nil)
	require.Error(t, err)
	assert.True(t, errors.IsMissingDriver(err))
}

func TestConnectDispatchesToFactory(t *testing.T) {
	r := NewRegistry()

	type fakeClient struct{ name string }
	require.NoError(t, r.Register("fake", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		return &fakeClient{name: cfg.(string)}, nil
	}))

	got, err := r.Connect(context.Background(), "fake", "primary")
	require.NoError(t, err)
	assert.Equal(t, "primary", got.(*fakeClient).name)
}

func TestConnectPreservesFactoryErrorType(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fake", func(ctx context.Context, cfg interface{}) (interface{}, error) {
		return nil, errors.New(errors.ErrorTypeConfig, "bad config type")
	}))

	_, err := r.Connect(context.Background(), "fake", 42)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.False(t, errors.IsMissingDriver(err))
}

func TestDoubleRegisterFails(t *testing.T) {
	r := NewRegistry()
	noop := func(ctx context.Context, cfg interface{}) (interface{}, error) { return nil, nil }

	require.NoError(t, r.Register("fake", noop))
	err := r.Register("fake", noop)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestListHasClear(t *testing.T) {
	r := NewRegistry()
	noop := func(ctx context.Context, cfg interface{}) (interface{}, error) { return nil, nil }

	require.NoError(t, r.Register("a", noop))
	require.NoError(t, r.Register("b", noop))

	assert.ElementsMatch(t, []string{"a", "b"}, r.List())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("c"))

	r.Clear()
	assert.Empty(t, r.List())
	assert.False(t, r.Has("a"))
}
