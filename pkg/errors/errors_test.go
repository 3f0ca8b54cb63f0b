package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorTypeConfig, "missing field")
	assert.Equal(t, ErrorTypeConfig, err.Type)
	assert.Equal(t, "config: missing field", err.Error())
	assert.NotEmpty(t, err.Stack)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrorTypeConnection, "dial failed")
	require.NotNil(t, err)
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "connection: dial failed: boom", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "ignored"))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeValidation, "bad port").
		WithDetail("field", "port").
		WithDetail("value", -1)
	assert.Equal(t, "port", err.Detail("field"))
	assert.Equal(t, -1, err.Detail("value"))
	assert.Nil(t, err.Detail("absent"))
}

func TestNewMissingDriver(t *testing.T) {
	err := NewMissingDriver("postgres", "github.com/armature-io/armature/pkg/db/drivers/postgres")
	assert.True(t, IsMissingDriver(err))
	assert.Equal(t, "postgres", err.Detail("backend"))
	assert.Contains(t, err.Error(), "postgres")
	assert.Contains(t, err.Error(), "pkg/db/drivers/postgres")
}

func TestIsMissingDriverThroughWrapping(t *testing.T) {
	inner := NewMissingDriver("oracle", "")
	outer := fmt.Errorf("opening connection: %w", inner)
	assert.True(t, IsMissingDriver(outer))
	assert.False(t, IsMissingDriver(stderrors.New("plain")))
	assert.False(t, IsMissingDriver(nil))
}

func TestIsType(t *testing.T) {
	err := New(ErrorTypeData, "token response missing access_token")
	assert.True(t, IsType(err, ErrorTypeData))
	assert.False(t, IsType(err, ErrorTypeConfig))

	wrapped := Wrap(err, ErrorTypeAuthentication, "token exchange failed")
	assert.True(t, IsType(wrapped, ErrorTypeAuthentication))
}
