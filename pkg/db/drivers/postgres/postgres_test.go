package postgres

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDriverRegistered(t *testing.T) {
	assert.Contains(t, sql.Drivers(), "pgx")
}
