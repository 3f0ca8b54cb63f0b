// Package postgres registers the pgx database/sql driver. Import for side
// effects:
//
//	import _ "github.com/armature-io/armature/pkg/db/drivers/postgres"
package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib"
)
