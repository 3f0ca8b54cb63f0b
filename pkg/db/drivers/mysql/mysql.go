// Package mysql registers the go-sql-driver/mysql database/sql driver.
// Import for side effects:
//
//	import _ "github.com/armature-io/armature/pkg/db/drivers/mysql"
package mysql

import (
	_ "github.com/go-sql-driver/mysql"
)
