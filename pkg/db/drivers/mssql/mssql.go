// Package mssql registers the go-mssqldb database/sql driver. Import for
// side effects:
//
//	import _ "github.com/armature-io/armature/pkg/db/drivers/mssql"
package mssql

import (
	_ "github.com/microsoft/go-mssqldb"
)
