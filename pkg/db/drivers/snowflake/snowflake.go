// Package snowflake registers the gosnowflake database/sql driver. Import
// for side effects:
//
//	import _ "github.com/armature-io/armature/pkg/db/drivers/snowflake"
package snowflake

import (
	_ "github.com/snowflakedb/gosnowflake"
)
