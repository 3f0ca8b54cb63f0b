// Package oracle registers the go-ora database/sql driver. Import for side
// effects:
//
//	import _ "github.com/armature-io/armature/pkg/db/drivers/oracle"
package oracle

import (
	_ "github.com/sijms/go-ora/v2"
)
