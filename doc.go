// Package armature turns typed configuration into native client handles.
//
// Each backend lives in its own package under pkg/ and registers a factory
// with pkg/registry on import. Supported backends: relational databases
// (Postgres, MySQL, SQL Server, Oracle, Snowflake) via database/sql, MongoDB,
// HTTP APIs with a pluggable auth pipeline, SFTP, HashiCorp Vault, Google
// Cloud (Storage, BigQuery, Dataflow, Dataproc) and Amazon S3.
//
// The library owns configuration normalization and client construction only.
// No pooling beyond what drivers do natively, no retries, no persisted state;
// the lifecycle of every returned handle belongs to the caller.
package armature
