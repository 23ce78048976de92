// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available at
// runtime:
//
//   - "postgres" (salesetl/internal/storage/postgres)
//   - "mysql"    (salesetl/internal/storage/mysql)
//   - "mssql"    (salesetl/internal/storage/mssql)
//   - "sqlite"   (salesetl/internal/storage/sqlite)
//
// Typical usage (in cmd/salesetl/main.go or a similar wiring layer):
//
//	import _ "salesetl/internal/storage/all" // enable all built-in backends
//
// From that point on the caller stays backend-agnostic: repositories are
// opened through storage.New and tables are bootstrapped through
// storage.EnsureTables, regardless of which backend the configuration
// selects.
//
// A binary that needs only a subset of backends can define its own wiring
// package importing just the required ones instead of this package.
package all

import (
	_ "salesetl/internal/storage/mssql"
	_ "salesetl/internal/storage/mysql"
	_ "salesetl/internal/storage/postgres"
	_ "salesetl/internal/storage/sqlite"
)
