// Package all wires all built-in storage dialects into the storage registry.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their dialect with the storage package. After importing it the following
// storage kinds are available:
//
//   - "oracle"   (flatload/internal/storage/oracle)
//   - "postgres" (flatload/internal/storage/postgres)
//   - "mssql"    (flatload/internal/storage/mssql)
//   - "mysql"    (flatload/internal/storage/mysql)
//   - "sqlite"   (flatload/internal/storage/sqlite)
//
// A binary that needs only a subset can import the backend packages
// directly instead.
package all

import (
	_ "flatload/internal/storage/mssql"
	_ "flatload/internal/storage/mysql"
	_ "flatload/internal/storage/oracle"
	_ "flatload/internal/storage/postgres"
	_ "flatload/internal/storage/sqlite"
)
