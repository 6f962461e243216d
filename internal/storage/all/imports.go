// Package all wires every built-in storage backend into the storage
// factory. It exists for side effects: a blank import runs each backend's
// init, which registers its factory and DDL bootstrapper.
//
// Kinds made available:
//
//   - "postgres" (seedqa/internal/storage/postgres)
//   - "mssql"    (seedqa/internal/storage/mssql)
//   - "sqlite"   (seedqa/internal/storage/sqlite)
//
// A binary that needs only a subset can import the backends directly.
package all

import (
	_ "seedqa/internal/storage/mssql"
	_ "seedqa/internal/storage/postgres"
	_ "seedqa/internal/storage/sqlite"
)
