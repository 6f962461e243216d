package storage

import (
	"context"
	"fmt"
	"sync"

	"seedqa/internal/schema"
)

// DDLBootstrapper creates table (named fqn) from spec using the backend's
// dialect if it does not exist yet. Backends register one per kind at init.
type DDLBootstrapper func(ctx context.Context, repo Repository, spec schema.TableSpec, fqn string) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) the DDLBootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the bootstrapper registered for kind.
func EnsureTable(ctx context.Context, kind string, repo Repository, spec schema.TableSpec, fqn string) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, spec, fqn)
}
