package mssql

import (
	"context"

	gddl "seedqa/internal/ddl"
	"seedqa/internal/schema"
	"seedqa/internal/storage"
	msddl "seedqa/internal/storage/mssql/ddl"
)

// Kind is the storage.kind this package registers.
const Kind = "mssql"

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(Kind, func(ctx context.Context, repo storage.Repository, spec schema.TableSpec, fqn string) error {
		return msddl.EnsureTable(ctx, repo, gddl.FromTableSpec(spec, fqn, msddl.MapType))
	})
}

// wrappedRepo adapts *mssql.Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() { w.closeFn() }
