package sqlite

import (
	"context"

	gddl "seedqa/internal/ddl"
	"seedqa/internal/schema"
	"seedqa/internal/storage"
	sqliteddl "seedqa/internal/storage/sqlite/ddl"
)

// Kind is the storage.kind this package registers.
const Kind = "sqlite"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adds the Close method storage.Repository expects.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

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
		return sqliteddl.EnsureTable(ctx, repo, gddl.FromTableSpec(spec, fqn, sqliteddl.MapType))
	})
}
