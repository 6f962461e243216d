package postgres

import (
	"context"
	"fmt"

	gddl "seedqa/internal/ddl"
	"seedqa/internal/schema"
	"seedqa/internal/storage"
	pgddl "seedqa/internal/storage/postgres/ddl"
)

// Kind is the storage.kind this package registers.
const Kind = "postgres"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(Kind, func(ctx context.Context, repo storage.Repository, spec schema.TableSpec, fqn string) error {
		if err := pgddl.EnsureTable(ctx, repo, gddl.FromTableSpec(spec, fqn, pgddl.MapType)); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
		return nil
	})
}
