package database

import (
	"context"
	"fmt"

	"riseup/internal/ports/output"
)

// OpenGuildStore migrates and opens the guild store selected by dsn. The
// returned close function releases the connection.
func OpenGuildStore(ctx context.Context, dsn string) (output.GuildStore, func(), error) {
	d, err := ParseDSN(dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := RunMigrations(dsn); err != nil {
		return nil, nil, fmt.Errorf("migrate guild store: %w", err)
	}

	switch d.Dialect {
	case DialectPostgres:
		pool, err := NewPool(ctx, d.Raw)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return NewPostgresGuildRepository(pool), pool.Close, nil
	default:
		db, err := OpenSQLite(ctx, d.Path)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteGuildRepository(db), func() { _ = db.Close() }, nil
	}
}
