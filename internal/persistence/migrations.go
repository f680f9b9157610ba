package persistence

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = "schema_migrations"

// migrationSource exposes the embedded SQL files to sql-migrate.
func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// RunMigrations applies pending migrations from the embedded migrations directory.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	db := stdlib.OpenDBFromPool(pool)

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		ms := migrate.MigrationSet{TableName: migrationsTable}
		n, err := ms.Exec(db, "postgres", migrationSource(), migrate.Up)
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("apply migrations: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("apply migrations: %w", res.err)
		}
		logger.Info("migrations applied", zap.Int("count", res.n))
		return nil
	}
}
