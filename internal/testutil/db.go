// Package testutil provides the PostgreSQL testcontainer harness shared
// by database tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/luoxiaofei/wulingo/internal/db/migrations"
)

// SetupTestDB starts a PostgreSQL testcontainer, applies the embedded
// migrations and returns a connection pool. Container and pool are torn
// down via tb.Cleanup.
func SetupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		tb.Fatalf("starting postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			tb.Logf("terminating postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("getting connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		tb.Fatalf("connecting to test db: %v", err)
	}
	tb.Cleanup(func() { pool.Close() })

	if err := runMigrations(pool); err != nil {
		tb.Fatalf("running migrations: %v", err)
	}

	return pool
}

// runMigrations applies the embedded goose migrations. goose wants a
// *sql.DB, so the pool's conn config is re-registered through stdlib.
func runMigrations(pool *pgxpool.Pool) error {
	connConfig := pool.Config().ConnConfig
	connStr := stdlib.RegisterConnConfig(connConfig)
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("opening sql.DB: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	return nil
}
