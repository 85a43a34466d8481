package repository_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/digimarket/backend/internal/repository"
)

// startPostgres spins up a throwaway Postgres container, applies the schema
// and returns a pool ready for the repositories under test.
func startPostgres(ctx context.Context) (testcontainers.Container, *pgxpool.Pool, error) {
	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, fmt.Errorf("container.ConnectionString: %w", err)
	}

	pool, err := repository.NewPool(ctx, connStr)
	if err != nil {
		return container, nil, fmt.Errorf("repository.NewPool: %w", err)
	}

	if err := repository.Migrate(ctx, pool); err != nil {
		return container, pool, fmt.Errorf("repository.Migrate: %w", err)
	}

	return container, pool, nil
}
