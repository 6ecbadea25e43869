package repository_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/notesmarket/internal/migrations"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres runs a disposable postgres and applies the embedded schema
// through golang-migrate, the same way the migrate command does.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.WithDatabase("notesmarket"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", errors.Join(fmt.Errorf("container.ConnectionString: %w", err), testcontainers.TerminateContainer(container))
	}

	if err := migrations.Up(connStr); err != nil {
		return nil, "", errors.Join(fmt.Errorf("migrations.Up: %w", err), testcontainers.TerminateContainer(container))
	}

	return container, connStr, nil
}
