package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Dosada05/leaguify/db"
)

const (
	postgresImage    = "postgres:16.3-alpine"
	postgresDBName   = "leaguify"
	postgresUser     = "leaguify"
	postgresPassword = "secret"
)

// NewPostgresStore starts a throwaway postgres container and applies the schema.
// The test is skipped in -short mode or when no container provider is available.
func NewPostgresStore(t *testing.T) *Store {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(postgresDBName),
		postgres.WithUsername(postgresUser),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("error starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("error terminating postgres container: %v", err)
		}
	})

	// the container is not configured to use TLS
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("error getting connection string: %v", err)
	}

	conn, err := db.Connect(db.DriverPostgres, dsn, 10*time.Second)
	if err != nil {
		t.Fatalf("error connecting to postgres: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(ctx, conn, db.DriverPostgres); err != nil {
		t.Fatalf("error migrating postgres: %v", err)
	}
	return NewStore(conn, db.DriverPostgres)
}
