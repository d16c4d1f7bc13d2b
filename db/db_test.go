package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_unsupportedDriver(t *testing.T) {
	_, err := Connect("mysql", "whatever", time.Second)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMigrate_sqliteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Connect(DriverSQLite, "file::memory:?_pragma=foreign_keys(1)", time.Second)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn, DriverSQLite))
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))

	var applied int
	require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)

	for _, table := range []string{"leagues", "players", "games", "game_outcomes"} {
		var n int
		err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n)
		assert.NoError(t, err, table)
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`
-- comment
CREATE TABLE a (id INTEGER);

CREATE INDEX i ON a(id);
`)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INTEGER)", stmts[0])
	assert.Equal(t, "CREATE INDEX i ON a(id)", stmts[1])
}
