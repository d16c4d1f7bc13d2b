package testutils

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Dosada05/leaguify/db"
	"github.com/Dosada05/leaguify/repositories"
)

const sqliteMemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

// Store bundles a migrated database with the repositories built on it.
type Store struct {
	DB       *sql.DB
	Driver   string
	Leagues  repositories.LeagueRepository
	Players  repositories.PlayerRepository
	Games    repositories.GameRepository
	Outcomes repositories.OutcomeRepository
}

func NewStore(conn *sql.DB, driver string) *Store {
	return &Store{
		DB:       conn,
		Driver:   driver,
		Leagues:  repositories.NewLeagueRepository(conn),
		Players:  repositories.NewPlayerRepository(conn),
		Games:    repositories.NewGameRepository(conn),
		Outcomes: repositories.NewOutcomeRepository(conn),
	}
}

// NewSQLiteStore returns a private in-memory database with the schema applied.
// It is closed when the test ends.
func NewSQLiteStore(t testing.TB) *Store {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, sqliteMemoryDSN, 5*time.Second)
	if err != nil {
		t.Fatalf("error opening sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(context.Background(), conn, db.DriverSQLite); err != nil {
		t.Fatalf("error migrating sqlite: %v", err)
	}
	return NewStore(conn, db.DriverSQLite)
}
