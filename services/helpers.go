package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/leaguify/cache"
	"github.com/Dosada05/leaguify/repositories"
)

// Repositories groups the stores the services work with.
type Repositories struct {
	Leagues  repositories.LeagueRepository
	Players  repositories.PlayerRepository
	Games    repositories.GameRepository
	Outcomes repositories.OutcomeRepository
}

// Notifier receives league events after the write that caused them has committed.
type Notifier interface {
	BroadcastToLeague(leagueID, eventType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) BroadcastToLeague(string, string, interface{}) {}

// runInTx runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise, including on panic.
func runInTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// translateRepoError maps repository sentinels onto service errors.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrGameSlotTaken):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// requireID rejects ids that cannot exist so they never reach the database.
func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return validationError("%s id is required", kind)
	}
	if _, err := uuid.Parse(id); err != nil {
		return validationError("%s id %q is not a valid uuid", kind, id)
	}
	return nil
}

// leagueEvents invalidates cached standings and notifies subscribers after a commit.
// Failures are logged, never returned: the write itself already succeeded.
type leagueEvents struct {
	cache    cache.StandingsCache
	notifier Notifier
	logger   *slog.Logger
}

func newLeagueEvents(c cache.StandingsCache, n Notifier, logger *slog.Logger) leagueEvents {
	if c == nil {
		c = cache.Nop{}
	}
	if n == nil {
		n = nopNotifier{}
	}
	return leagueEvents{cache: c, notifier: n, logger: logger}
}

func (e leagueEvents) standingsChanged(ctx context.Context, leagueID string) {
	if err := e.cache.Invalidate(ctx, leagueID); err != nil {
		e.logger.Warn("failed to invalidate standings cache", slog.String("league_id", leagueID), slog.Any("error", err))
	}
}

func (e leagueEvents) publish(leagueID, eventType string, payload interface{}) {
	e.notifier.BroadcastToLeague(leagueID, eventType, payload)
}
