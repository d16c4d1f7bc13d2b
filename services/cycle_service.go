package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/Dosada05/leaguify/cache"
	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/realtime"
	"github.com/Dosada05/leaguify/repositories"
	"github.com/Dosada05/leaguify/scoring"
)

// CycleAdvance reports the effect of an attempt to open a cycle. When Started is
// false, CycleNumber is the cycle that stays current and GameIDs is empty.
type CycleAdvance struct {
	Started     bool     `json:"started"`
	CycleNumber int      `json:"cycle_number"`
	GameIDs     []string `json:"game_ids"`
}

// RecordResult is what a successful outcome submission produced.
type RecordResult struct {
	Game     *models.Game      `json:"game"`
	Outcomes []*models.Outcome `json:"outcomes"`
	Cycle    CycleAdvance      `json:"cycle"`
}

type CycleService interface {
	CurrentCycle(ctx context.Context, leagueID string) (int, error)
	IsCycleComplete(ctx context.Context, leagueID string, cycle int) (bool, error)
	// OpenNextCycle creates the pending games of the cycle after the highest existing one.
	OpenNextCycle(ctx context.Context, leagueID string) (*CycleAdvance, error)
	// StartNextCycle is the manual trigger; it requires every game of the current cycle to be completed.
	StartNextCycle(ctx context.Context, leagueID string) (*CycleAdvance, error)
	// RecordOutcomes stores a game's scores and opens the next cycle once the current one is complete.
	RecordOutcomes(ctx context.Context, gameID string, scores []models.PlayerScore) (*RecordResult, error)
	AddGameToCurrentCycle(ctx context.Context, leagueID string) (*models.Game, error)
}

type cycleService struct {
	db     *sql.DB
	repos  Repositories
	clock  clock.Clock
	events leagueEvents
	logger *slog.Logger
}

func NewCycleService(db *sql.DB, repos Repositories, standings cache.StandingsCache, notifier Notifier, clk clock.Clock, logger *slog.Logger) CycleService {
	return &cycleService{
		db:     db,
		repos:  repos,
		clock:  clk,
		events: newLeagueEvents(standings, notifier, logger),
		logger: logger,
	}
}

func (s *cycleService) CurrentCycle(ctx context.Context, leagueID string) (int, error) {
	if err := requireID("league", leagueID); err != nil {
		return 0, err
	}
	if _, err := s.repos.Leagues.GetByID(ctx, nil, leagueID); err != nil {
		return 0, translateRepoError(err)
	}
	return s.currentCycle(ctx, nil, leagueID)
}

func (s *cycleService) currentCycle(ctx context.Context, exec repositories.SQLExecutor, leagueID string) (int, error) {
	maxCycle, err := s.repos.Games.MaxCycleNumber(ctx, exec, leagueID)
	if err != nil {
		return 0, fmt.Errorf("failed to get max cycle of league %s: %w", leagueID, err)
	}
	return scoring.EffectiveCycle(maxCycle), nil
}

func (s *cycleService) IsCycleComplete(ctx context.Context, leagueID string, cycle int) (bool, error) {
	if err := requireID("league", leagueID); err != nil {
		return false, err
	}
	league, err := s.repos.Leagues.GetByID(ctx, nil, leagueID)
	if err != nil {
		return false, translateRepoError(err)
	}
	return s.isCycleComplete(ctx, nil, league, cycle)
}

func (s *cycleService) isCycleComplete(ctx context.Context, exec repositories.SQLExecutor, league *models.League, cycle int) (bool, error) {
	completed, err := s.repos.Games.CountCompleted(ctx, exec, league.ID, cycle)
	if err != nil {
		return false, fmt.Errorf("failed to count completed games of league %s cycle %d: %w", league.ID, cycle, err)
	}
	return scoring.IsCycleComplete(completed, league.NumGames), nil
}

func (s *cycleService) OpenNextCycle(ctx context.Context, leagueID string) (*CycleAdvance, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}

	var advance *CycleAdvance
	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		league, err := s.lockLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		advance, err = s.openNextCycle(ctx, tx, league)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCycleAdvance(ctx, leagueID, advance)
	return advance, nil
}

func (s *cycleService) StartNextCycle(ctx context.Context, leagueID string) (*CycleAdvance, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}

	var advance *CycleAdvance
	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		league, err := s.lockLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}

		current, err := s.currentCycle(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		games, err := s.repos.Games.ListByCycle(ctx, tx, leagueID, current)
		if err != nil {
			return fmt.Errorf("failed to list games of league %s cycle %d: %w", leagueID, current, err)
		}
		pending := 0
		for _, g := range games {
			if !g.IsCompleted() {
				pending++
			}
		}
		if pending > 0 {
			return fmt.Errorf("%w: cycle %d has %d pending games", ErrCycleNotFinished, current, pending)
		}

		advance, err = s.openNextCycle(ctx, tx, league)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterCycleAdvance(ctx, leagueID, advance)
	return advance, nil
}

func (s *cycleService) RecordOutcomes(ctx context.Context, gameID string, scores []models.PlayerScore) (*RecordResult, error) {
	if err := requireID("game", gameID); err != nil {
		return nil, err
	}

	result := &RecordResult{}
	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		game, err := s.repos.Games.GetByID(ctx, tx, gameID)
		if err != nil {
			return translateRepoError(err)
		}

		league, err := s.lockLeague(ctx, tx, game.LeagueID)
		if err != nil {
			return err
		}

		roster, err := s.repos.Players.ListByLeague(ctx, tx, league.ID)
		if err != nil {
			return fmt.Errorf("failed to list players of league %s: %w", league.ID, err)
		}

		outcomes, err := scoring.Resolve(roster, scores)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}

		if err := s.repos.Outcomes.Replace(ctx, tx, game.ID, outcomes); err != nil {
			return fmt.Errorf("failed to store outcomes of game %s: %w", game.ID, err)
		}

		playedAt := s.clock.Now().UTC()
		if err := s.repos.Games.MarkCompleted(ctx, tx, game.ID, playedAt); err != nil {
			return translateRepoError(err)
		}
		game.Status = models.GameStatusCompleted
		game.DatePlayed = &playedAt

		// completion is re-read after this game was marked, under the league lock
		current, err := s.currentCycle(ctx, tx, league.ID)
		if err != nil {
			return err
		}
		complete, err := s.isCycleComplete(ctx, tx, league, current)
		if err != nil {
			return err
		}

		result.Game = game
		result.Outcomes = outcomes
		result.Cycle = CycleAdvance{CycleNumber: current, GameIDs: []string{}}
		if !complete {
			return nil
		}

		advance, err := s.openNextCycle(ctx, tx, league)
		if err != nil {
			return err
		}
		result.Cycle = *advance
		return nil
	})
	if err != nil {
		return nil, err
	}

	leagueID := result.Game.LeagueID
	s.logger.Info("outcomes recorded",
		slog.String("league_id", leagueID),
		slog.String("game_id", gameID),
		slog.Int("cycle", result.Game.CycleNumber),
		slog.Bool("cycle_started", result.Cycle.Started),
	)
	s.events.standingsChanged(ctx, leagueID)
	s.events.publish(leagueID, realtime.EventOutcomesRecorded, result)
	if result.Cycle.Started {
		s.events.publish(leagueID, realtime.EventCycleStarted, result.Cycle)
	}
	return result, nil
}

func (s *cycleService) AddGameToCurrentCycle(ctx context.Context, leagueID string) (*models.Game, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}

	var game *models.Game
	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if _, err := s.lockLeague(ctx, tx, leagueID); err != nil {
			return err
		}

		current, err := s.currentCycle(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		maxGame, err := s.repos.Games.MaxGameNumber(ctx, tx, leagueID, current)
		if err != nil {
			return fmt.Errorf("failed to get max game number of league %s cycle %d: %w", leagueID, current, err)
		}

		game = &models.Game{
			LeagueID:    leagueID,
			CycleNumber: current,
			GameNumber:  maxGame + 1,
			Status:      models.GameStatusPending,
		}
		if err := s.repos.Games.Create(ctx, tx, game); err != nil {
			return translateRepoError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game added", slog.String("league_id", leagueID), slog.Int("cycle", game.CycleNumber), slog.Int("game_number", game.GameNumber))
	s.events.publish(leagueID, realtime.EventGameAdded, game)
	return game, nil
}

// lockLeague serialises writers of one league for the rest of tx and loads it.
func (s *cycleService) lockLeague(ctx context.Context, tx *sql.Tx, leagueID string) (*models.League, error) {
	if err := s.repos.Leagues.Lock(ctx, tx, leagueID); err != nil {
		return nil, translateRepoError(err)
	}
	league, err := s.repos.Leagues.GetByID(ctx, tx, leagueID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return league, nil
}

// openNextCycle creates numGames pending games under max cycle + 1 inside a savepoint.
// A slot collision means another writer already opened that cycle; it is rolled back
// to the savepoint and reported as no change.
func (s *cycleService) openNextCycle(ctx context.Context, tx *sql.Tx, league *models.League) (*CycleAdvance, error) {
	maxCycle, err := s.repos.Games.MaxCycleNumber(ctx, tx, league.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max cycle of league %s: %w", league.ID, err)
	}
	next := maxCycle + 1

	if _, err := tx.ExecContext(ctx, "SAVEPOINT open_cycle"); err != nil {
		return nil, fmt.Errorf("failed to create savepoint: %w", err)
	}

	games, err := s.repos.Games.CreateBatch(ctx, tx, league.ID, next, league.NumGames)
	if err != nil {
		err = translateRepoError(err)
		if !errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("failed to create games of cycle %d: %w", next, err)
		}
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT open_cycle"); rbErr != nil {
			return nil, fmt.Errorf("failed to roll back to savepoint: %w", rbErr)
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT open_cycle"); relErr != nil {
			return nil, fmt.Errorf("failed to release savepoint: %w", relErr)
		}
		s.logger.Warn("cycle already opened by a concurrent write", slog.String("league_id", league.ID), slog.Int("cycle", next))
		return &CycleAdvance{CycleNumber: scoring.EffectiveCycle(maxCycle), GameIDs: []string{}}, nil
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT open_cycle"); err != nil {
		return nil, fmt.Errorf("failed to release savepoint: %w", err)
	}

	ids := make([]string, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	return &CycleAdvance{Started: true, CycleNumber: next, GameIDs: ids}, nil
}

func (s *cycleService) afterCycleAdvance(ctx context.Context, leagueID string, advance *CycleAdvance) {
	if !advance.Started {
		return
	}
	s.logger.Info("cycle started", slog.String("league_id", leagueID), slog.Int("cycle", advance.CycleNumber))
	s.events.standingsChanged(ctx, leagueID)
	s.events.publish(leagueID, realtime.EventCycleStarted, advance)
}
