package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/leaguify/cache"
	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/scoring"
)

// snapshotTx reads league, players, games and outcomes as of one point in time.
// SQLite ignores the isolation level; its transactions are serializable anyway.
var snapshotTx = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}

type StatsService interface {
	// ComputeStandings returns per-player cycle wins, game wins and current cycle
	// points, in player listing order.
	ComputeStandings(ctx context.Context, leagueID string) ([]models.PlayerStanding, error)
}

type statsService struct {
	db        *sql.DB
	repos     Repositories
	standings cache.StandingsCache
	logger    *slog.Logger
}

func NewStatsService(db *sql.DB, repos Repositories, standings cache.StandingsCache, logger *slog.Logger) StatsService {
	if standings == nil {
		standings = cache.Nop{}
	}
	return &statsService{
		db:        db,
		repos:     repos,
		standings: standings,
		logger:    logger,
	}
}

type leagueSnapshot struct {
	league   *models.League
	players  []*models.Player
	games    []*models.Game
	outcomes []*models.Outcome
}

func (s *statsService) ComputeStandings(ctx context.Context, leagueID string) ([]models.PlayerStanding, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}

	if cached, ok, err := s.standings.Get(ctx, leagueID); err != nil {
		s.logger.Warn("standings cache read failed", slog.String("league_id", leagueID), slog.Any("error", err))
	} else if ok {
		return cached, nil
	}

	// версия берётся до чтения данных: инвалидация после неё запретит запись в кэш
	version, versionErr := s.standings.Version(ctx, leagueID)
	if versionErr != nil {
		s.logger.Warn("standings cache version read failed", slog.String("league_id", leagueID), slog.Any("error", versionErr))
	}

	snap, err := s.loadSnapshot(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	standings := scoring.AggregateStandings(snap.league, snap.players, snap.games, snap.outcomes)

	if versionErr == nil {
		stored, err := s.standings.SetIfUnchanged(ctx, leagueID, version, standings)
		if err != nil {
			s.logger.Warn("standings cache write failed", slog.String("league_id", leagueID), slog.Any("error", err))
		} else if !stored {
			s.logger.Debug("standings changed while computing, not cached", slog.String("league_id", leagueID))
		}
	}
	return standings, nil
}

func (s *statsService) loadSnapshot(ctx context.Context, leagueID string) (*leagueSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, snapshotTx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	// только чтение: откат ничего не теряет
	defer tx.Rollback()

	snap := &leagueSnapshot{}
	snap.league, err = s.repos.Leagues.GetByID(ctx, tx, leagueID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	snap.players, err = s.repos.Players.ListByLeague(ctx, tx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of league %s: %w", leagueID, err)
	}
	snap.games, err = s.repos.Games.ListByLeague(ctx, tx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of league %s: %w", leagueID, err)
	}
	snap.outcomes, err = s.repos.Outcomes.ListByLeague(ctx, tx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes of league %s: %w", leagueID, err)
	}
	return snap, nil
}
