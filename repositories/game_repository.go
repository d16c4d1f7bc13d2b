package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/leaguify/models"
)

var (
	ErrGameNotFound = errors.New("game not found")
	// ErrGameSlotTaken means a game with the same (league, cycle, game number) already exists.
	ErrGameSlotTaken = errors.New("game slot already taken")
)

type GameRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Game, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID string) ([]*models.Game, error)
	ListByCycle(ctx context.Context, exec SQLExecutor, leagueID string, cycle int) ([]*models.Game, error)
	// CreateBatch creates count pending games numbered 1..count in the given cycle.
	CreateBatch(ctx context.Context, exec SQLExecutor, leagueID string, cycle, count int) ([]*models.Game, error)
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	MarkCompleted(ctx context.Context, exec SQLExecutor, id string, playedAt time.Time) error
	CountCompleted(ctx context.Context, exec SQLExecutor, leagueID string, cycle int) (int, error)
	// MaxCycleNumber returns 0 when the league has no games.
	MaxCycleNumber(ctx context.Context, exec SQLExecutor, leagueID string) (int, error)
	MaxGameNumber(ctx context.Context, exec SQLExecutor, leagueID string, cycle int) (int, error)
}

type sqlGameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) GameRepository {
	return &sqlGameRepository{db: db}
}

const gameColumns = `id, league_id, cycle_number, game_number, status, date_played`

func scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	g := &models.Game{}
	if err := row.Scan(&g.ID, &g.LeagueID, &g.CycleNumber, &g.GameNumber, &g.Status, &g.DatePlayed); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *sqlGameRepository) listGames(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (r *sqlGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	g, err := scanGame(executor(r.db, exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *sqlGameRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID string) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league_id = $1
		ORDER BY cycle_number DESC, game_number ASC`
	return r.listGames(ctx, exec, query, leagueID)
}

func (r *sqlGameRepository) ListByCycle(ctx context.Context, exec SQLExecutor, leagueID string, cycle int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league_id = $1 AND cycle_number = $2
		ORDER BY game_number ASC`
	return r.listGames(ctx, exec, query, leagueID, cycle)
}

func (r *sqlGameRepository) CreateBatch(ctx context.Context, exec SQLExecutor, leagueID string, cycle, count int) ([]*models.Game, error) {
	if count <= 0 {
		return []*models.Game{}, nil
	}

	games := make([]*models.Game, 0, count)
	args := make([]interface{}, 0, count*5)
	for n := 1; n <= count; n++ {
		g := &models.Game{
			ID:          newID(),
			LeagueID:    leagueID,
			CycleNumber: cycle,
			GameNumber:  n,
			Status:      models.GameStatusPending,
		}
		games = append(games, g)
		args = append(args, g.ID, g.LeagueID, g.CycleNumber, g.GameNumber, string(g.Status))
	}

	query := `INSERT INTO games (id, league_id, cycle_number, game_number, status) VALUES ` + placeholders(count, 5)
	if _, err := executor(r.db, exec).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrGameSlotTaken
		}
		return nil, err
	}
	return games, nil
}

func (r *sqlGameRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Game) error {
	if g.ID == "" {
		g.ID = newID()
	}
	if g.Status == "" {
		g.Status = models.GameStatusPending
	}

	query := `
		INSERT INTO games (id, league_id, cycle_number, game_number, status, date_played)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := executor(r.db, exec).ExecContext(ctx, query,
		g.ID, g.LeagueID, g.CycleNumber, g.GameNumber, string(g.Status), g.DatePlayed,
	)
	if isUniqueViolation(err) {
		return ErrGameSlotTaken
	}
	return err
}

func (r *sqlGameRepository) MarkCompleted(ctx context.Context, exec SQLExecutor, id string, playedAt time.Time) error {
	query := `UPDATE games SET status = $1, date_played = $2 WHERE id = $3`
	result, err := executor(r.db, exec).ExecContext(ctx, query, string(models.GameStatusCompleted), playedAt.UTC(), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *sqlGameRepository) CountCompleted(ctx context.Context, exec SQLExecutor, leagueID string, cycle int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM games
		WHERE league_id = $1 AND cycle_number = $2 AND status = $3`

	var count int
	err := executor(r.db, exec).QueryRowContext(ctx, query, leagueID, cycle, string(models.GameStatusCompleted)).Scan(&count)
	return count, err
}

func (r *sqlGameRepository) MaxCycleNumber(ctx context.Context, exec SQLExecutor, leagueID string) (int, error) {
	query := `SELECT COALESCE(MAX(cycle_number), 0) FROM games WHERE league_id = $1`

	var maxCycle int
	err := executor(r.db, exec).QueryRowContext(ctx, query, leagueID).Scan(&maxCycle)
	return maxCycle, err
}

func (r *sqlGameRepository) MaxGameNumber(ctx context.Context, exec SQLExecutor, leagueID string, cycle int) (int, error) {
	query := `SELECT COALESCE(MAX(game_number), 0) FROM games WHERE league_id = $1 AND cycle_number = $2`

	var maxGame int
	err := executor(r.db, exec).QueryRowContext(ctx, query, leagueID, cycle).Scan(&maxGame)
	return maxGame, err
}
