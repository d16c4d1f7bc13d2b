package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/leaguify/models"
)

var ErrLeagueNotFound = errors.New("league not found")

type LeagueRepository interface {
	Create(ctx context.Context, exec SQLExecutor, league *models.League) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.League, error)
	List(ctx context.Context) ([]*models.League, error)
	// Lock takes the league's row lock for the rest of the transaction behind exec.
	Lock(ctx context.Context, exec SQLExecutor, id string) error
}

type sqlLeagueRepository struct {
	db *sql.DB
}

func NewLeagueRepository(db *sql.DB) LeagueRepository {
	return &sqlLeagueRepository{db: db}
}

func (r *sqlLeagueRepository) Create(ctx context.Context, exec SQLExecutor, l *models.League) error {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	l.CreatedAt = l.CreatedAt.UTC()

	query := `
		INSERT INTO leagues (id, name, num_players, num_games, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := executor(r.db, exec).ExecContext(ctx, query, l.ID, l.Name, l.NumPlayers, l.NumGames, l.CreatedAt)
	return err
}

func (r *sqlLeagueRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.League, error) {
	query := `
		SELECT id, name, num_players, num_games, created_at
		FROM leagues
		WHERE id = $1`

	l := &models.League{}
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.NumPlayers, &l.NumGames, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *sqlLeagueRepository) List(ctx context.Context) ([]*models.League, error) {
	query := `
		SELECT id, name, num_players, num_games, created_at
		FROM leagues
		ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		l := &models.League{}
		if err := rows.Scan(&l.ID, &l.Name, &l.NumPlayers, &l.NumGames, &l.CreatedAt); err != nil {
			return nil, err
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

// Lock is a no-op update: both postgres and sqlite hold the written row (or the
// whole database) until the transaction ends, which serialises writers per league.
func (r *sqlLeagueRepository) Lock(ctx context.Context, exec SQLExecutor, id string) error {
	query := `UPDATE leagues SET num_games = num_games WHERE id = $1`
	result, err := executor(r.db, exec).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}
