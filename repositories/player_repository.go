package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/leaguify/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, players []*models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Player, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID string) ([]*models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	CountWins(ctx context.Context, exec SQLExecutor, leagueID, playerID string) (int, error)
}

type sqlPlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) PlayerRepository {
	return &sqlPlayerRepository{db: db}
}

func (r *sqlPlayerRepository) CreateBatch(ctx context.Context, exec SQLExecutor, players []*models.Player) error {
	if len(players) == 0 {
		return nil
	}

	now := time.Now().UTC()
	args := make([]interface{}, 0, len(players)*5)
	for _, p := range players {
		if p.ID == "" {
			p.ID = newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.CreatedAt = p.CreatedAt.UTC()
		args = append(args, p.ID, p.LeagueID, p.Name, p.AvatarURL, p.CreatedAt)
	}

	query := `INSERT INTO players (id, league_id, name, avatar_url, created_at) VALUES ` + placeholders(len(players), 5)
	_, err := executor(r.db, exec).ExecContext(ctx, query, args...)
	return err
}

func (r *sqlPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id string) (*models.Player, error) {
	query := `
		SELECT id, league_id, name, avatar_url, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := executor(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.LeagueID, &p.Name, &p.AvatarURL, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *sqlPlayerRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID string) ([]*models.Player, error) {
	query := `
		SELECT id, league_id, name, avatar_url, created_at
		FROM players
		WHERE league_id = $1
		ORDER BY name, id`

	rows, err := executor(r.db, exec).QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		p := &models.Player{}
		if err := rows.Scan(&p.ID, &p.LeagueID, &p.Name, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *sqlPlayerRepository) Update(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	query := `UPDATE players SET name = $1, avatar_url = $2 WHERE id = $3`
	result, err := executor(r.db, exec).ExecContext(ctx, query, p.Name, p.AvatarURL, p.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

// CountWins counts the player's win outcomes across every game of the league.
func (r *sqlPlayerRepository) CountWins(ctx context.Context, exec SQLExecutor, leagueID, playerID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM game_outcomes o
		JOIN games g ON g.id = o.game_id
		WHERE g.league_id = $1 AND o.player_id = $2 AND o.result = $3`

	var wins int
	err := executor(r.db, exec).QueryRowContext(ctx, query, leagueID, playerID, string(models.ResultWin)).Scan(&wins)
	return wins, err
}
