package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/leaguify/models"
)

type OutcomeRepository interface {
	// Replace deletes the game's outcomes and inserts the given ones.
	// Call it with a transaction so readers never see a partial set.
	Replace(ctx context.Context, exec SQLExecutor, gameID string, outcomes []*models.Outcome) error
	ListByGame(ctx context.Context, exec SQLExecutor, gameID string) ([]*models.Outcome, error)
	ListByLeague(ctx context.Context, exec SQLExecutor, leagueID string) ([]*models.Outcome, error)
}

type sqlOutcomeRepository struct {
	db *sql.DB
}

func NewOutcomeRepository(db *sql.DB) OutcomeRepository {
	return &sqlOutcomeRepository{db: db}
}

func (r *sqlOutcomeRepository) Replace(ctx context.Context, exec SQLExecutor, gameID string, outcomes []*models.Outcome) error {
	ex := executor(r.db, exec)

	if _, err := ex.ExecContext(ctx, `DELETE FROM game_outcomes WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("delete outcomes of game %s: %w", gameID, err)
	}
	if len(outcomes) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(outcomes)*5)
	for _, o := range outcomes {
		o.ID = newID()
		o.GameID = gameID
		args = append(args, o.ID, o.GameID, o.PlayerID, o.Score, string(o.Result))
	}

	query := `INSERT INTO game_outcomes (id, game_id, player_id, score, result) VALUES ` + placeholders(len(outcomes), 5)
	if _, err := ex.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert outcomes of game %s: %w", gameID, err)
	}
	return nil
}

func (r *sqlOutcomeRepository) list(ctx context.Context, exec SQLExecutor, query string, arg string) ([]*models.Outcome, error) {
	rows, err := executor(r.db, exec).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outcomes := make([]*models.Outcome, 0)
	for rows.Next() {
		o := &models.Outcome{}
		if err := rows.Scan(&o.ID, &o.GameID, &o.PlayerID, &o.Score, &o.Result); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

func (r *sqlOutcomeRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID string) ([]*models.Outcome, error) {
	query := `
		SELECT id, game_id, player_id, score, result
		FROM game_outcomes
		WHERE game_id = $1
		ORDER BY score DESC, player_id`
	return r.list(ctx, exec, query, gameID)
}

func (r *sqlOutcomeRepository) ListByLeague(ctx context.Context, exec SQLExecutor, leagueID string) ([]*models.Outcome, error) {
	query := `
		SELECT o.id, o.game_id, o.player_id, o.score, o.result
		FROM game_outcomes o
		JOIN games g ON g.id = o.game_id
		WHERE g.league_id = $1
		ORDER BY g.cycle_number, g.game_number, o.player_id`
	return r.list(ctx, exec, query, leagueID)
}
