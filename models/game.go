package models

import "time"

type GameStatus string

const (
	GameStatusPending   GameStatus = "pending"
	GameStatusCompleted GameStatus = "completed"
)

// Game is one scored contest among all league players within a cycle.
type Game struct {
	ID          string     `json:"id" db:"id"`
	LeagueID    string     `json:"league_id" db:"league_id"`
	CycleNumber int        `json:"cycle_number" db:"cycle_number"`
	GameNumber  int        `json:"game_number" db:"game_number"`
	Status      GameStatus `json:"status" db:"status"`
	DatePlayed  *time.Time `json:"date_played,omitempty" db:"date_played"`
}

func (g *Game) IsCompleted() bool {
	return g != nil && g.Status == GameStatusCompleted
}
