package models

import "time"

// League представляет лигу с фиксированным составом игроков.
type League struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	NumPlayers int       `json:"num_players" db:"num_players"`
	NumGames   int       `json:"num_games" db:"num_games"` // games per cycle
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
