package models

import "time"

type Player struct {
	ID        string    `json:"id" db:"id"`
	LeagueID  string    `json:"league_id" db:"league_id"`
	Name      string    `json:"name" db:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
