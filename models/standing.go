package models

// PlayerStanding is derived from the outcome history of a league; it is never persisted.
type PlayerStanding struct {
	PlayerID           string  `json:"player_id"`
	Name               string  `json:"name"`
	AvatarURL          *string `json:"avatar_url,omitempty"`
	CycleWins          int     `json:"cycle_wins"`
	GameWins           int     `json:"game_wins"`
	CurrentCyclePoints int     `json:"current_cycle_points"`
}
