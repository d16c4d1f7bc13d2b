package models

type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
)

// Outcome is one player's recorded score and derived result for one game.
type Outcome struct {
	ID       string     `json:"id" db:"id"`
	GameID   string     `json:"game_id" db:"game_id"`
	PlayerID string     `json:"player_id" db:"player_id"`
	Score    int        `json:"score" db:"score"`
	Result   GameResult `json:"result" db:"result"`
}

// PlayerScore is a raw score submitted for one player before the result is resolved.
// Score is nil when the submission left it out.
type PlayerScore struct {
	PlayerID string `json:"player_id"`
	Score    *int   `json:"score"`
}

func NewPlayerScore(playerID string, score int) PlayerScore {
	return PlayerScore{PlayerID: playerID, Score: &score}
}
