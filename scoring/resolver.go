// Package scoring holds the pure rules of a league: how a game's scores turn into
// wins and losses, when a cycle counts as complete, and how standings are derived
// from the outcome history. Nothing here touches storage.
package scoring

import (
	"errors"
	"fmt"

	"github.com/Dosada05/leaguify/models"
)

var (
	ErrNoScores        = errors.New("at least one score is required")
	ErrUnknownPlayer   = errors.New("player is not in this league")
	ErrDuplicatePlayer = errors.New("duplicate player in outcomes")
	ErrMissingPlayer   = errors.New("missing score for league player")
	ErrMissingScore    = errors.New("score is required")
	ErrNegativeScore   = errors.New("score must not be negative")
)

// Resolve validates one game's scores against the league roster and computes each
// player's result. A player wins iff their score equals the maximum and not every
// score is the same, so an all-equal game has no winner and a tie at the top has
// several.
func Resolve(roster []*models.Player, scores []models.PlayerScore) ([]*models.Outcome, error) {
	if len(scores) == 0 {
		return nil, ErrNoScores
	}

	members := make(map[string]struct{}, len(roster))
	for _, p := range roster {
		members[p.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(scores))
	for _, s := range scores {
		if _, ok := members[s.PlayerID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, s.PlayerID)
		}
		if _, dup := seen[s.PlayerID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, s.PlayerID)
		}
		if s.Score == nil {
			return nil, fmt.Errorf("%w: player %s", ErrMissingScore, s.PlayerID)
		}
		if *s.Score < 0 {
			return nil, fmt.Errorf("%w: player %s has %d", ErrNegativeScore, s.PlayerID, *s.Score)
		}
		seen[s.PlayerID] = struct{}{}
	}

	if len(seen) < len(roster) {
		for _, p := range roster {
			if _, ok := seen[p.ID]; !ok {
				return nil, fmt.Errorf("%w: %s (expected %d scores, got %d)", ErrMissingPlayer, p.ID, len(roster), len(scores))
			}
		}
	}

	maxScore, minScore := *scores[0].Score, *scores[0].Score
	for _, s := range scores[1:] {
		maxScore = max(maxScore, *s.Score)
		minScore = min(minScore, *s.Score)
	}

	outcomes := make([]*models.Outcome, 0, len(scores))
	for _, s := range scores {
		result := models.ResultLoss
		if *s.Score == maxScore && maxScore != minScore {
			result = models.ResultWin
		}
		outcomes = append(outcomes, &models.Outcome{
			PlayerID: s.PlayerID,
			Score:    *s.Score,
			Result:   result,
		})
	}
	return outcomes, nil
}
