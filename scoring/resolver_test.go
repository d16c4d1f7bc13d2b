package scoring

import (
	"errors"
	"testing"

	"github.com/Dosada05/leaguify/models"
)

func roster(ids ...string) []*models.Player {
	players := make([]*models.Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, &models.Player{ID: id, Name: "player " + id})
	}
	return players
}

func ps(id string, score int) models.PlayerScore {
	return models.NewPlayerScore(id, score)
}

func resultsByPlayer(outcomes []*models.Outcome) map[string]models.GameResult {
	res := make(map[string]models.GameResult, len(outcomes))
	for _, o := range outcomes {
		res[o.PlayerID] = o.Result
	}
	return res
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		scores []models.PlayerScore
		want   map[string]models.GameResult
	}{
		{
			name:   "single winner",
			scores: []models.PlayerScore{ps("a", 10), ps("b", 5), ps("c", 2)},
			want:   map[string]models.GameResult{"a": models.ResultWin, "b": models.ResultLoss, "c": models.ResultLoss},
		},
		{
			name:   "all equal means no winner",
			scores: []models.PlayerScore{ps("a", 3), ps("b", 3), ps("c", 3)},
			want:   map[string]models.GameResult{"a": models.ResultLoss, "b": models.ResultLoss, "c": models.ResultLoss},
		},
		{
			name:   "all zero",
			scores: []models.PlayerScore{ps("a", 0), ps("b", 0), ps("c", 0)},
			want:   map[string]models.GameResult{"a": models.ResultLoss, "b": models.ResultLoss, "c": models.ResultLoss},
		},
		{
			name:   "tie at the top wins together",
			scores: []models.PlayerScore{ps("a", 7), ps("b", 7), ps("c", 1)},
			want:   map[string]models.GameResult{"a": models.ResultWin, "b": models.ResultWin, "c": models.ResultLoss},
		},
		{
			name:   "tie at the bottom",
			scores: []models.PlayerScore{ps("a", 1), ps("b", 1), ps("c", 4)},
			want:   map[string]models.GameResult{"a": models.ResultLoss, "b": models.ResultLoss, "c": models.ResultWin},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcomes, err := Resolve(roster("a", "b", "c"), tc.scores)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(outcomes) != len(tc.scores) {
				t.Fatalf("expected %d outcomes, got %d", len(tc.scores), len(outcomes))
			}
			got := resultsByPlayer(outcomes)
			for id, want := range tc.want {
				if got[id] != want {
					t.Errorf("player %s: expected %s, got %s", id, want, got[id])
				}
			}
			for i, o := range outcomes {
				if o.Score != *tc.scores[i].Score {
					t.Errorf("outcome %d: score %d not carried over (got %d)", i, *tc.scores[i].Score, o.Score)
				}
			}
		})
	}
}

func TestResolve_distinctScoresHaveWinnerAndLoser(t *testing.T) {
	vectors := [][]int{
		{1, 2}, {5, 0, 5}, {9, 8, 7, 6}, {0, 0, 1, 1}, {100, 3, 100, 100},
	}
	for _, v := range vectors {
		ids := make([]string, len(v))
		scores := make([]models.PlayerScore, len(v))
		top := 0
		for i, s := range v {
			ids[i] = string(rune('a' + i))
			scores[i] = ps(ids[i], s)
			top = max(top, s)
		}

		outcomes, err := Resolve(roster(ids...), scores)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", v, err)
		}

		wins, losses := 0, 0
		for _, o := range outcomes {
			isTop := o.Score == top
			if isTop != (o.Result == models.ResultWin) {
				t.Errorf("%v: player %s with %d got %s", v, o.PlayerID, o.Score, o.Result)
			}
			if o.Result == models.ResultWin {
				wins++
			} else {
				losses++
			}
		}
		if wins == 0 || losses == 0 {
			t.Errorf("%v: expected at least one win and one loss, got %d/%d", v, wins, losses)
		}
	}
}

func TestResolve_validation(t *testing.T) {
	tests := []struct {
		name   string
		scores []models.PlayerScore
		err    error
	}{
		{"empty", nil, ErrNoScores},
		{"missing player", []models.PlayerScore{ps("a", 1), ps("b", 2)}, ErrMissingPlayer},
		{"unknown player", []models.PlayerScore{ps("a", 1), ps("b", 2), ps("z", 3)}, ErrUnknownPlayer},
		{"extra player", []models.PlayerScore{ps("a", 1), ps("b", 2), ps("c", 3), ps("d", 4)}, ErrUnknownPlayer},
		{"duplicate player", []models.PlayerScore{ps("a", 1), ps("b", 2), ps("a", 3)}, ErrDuplicatePlayer},
		{"duplicate replacing a member", []models.PlayerScore{ps("a", 1), ps("a", 2), ps("b", 3)}, ErrDuplicatePlayer},
		{"negative score", []models.PlayerScore{ps("a", 1), ps("b", -2), ps("c", 3)}, ErrNegativeScore},
		{"missing score", []models.PlayerScore{{PlayerID: "a"}, ps("b", 5), ps("c", 3)}, ErrMissingScore},
		{"missing score among equal ones", []models.PlayerScore{ps("a", 0), ps("b", 0), {PlayerID: "c"}}, ErrMissingScore},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			outcomes, err := Resolve(roster("a", "b", "c"), tc.scores)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if outcomes != nil {
				t.Errorf("expected no outcomes on error, got %v", outcomes)
			}
		})
	}
}
