package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/leaguify/models"
)

// history builds games and outcomes for a league in a compact form.
type history struct {
	games    []*models.Game
	outcomes []*models.Outcome
}

// played adds a completed game whose outcomes are resolved from scores.
func (h *history) played(t *testing.T, players []*models.Player, cycle int, scores ...int) {
	t.Helper()
	require.Len(t, scores, len(players))

	g := &models.Game{
		ID:          fmt.Sprintf("c%d-g%d", cycle, len(h.games)+1),
		CycleNumber: cycle,
		GameNumber:  len(h.games) + 1,
		Status:      models.GameStatusCompleted,
	}
	h.games = append(h.games, g)

	submitted := make([]models.PlayerScore, len(players))
	for i, p := range players {
		submitted[i] = models.NewPlayerScore(p.ID, scores[i])
	}
	outcomes, err := Resolve(players, submitted)
	require.NoError(t, err)
	for _, o := range outcomes {
		o.GameID = g.ID
	}
	h.outcomes = append(h.outcomes, outcomes...)
}

func (h *history) pending(cycle, count int) {
	for i := 0; i < count; i++ {
		h.games = append(h.games, &models.Game{
			ID:          fmt.Sprintf("c%d-p%d", cycle, len(h.games)+1),
			CycleNumber: cycle,
			GameNumber:  len(h.games) + 1,
			Status:      models.GameStatusPending,
		})
	}
}

func byID(standings []models.PlayerStanding) map[string]models.PlayerStanding {
	m := make(map[string]models.PlayerStanding, len(standings))
	for _, s := range standings {
		m[s.PlayerID] = s
	}
	return m
}

func TestAggregateStandings_cycleWinAttribution(t *testing.T) {
	league := &models.League{ID: "l", NumPlayers: 2, NumGames: 4}
	players := roster("A", "B")

	h := &history{}
	// cycle 1: A wins 3 of 4, B wins 1
	h.played(t, players, 1, 5, 1)
	h.played(t, players, 1, 5, 1)
	h.played(t, players, 1, 5, 1)
	h.played(t, players, 1, 1, 5)
	// cycle 2: B wins all
	for i := 0; i < 4; i++ {
		h.played(t, players, 2, 0, 3)
	}

	t.Run("cycle 2 still current", func(t *testing.T) {
		got := byID(AggregateStandings(league, players, h.games, h.outcomes))
		assert.Equal(t, 1, got["A"].CycleWins)
		assert.Equal(t, 0, got["B"].CycleWins)
		assert.Equal(t, 3, got["A"].GameWins)
		assert.Equal(t, 5, got["B"].GameWins)
		assert.Equal(t, 0, got["A"].CurrentCyclePoints)
		assert.Equal(t, 12, got["B"].CurrentCyclePoints)
	})

	t.Run("cycle 3 opened", func(t *testing.T) {
		h.pending(3, 4)
		got := byID(AggregateStandings(league, players, h.games, h.outcomes))
		assert.Equal(t, 1, got["A"].CycleWins)
		assert.Equal(t, 1, got["B"].CycleWins)
		assert.Equal(t, 0, got["A"].CurrentCyclePoints)
		assert.Equal(t, 0, got["B"].CurrentCyclePoints)
	})
}

func TestAggregateStandings_sharedGameWinsAcrossCycles(t *testing.T) {
	league := &models.League{ID: "l", NumPlayers: 3, NumGames: 4}
	players := roster("A", "B", "C")

	h := &history{}
	// cycle 1: A wins 3 of 4, B wins 2 of 4 (game 3 is a shared win)
	h.played(t, players, 1, 5, 1, 0)
	h.played(t, players, 1, 5, 1, 0)
	h.played(t, players, 1, 5, 5, 0)
	h.played(t, players, 1, 1, 5, 0)
	// cycle 2: B wins all
	for i := 0; i < 4; i++ {
		h.played(t, players, 2, 0, 5, 1)
	}
	h.pending(3, 4)

	got := byID(AggregateStandings(league, players, h.games, h.outcomes))
	assert.Equal(t, 1, got["A"].CycleWins)
	assert.Equal(t, 1, got["B"].CycleWins)
	assert.Equal(t, 0, got["C"].CycleWins)
	assert.Equal(t, 3, got["A"].GameWins)
	assert.Equal(t, 6, got["B"].GameWins)
}

func TestAggregateStandings_allTiedCycleAwardsNothing(t *testing.T) {
	league := &models.League{ID: "l", NumPlayers: 3, NumGames: 2}
	players := roster("A", "B", "C")

	h := &history{}
	h.played(t, players, 1, 4, 4, 4)
	h.played(t, players, 1, 0, 0, 0)
	h.pending(2, 2)

	for _, s := range AggregateStandings(league, players, h.games, h.outcomes) {
		assert.Zero(t, s.CycleWins, "player %s", s.PlayerID)
		assert.Zero(t, s.GameWins, "player %s", s.PlayerID)
	}
}

func TestAggregateStandings_tiedCycleLeadersEachWin(t *testing.T) {
	league := &models.League{ID: "l", NumPlayers: 3, NumGames: 2}
	players := roster("A", "B", "C")

	h := &history{}
	h.played(t, players, 1, 9, 1, 1)
	h.played(t, players, 1, 1, 9, 1)
	h.pending(2, 2)

	got := byID(AggregateStandings(league, players, h.games, h.outcomes))
	assert.Equal(t, 1, got["A"].CycleWins)
	assert.Equal(t, 1, got["B"].CycleWins)
	assert.Equal(t, 0, got["C"].CycleWins)
}

func TestAggregateStandings_incompleteCycleIsNotScored(t *testing.T) {
	// numGames was raised to 3 after cycle 1 was played with 2 games
	league := &models.League{ID: "l", NumPlayers: 2, NumGames: 3}
	players := roster("A", "B")

	h := &history{}
	h.played(t, players, 1, 2, 1)
	h.played(t, players, 1, 2, 1)
	h.pending(2, 3)

	got := byID(AggregateStandings(league, players, h.games, h.outcomes))
	assert.Equal(t, 0, got["A"].CycleWins)
	assert.Equal(t, 2, got["A"].GameWins)
}

func TestAggregateStandings_extendedCycleIsNotScored(t *testing.T) {
	// cycle 1 got a fifth game and it was completed after cycle 2 opened
	league := &models.League{ID: "l", NumPlayers: 2, NumGames: 4}
	players := roster("A", "B")

	h := &history{}
	for i := 0; i < 5; i++ {
		h.played(t, players, 1, 3, 1)
	}
	h.pending(2, 4)

	got := byID(AggregateStandings(league, players, h.games, h.outcomes))
	assert.Equal(t, 0, got["A"].CycleWins)
	assert.Equal(t, 5, got["A"].GameWins)
}

func TestAggregateStandings_currentCyclePoints(t *testing.T) {
	league := &models.League{ID: "l", NumPlayers: 2, NumGames: 3}
	players := roster("A", "B")

	h := &history{}
	h.played(t, players, 1, 10, 5)
	h.pending(1, 2)

	got := byID(AggregateStandings(league, players, h.games, h.outcomes))
	assert.Equal(t, 10, got["A"].CurrentCyclePoints)
	assert.Equal(t, 5, got["B"].CurrentCyclePoints)
	assert.Equal(t, 0, got["A"].CycleWins, "the current cycle is never scored")
}

func TestAggregateStandings_keepsPlayerOrderAndDetails(t *testing.T) {
	avatar := "/StephAvatar.png"
	players := []*models.Player{
		{ID: "2", Name: "Bea", AvatarURL: &avatar},
		{ID: "1", Name: "Cal"},
	}
	got := AggregateStandings(&models.League{NumGames: 1}, players, nil, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].PlayerID)
	assert.Equal(t, "Bea", got[0].Name)
	assert.Equal(t, &avatar, got[0].AvatarURL)
	assert.Equal(t, "1", got[1].PlayerID)
}

func TestAggregateStandings_noPlayers(t *testing.T) {
	got := AggregateStandings(&models.League{NumGames: 2}, nil, nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCurrentCycle(t *testing.T) {
	assert.Equal(t, 1, CurrentCycle(nil))
	assert.Equal(t, 3, CurrentCycle([]*models.Game{{CycleNumber: 1}, {CycleNumber: 3}, {CycleNumber: 2}}))
	assert.True(t, IsCycleComplete(4, 4))
	assert.True(t, IsCycleComplete(5, 4))
	assert.False(t, IsCycleComplete(3, 4))
	assert.True(t, IsCycleScorable(4, 4))
	assert.False(t, IsCycleScorable(5, 4))
	assert.False(t, IsCycleScorable(3, 4))
}
