package testutils

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/scoring"
)

var playerNames = []string{
	"Steph", "Klay", "Draymond", "Andre", "Kevon", "Jordan", "Gary", "Jonathan",
	"Moses", "Brandin", "Trayce", "Pat", "Buddy", "Quinten", "Lindy", "Gui",
}

// LeagueBuilder creates leagues with random rosters and plays random games.
// The same seed always yields the same data.
type LeagueBuilder struct {
	store *Store
	rnd   *rand.Rand
	// MaxScore bounds generated scores, inclusive.
	MaxScore int
}

func NewLeagueBuilder(store *Store, seed int64) *LeagueBuilder {
	return &LeagueBuilder{
		store:    store,
		rnd:      rand.New(rand.NewSource(seed)),
		MaxScore: 20,
	}
}

// League creates a league with numPlayers players and the pending games of cycle 1.
func (b *LeagueBuilder) League(ctx context.Context, numPlayers, numGames int) (*models.League, []*models.Player, error) {
	league := &models.League{
		Name:       fmt.Sprintf("League %d", b.rnd.Intn(10000)),
		NumPlayers: numPlayers,
		NumGames:   numGames,
		CreatedAt:  time.Now(),
	}
	if err := b.store.Leagues.Create(ctx, nil, league); err != nil {
		return nil, nil, fmt.Errorf("create league: %w", err)
	}

	players := make([]*models.Player, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		name := playerNames[b.rnd.Intn(len(playerNames))]
		players = append(players, &models.Player{
			LeagueID: league.ID,
			Name:     fmt.Sprintf("%s %d", name, i+1),
		})
	}
	if err := b.store.Players.CreateBatch(ctx, nil, players); err != nil {
		return nil, nil, fmt.Errorf("create players: %w", err)
	}

	if _, err := b.store.Games.CreateBatch(ctx, nil, league.ID, 1, numGames); err != nil {
		return nil, nil, fmt.Errorf("create games: %w", err)
	}
	return league, players, nil
}

// Scores draws one random score per player.
func (b *LeagueBuilder) Scores(players []*models.Player) []models.PlayerScore {
	scores := make([]models.PlayerScore, 0, len(players))
	for _, p := range players {
		scores = append(scores, models.NewPlayerScore(p.ID, b.rnd.Intn(b.MaxScore+1)))
	}
	return scores
}

// Play stores random outcomes for a game and marks it completed, bypassing the
// cycle engine. Use it to seed history.
func (b *LeagueBuilder) Play(ctx context.Context, game *models.Game, players []*models.Player, playedAt time.Time) ([]*models.Outcome, error) {
	outcomes, err := scoring.Resolve(players, b.Scores(players))
	if err != nil {
		return nil, err
	}
	if err := b.store.Outcomes.Replace(ctx, nil, game.ID, outcomes); err != nil {
		return nil, err
	}
	if err := b.store.Games.MarkCompleted(ctx, nil, game.ID, playedAt); err != nil {
		return nil, err
	}
	return outcomes, nil
}
