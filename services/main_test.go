package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/services"
	"github.com/Dosada05/leaguify/testutils"
)

var testStart = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

type event struct {
	LeagueID string
	Type     string
	Payload  interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []event
}

func (n *recordingNotifier) BroadcastToLeague(leagueID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event{LeagueID: leagueID, Type: eventType, Payload: payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, 0, len(n.events))
	for _, e := range n.events {
		types = append(types, e.Type)
	}
	return types
}

type memoryCache struct {
	mu            sync.Mutex
	entries       map[string][]models.PlayerStanding
	versions      map[string]int64
	invalidations int
	// afterVersion runs once Version has answered, outside the lock.
	afterVersion func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries:  make(map[string][]models.PlayerStanding),
		versions: make(map[string]int64),
	}
}

func (c *memoryCache) Get(_ context.Context, leagueID string) ([]models.PlayerStanding, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[leagueID]
	return s, ok, nil
}

func (c *memoryCache) Version(_ context.Context, leagueID string) (int64, error) {
	c.mu.Lock()
	v := c.versions[leagueID]
	hook := c.afterVersion
	c.afterVersion = nil
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
	return v, nil
}

func (c *memoryCache) SetIfUnchanged(_ context.Context, leagueID string, version int64, standings []models.PlayerStanding) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[leagueID] != version {
		return false, nil
	}
	c.entries[leagueID] = standings
	return true, nil
}

func (c *memoryCache) Invalidate(_ context.Context, leagueID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, leagueID)
	c.versions[leagueID]++
	c.invalidations++
	return nil
}

func (c *memoryCache) cached(leagueID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[leagueID]
	return ok
}

// env wires every service on a fresh in-memory store.
type env struct {
	store    *testutils.Store
	clock    *clock.Mock
	cache    *memoryCache
	notifier *recordingNotifier

	leagues services.LeagueService
	cycles  services.CycleService
	stats   services.StatsService
	players services.PlayerService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvOn(t, testutils.NewSQLiteStore(t))
}

// newEnvOn wires the services on store; wrap may replace repositories.
func newEnvOn(t *testing.T, store *testutils.Store, wrap ...func(*services.Repositories)) *env {
	t.Helper()

	repos := services.Repositories{
		Leagues:  store.Leagues,
		Players:  store.Players,
		Games:    store.Games,
		Outcomes: store.Outcomes,
	}
	for _, w := range wrap {
		w(&repos)
	}
	clk := clock.NewMock()
	clk.Set(testStart)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := newMemoryCache()
	n := &recordingNotifier{}

	return &env{
		store:    store,
		clock:    clk,
		cache:    c,
		notifier: n,
		leagues:  services.NewLeagueService(store.DB, repos, "/StephAvatar.png", clk, logger),
		cycles:   services.NewCycleService(store.DB, repos, c, n, clk, logger),
		stats:    services.NewStatsService(store.DB, repos, c, logger),
		players:  services.NewPlayerService(store.DB, repos, nil, c, n, logger),
	}
}

func (e *env) createLeague(t *testing.T, numGames int, names ...string) *services.LeagueDetails {
	t.Helper()
	details, err := e.leagues.CreateLeague(context.Background(), services.CreateLeagueInput{
		Name:        "Friday Night",
		NumPlayers:  len(names),
		NumGames:    numGames,
		PlayerNames: names,
	})
	require.NoError(t, err)
	return details
}

func scoresFor(players []*models.Player, scores ...int) []models.PlayerScore {
	out := make([]models.PlayerScore, len(players))
	for i, p := range players {
		out[i] = models.NewPlayerScore(p.ID, scores[i])
	}
	return out
}

func standingByName(standings []models.PlayerStanding) map[string]models.PlayerStanding {
	m := make(map[string]models.PlayerStanding, len(standings))
	for _, s := range standings {
		m[s.Name] = s
	}
	return m
}

const missingID = "6f1c9d4e-0000-4000-8000-000000000000"
