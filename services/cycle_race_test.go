package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/realtime"
	"github.com/Dosada05/leaguify/repositories"
	"github.com/Dosada05/leaguify/services"
	"github.com/Dosada05/leaguify/testutils"
)

// slotTakingGames plays the writer that opens a cycle first: before every batch
// after cycle 1 it occupies game 1 of that cycle in the same transaction.
type slotTakingGames struct {
	repositories.GameRepository
	taken int
}

func (r *slotTakingGames) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, leagueID string, cycle, count int) ([]*models.Game, error) {
	if cycle > 1 {
		r.taken++
		rival := &models.Game{LeagueID: leagueID, CycleNumber: cycle, GameNumber: 1}
		if err := r.GameRepository.Create(ctx, exec, rival); err != nil {
			return nil, err
		}
	}
	return r.GameRepository.CreateBatch(ctx, exec, leagueID, cycle, count)
}

var stores = []struct {
	name string
	open func(t *testing.T) *testutils.Store
}{
	{"sqlite", func(t *testing.T) *testutils.Store { return testutils.NewSQLiteStore(t) }},
	{"postgres", testutils.NewPostgresStore},
}

func TestRecordOutcomes_cycleAlreadyOpened(t *testing.T) {
	for _, st := range stores {
		t.Run(st.name, func(t *testing.T) {
			store := st.open(t)
			games := &slotTakingGames{GameRepository: store.Games}
			e := newEnvOn(t, store, func(r *services.Repositories) { r.Games = games })
			ctx := context.Background()

			league := e.createLeague(t, 1, "Ann", "Ben")
			game := league.Games[0]

			res, err := e.cycles.RecordOutcomes(ctx, game.ID, scoresFor(league.Players, 4, 2))
			require.NoError(t, err)
			assert.Equal(t, 1, games.taken)
			assert.False(t, res.Cycle.Started)
			assert.Equal(t, 1, res.Cycle.CycleNumber)
			assert.Empty(t, res.Cycle.GameIDs)

			// the submission itself is committed
			stored, err := store.Games.GetByID(ctx, nil, game.ID)
			require.NoError(t, err)
			assert.Equal(t, models.GameStatusCompleted, stored.Status)
			outcomes, err := store.Outcomes.ListByGame(ctx, nil, game.ID)
			require.NoError(t, err)
			assert.Len(t, outcomes, 2)

			// the failed batch left nothing behind
			cycle2, err := store.Games.ListByCycle(ctx, nil, league.League.ID, 2)
			require.NoError(t, err)
			assert.Empty(t, cycle2)
			assert.NotContains(t, e.notifier.types(), realtime.EventCycleStarted)
		})
	}
}

func TestStartNextCycle_cycleAlreadyOpened(t *testing.T) {
	store := testutils.NewSQLiteStore(t)
	games := &slotTakingGames{GameRepository: store.Games}
	e := newEnvOn(t, store, func(r *services.Repositories) { r.Games = games })
	ctx := context.Background()

	league := e.createLeague(t, 1, "Ann", "Ben")
	// completed without going through the cycle engine, so cycle 2 is still unopened
	_, err := testutils.NewLeagueBuilder(store, 1).Play(ctx, league.Games[0], league.Players, testStart)
	require.NoError(t, err)

	advance, err := e.cycles.StartNextCycle(ctx, league.League.ID)
	require.NoError(t, err)
	assert.False(t, advance.Started)
	assert.Equal(t, 1, advance.CycleNumber)
	assert.Zero(t, e.cache.invalidations)
}

func TestRecordOutcomes_concurrentSubmissionsOnPostgres(t *testing.T) {
	store := testutils.NewPostgresStore(t)
	e := newEnvOn(t, store)
	ctx := context.Background()

	league := e.createLeague(t, 6, "Ann", "Ben", "Cat")
	players := league.Players

	results := make([]*services.RecordResult, len(league.Games))
	g, gctx := errgroup.WithContext(ctx)
	for i, game := range league.Games {
		g.Go(func() error {
			res, err := e.cycles.RecordOutcomes(gctx, game.ID, scoresFor(players, i, 1, 0))
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())

	started := 0
	for _, res := range results {
		if res.Cycle.Started {
			started++
			assert.Equal(t, 2, res.Cycle.CycleNumber)
			assert.Len(t, res.Cycle.GameIDs, 6)
		}
	}
	assert.Equal(t, 1, started, "exactly one submission opens the next cycle")

	all, err := store.Games.ListByLeague(ctx, nil, league.League.ID)
	require.NoError(t, err)
	assert.Len(t, all, 12)
	completed, err := store.Games.CountCompleted(ctx, nil, league.League.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, completed)
}

// With one game per cycle every completed game sits in an already closed cycle,
// so in any consistent view the steady winner has as many cycle wins as game wins
// and no current cycle points.
func TestComputeStandings_consistentWhileSubmittingOnPostgres(t *testing.T) {
	store := testutils.NewPostgresStore(t)
	e := newEnvOn(t, store)
	ctx := context.Background()

	league := e.createLeague(t, 1, "Ann", "Ben")
	const rounds = 25

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		for i := 0; i < rounds; i++ {
			current, err := e.leagues.CurrentCycleGames(gctx, league.League.ID)
			if err != nil {
				return err
			}
			if _, err := e.cycles.RecordOutcomes(gctx, current.Games[0].ID, scoresFor(league.Players, 3, 1)); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-done:
				return nil
			default:
			}
			standings, err := e.stats.ComputeStandings(gctx, league.League.ID)
			if err != nil {
				return err
			}
			ann := standingByName(standings)["Ann"]
			if !assert.Equal(t, ann.GameWins, ann.CycleWins, "cycle wins must match game wins") ||
				!assert.Zero(t, ann.CurrentCyclePoints) {
				return nil
			}
		}
	})
	require.NoError(t, g.Wait())

	standings, err := e.stats.ComputeStandings(ctx, league.League.ID)
	require.NoError(t, err)
	ann := standingByName(standings)["Ann"]
	assert.Equal(t, rounds, ann.GameWins)
	assert.Equal(t, rounds, ann.CycleWins)
}
