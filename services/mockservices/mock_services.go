package mockservices

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/services"
)

type LeagueService struct {
	mock.Mock
}

var _ services.LeagueService = (*LeagueService)(nil)

func (m *LeagueService) CreateLeague(ctx context.Context, input services.CreateLeagueInput) (*services.LeagueDetails, error) {
	args := m.Called(ctx, input)

	var d *services.LeagueDetails
	if args.Get(0) != nil {
		d = args.Get(0).(*services.LeagueDetails)
	}
	return d, args.Error(1)
}

func (m *LeagueService) ListLeagues(ctx context.Context) ([]*models.League, error) {
	args := m.Called(ctx)

	var res []*models.League
	if args.Get(0) != nil {
		res = args.Get(0).([]*models.League)
	}
	return res, args.Error(1)
}

func (m *LeagueService) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	args := m.Called(ctx, leagueID)

	var l *models.League
	if args.Get(0) != nil {
		l = args.Get(0).(*models.League)
	}
	return l, args.Error(1)
}

func (m *LeagueService) ListPlayers(ctx context.Context, leagueID string) ([]*models.Player, error) {
	args := m.Called(ctx, leagueID)

	var res []*models.Player
	if args.Get(0) != nil {
		res = args.Get(0).([]*models.Player)
	}
	return res, args.Error(1)
}

func (m *LeagueService) ListGames(ctx context.Context, leagueID string) ([]*models.Game, error) {
	args := m.Called(ctx, leagueID)

	var res []*models.Game
	if args.Get(0) != nil {
		res = args.Get(0).([]*models.Game)
	}
	return res, args.Error(1)
}

func (m *LeagueService) CurrentCycleGames(ctx context.Context, leagueID string) (*services.CycleGames, error) {
	args := m.Called(ctx, leagueID)

	var c *services.CycleGames
	if args.Get(0) != nil {
		c = args.Get(0).(*services.CycleGames)
	}
	return c, args.Error(1)
}

func (m *LeagueService) GameOutcomes(ctx context.Context, gameID string) ([]*models.Outcome, error) {
	args := m.Called(ctx, gameID)

	var res []*models.Outcome
	if args.Get(0) != nil {
		res = args.Get(0).([]*models.Outcome)
	}
	return res, args.Error(1)
}

type CycleService struct {
	mock.Mock
}

var _ services.CycleService = (*CycleService)(nil)

func (m *CycleService) CurrentCycle(ctx context.Context, leagueID string) (int, error) {
	args := m.Called(ctx, leagueID)
	return args.Int(0), args.Error(1)
}

func (m *CycleService) IsCycleComplete(ctx context.Context, leagueID string, cycle int) (bool, error) {
	args := m.Called(ctx, leagueID, cycle)
	return args.Bool(0), args.Error(1)
}

func (m *CycleService) OpenNextCycle(ctx context.Context, leagueID string) (*services.CycleAdvance, error) {
	args := m.Called(ctx, leagueID)

	var a *services.CycleAdvance
	if args.Get(0) != nil {
		a = args.Get(0).(*services.CycleAdvance)
	}
	return a, args.Error(1)
}

func (m *CycleService) StartNextCycle(ctx context.Context, leagueID string) (*services.CycleAdvance, error) {
	args := m.Called(ctx, leagueID)

	var a *services.CycleAdvance
	if args.Get(0) != nil {
		a = args.Get(0).(*services.CycleAdvance)
	}
	return a, args.Error(1)
}

func (m *CycleService) RecordOutcomes(ctx context.Context, gameID string, scores []models.PlayerScore) (*services.RecordResult, error) {
	args := m.Called(ctx, gameID, scores)

	var r *services.RecordResult
	if args.Get(0) != nil {
		r = args.Get(0).(*services.RecordResult)
	}
	return r, args.Error(1)
}

func (m *CycleService) AddGameToCurrentCycle(ctx context.Context, leagueID string) (*models.Game, error) {
	args := m.Called(ctx, leagueID)

	var g *models.Game
	if args.Get(0) != nil {
		g = args.Get(0).(*models.Game)
	}
	return g, args.Error(1)
}

type StatsService struct {
	mock.Mock
}

var _ services.StatsService = (*StatsService)(nil)

func (m *StatsService) ComputeStandings(ctx context.Context, leagueID string) ([]models.PlayerStanding, error) {
	args := m.Called(ctx, leagueID)

	var res []models.PlayerStanding
	if args.Get(0) != nil {
		res = args.Get(0).([]models.PlayerStanding)
	}
	return res, args.Error(1)
}

type PlayerService struct {
	mock.Mock
}

var _ services.PlayerService = (*PlayerService)(nil)

func (m *PlayerService) UpdatePlayers(ctx context.Context, leagueID string, updates []services.PlayerUpdate) ([]*models.Player, error) {
	args := m.Called(ctx, leagueID, updates)

	var res []*models.Player
	if args.Get(0) != nil {
		res = args.Get(0).([]*models.Player)
	}
	return res, args.Error(1)
}

func (m *PlayerService) UpdatePlayerName(ctx context.Context, playerID, name string) (*models.Player, error) {
	args := m.Called(ctx, playerID, name)

	var p *models.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*models.Player)
	}
	return p, args.Error(1)
}

func (m *PlayerService) UploadAvatar(ctx context.Context, leagueID, playerID, contentType string, r io.Reader) (*models.Player, error) {
	args := m.Called(ctx, leagueID, playerID, contentType, r)

	var p *models.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*models.Player)
	}
	return p, args.Error(1)
}

func (m *PlayerService) GetVictories(ctx context.Context, leagueID, playerID string) (int, error) {
	args := m.Called(ctx, leagueID, playerID)
	return args.Int(0), args.Error(1)
}
