package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/scoring"
)

type LeagueService interface {
	CreateLeague(ctx context.Context, input CreateLeagueInput) (*LeagueDetails, error)
	ListLeagues(ctx context.Context) ([]*models.League, error)
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
	ListPlayers(ctx context.Context, leagueID string) ([]*models.Player, error)
	ListGames(ctx context.Context, leagueID string) ([]*models.Game, error)
	CurrentCycleGames(ctx context.Context, leagueID string) (*CycleGames, error)
	GameOutcomes(ctx context.Context, gameID string) ([]*models.Outcome, error)
}

type CreateLeagueInput struct {
	Name        string   `json:"name"`
	NumPlayers  int      `json:"num_players"`
	NumGames    int      `json:"num_games"`
	PlayerNames []string `json:"player_names"`
}

type LeagueDetails struct {
	League  *models.League   `json:"league"`
	Players []*models.Player `json:"players"`
	Games   []*models.Game   `json:"games"`
}

type CycleGames struct {
	CycleNumber int            `json:"cycle_number"`
	Games       []*models.Game `json:"games"`
}

type leagueService struct {
	db            *sql.DB
	repos         Repositories
	defaultAvatar string
	clock         clock.Clock
	logger        *slog.Logger
}

func NewLeagueService(db *sql.DB, repos Repositories, defaultAvatar string, clk clock.Clock, logger *slog.Logger) LeagueService {
	return &leagueService{
		db:            db,
		repos:         repos,
		defaultAvatar: defaultAvatar,
		clock:         clk,
		logger:        logger,
	}
}

func (in CreateLeagueInput) validate() ([]string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationError("league name is required")
	}
	if in.NumPlayers < 2 {
		return nil, validationError("a league needs at least 2 players, got %d", in.NumPlayers)
	}
	if in.NumGames < 1 {
		return nil, validationError("a cycle needs at least 1 game, got %d", in.NumGames)
	}
	if len(in.PlayerNames) != in.NumPlayers {
		return nil, validationError("expected %d player names, got %d", in.NumPlayers, len(in.PlayerNames))
	}

	names := make([]string, 0, len(in.PlayerNames))
	for i, name := range in.PlayerNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, validationError("player name #%d is empty", i+1)
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *leagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (*LeagueDetails, error) {
	names, err := input.validate()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	details := &LeagueDetails{
		League: &models.League{
			Name:       strings.TrimSpace(input.Name),
			NumPlayers: input.NumPlayers,
			NumGames:   input.NumGames,
			CreatedAt:  now,
		},
	}

	err = runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.repos.Leagues.Create(ctx, tx, details.League); err != nil {
			return fmt.Errorf("failed to create league: %w", err)
		}

		players := make([]*models.Player, 0, len(names))
		for _, name := range names {
			p := &models.Player{LeagueID: details.League.ID, Name: name, CreatedAt: now}
			if s.defaultAvatar != "" {
				avatar := s.defaultAvatar
				p.AvatarURL = &avatar
			}
			players = append(players, p)
		}
		if err := s.repos.Players.CreateBatch(ctx, tx, players); err != nil {
			return fmt.Errorf("failed to create players: %w", err)
		}

		games, err := s.repos.Games.CreateBatch(ctx, tx, details.League.ID, 1, details.League.NumGames)
		if err != nil {
			return fmt.Errorf("failed to create games of cycle 1: %w", err)
		}

		details.Players = players
		details.Games = games
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("league created",
		slog.String("league_id", details.League.ID),
		slog.Int("players", details.League.NumPlayers),
		slog.Int("games_per_cycle", details.League.NumGames),
	)
	return details, nil
}

func (s *leagueService) ListLeagues(ctx context.Context) ([]*models.League, error) {
	leagues, err := s.repos.Leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}

func (s *leagueService) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}
	league, err := s.repos.Leagues.GetByID(ctx, nil, leagueID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return league, nil
}

func (s *leagueService) ListPlayers(ctx context.Context, leagueID string) ([]*models.Player, error) {
	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	players, err := s.repos.Players.ListByLeague(ctx, nil, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of league %s: %w", leagueID, err)
	}
	return players, nil
}

func (s *leagueService) ListGames(ctx context.Context, leagueID string) ([]*models.Game, error) {
	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	games, err := s.repos.Games.ListByLeague(ctx, nil, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of league %s: %w", leagueID, err)
	}
	return games, nil
}

func (s *leagueService) CurrentCycleGames(ctx context.Context, leagueID string) (*CycleGames, error) {
	if _, err := s.GetLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	maxCycle, err := s.repos.Games.MaxCycleNumber(ctx, nil, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max cycle of league %s: %w", leagueID, err)
	}
	current := scoring.EffectiveCycle(maxCycle)

	games, err := s.repos.Games.ListByCycle(ctx, nil, leagueID, current)
	if err != nil {
		return nil, fmt.Errorf("failed to list games of league %s cycle %d: %w", leagueID, current, err)
	}
	return &CycleGames{CycleNumber: current, Games: games}, nil
}

func (s *leagueService) GameOutcomes(ctx context.Context, gameID string) ([]*models.Outcome, error) {
	if err := requireID("game", gameID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Games.GetByID(ctx, nil, gameID); err != nil {
		return nil, translateRepoError(err)
	}
	outcomes, err := s.repos.Outcomes.ListByGame(ctx, nil, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes of game %s: %w", gameID, err)
	}
	return outcomes, nil
}
