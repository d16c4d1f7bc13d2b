package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Dosada05/leaguify/cache"
	"github.com/Dosada05/leaguify/models"
	"github.com/Dosada05/leaguify/realtime"
	"github.com/Dosada05/leaguify/storage"
)

const avatarKeyPrefix = "avatars/"

type PlayerService interface {
	// UpdatePlayers applies all updates in one transaction; every player must belong to the league.
	UpdatePlayers(ctx context.Context, leagueID string, updates []PlayerUpdate) ([]*models.Player, error)
	UpdatePlayerName(ctx context.Context, playerID, name string) (*models.Player, error)
	UploadAvatar(ctx context.Context, leagueID, playerID, contentType string, r io.Reader) (*models.Player, error)
	GetVictories(ctx context.Context, leagueID, playerID string) (int, error)
}

// PlayerUpdate renames a player and, when AvatarURL is set, replaces the avatar URL.
type PlayerUpdate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type playerService struct {
	db       *sql.DB
	repos    Repositories
	uploader storage.FileUploader
	events   leagueEvents
	logger   *slog.Logger
}

// NewPlayerService builds the service; uploader may be nil when avatar storage is not configured.
func NewPlayerService(db *sql.DB, repos Repositories, uploader storage.FileUploader, standings cache.StandingsCache, notifier Notifier, logger *slog.Logger) PlayerService {
	return &playerService{
		db:       db,
		repos:    repos,
		uploader: uploader,
		events:   newLeagueEvents(standings, notifier, logger),
		logger:   logger,
	}
}

func (s *playerService) UpdatePlayers(ctx context.Context, leagueID string, updates []PlayerUpdate) ([]*models.Player, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, validationError("at least one player update is required")
	}
	for i, u := range updates {
		if err := requireID("player", u.ID); err != nil {
			return nil, err
		}
		if strings.TrimSpace(u.Name) == "" {
			return nil, validationError("player name #%d is empty", i+1)
		}
	}

	var players []*models.Player
	err := runInTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if _, err := s.repos.Leagues.GetByID(ctx, tx, leagueID); err != nil {
			return translateRepoError(err)
		}

		for _, u := range updates {
			p, err := s.repos.Players.GetByID(ctx, tx, u.ID)
			if err != nil {
				return translateRepoError(err)
			}
			if p.LeagueID != leagueID {
				return validationError("player %s does not belong to league %s", u.ID, leagueID)
			}
			p.Name = strings.TrimSpace(u.Name)
			if u.AvatarURL != nil {
				p.AvatarURL = u.AvatarURL
			}
			if err := s.repos.Players.Update(ctx, tx, p); err != nil {
				return translateRepoError(err)
			}
		}

		var err error
		players, err = s.repos.Players.ListByLeague(ctx, tx, leagueID)
		if err != nil {
			return fmt.Errorf("failed to list players of league %s: %w", leagueID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.standingsChanged(ctx, leagueID)
	s.events.publish(leagueID, realtime.EventPlayersUpdated, players)
	return players, nil
}

func (s *playerService) UpdatePlayerName(ctx context.Context, playerID, name string) (*models.Player, error) {
	if err := requireID("player", playerID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("player name is required")
	}

	p, err := s.repos.Players.GetByID(ctx, nil, playerID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	p.Name = name
	if err := s.repos.Players.Update(ctx, nil, p); err != nil {
		return nil, translateRepoError(err)
	}

	s.events.standingsChanged(ctx, p.LeagueID)
	s.events.publish(p.LeagueID, realtime.EventPlayersUpdated, []*models.Player{p})
	return p, nil
}

func (s *playerService) UploadAvatar(ctx context.Context, leagueID, playerID, contentType string, r io.Reader) (*models.Player, error) {
	if err := requireID("league", leagueID); err != nil {
		return nil, err
	}
	if err := requireID("player", playerID); err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	if !storage.IsAllowedAvatarType(contentType) {
		return nil, fmt.Errorf("%w: %w (got %q)", ErrValidationFailed, storage.ErrUnsupportedImageType, contentType)
	}

	p, err := s.playerOfLeague(ctx, leagueID, playerID)
	if err != nil {
		return nil, err
	}

	processed, err := storage.ProcessAvatar(r)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrUnsupportedImageType) {
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
		return nil, fmt.Errorf("failed to process avatar: %w", err)
	}

	key := avatarKeyPrefix + uuid.NewString() + ".jpg"
	uploaded, err := s.uploader.Upload(ctx, key, storage.AvatarContentType, bytes.NewReader(processed))
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar of player %s: %w", playerID, err)
	}

	url := uploaded.Location
	p.AvatarURL = &url
	if err := s.repos.Players.Update(ctx, nil, p); err != nil {
		// объект в бакете больше никому не нужен
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to delete orphaned avatar", slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, translateRepoError(err)
	}

	s.logger.Info("avatar uploaded", slog.String("player_id", playerID), slog.String("key", key))
	s.events.standingsChanged(ctx, leagueID)
	s.events.publish(leagueID, realtime.EventPlayersUpdated, []*models.Player{p})
	return p, nil
}

func (s *playerService) GetVictories(ctx context.Context, leagueID, playerID string) (int, error) {
	if err := requireID("league", leagueID); err != nil {
		return 0, err
	}
	if err := requireID("player", playerID); err != nil {
		return 0, err
	}
	if _, err := s.playerOfLeague(ctx, leagueID, playerID); err != nil {
		return 0, err
	}

	wins, err := s.repos.Players.CountWins(ctx, nil, leagueID, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to count wins of player %s: %w", playerID, err)
	}
	return wins, nil
}

// playerOfLeague reports a player of another league as not found.
func (s *playerService) playerOfLeague(ctx context.Context, leagueID, playerID string) (*models.Player, error) {
	if _, err := s.repos.Leagues.GetByID(ctx, nil, leagueID); err != nil {
		return nil, translateRepoError(err)
	}
	p, err := s.repos.Players.GetByID(ctx, nil, playerID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if p.LeagueID != leagueID {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}
