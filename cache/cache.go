// Package cache keeps computed league standings between writes.
package cache

import (
	"context"

	"github.com/Dosada05/leaguify/models"
)

// StandingsCache stores standings per league. A miss is reported with ok == false
// and a nil error.
//
// Every Invalidate bumps the league's version. A reader takes Version before it
// loads the rows and hands it back to SetIfUnchanged, which stores nothing when an
// invalidation happened in between.
type StandingsCache interface {
	Get(ctx context.Context, leagueID string) (standings []models.PlayerStanding, ok bool, err error)
	Version(ctx context.Context, leagueID string) (int64, error)
	SetIfUnchanged(ctx context.Context, leagueID string, version int64, standings []models.PlayerStanding) (stored bool, err error)
	Invalidate(ctx context.Context, leagueID string) error
}

// Nop is used when no cache backend is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]models.PlayerStanding, bool, error) { return nil, false, nil }
func (Nop) Version(context.Context, string) (int64, error)                     { return 0, nil }
func (Nop) SetIfUnchanged(context.Context, string, int64, []models.PlayerStanding) (bool, error) {
	return false, nil
}
func (Nop) Invalidate(context.Context, string) error { return nil }
