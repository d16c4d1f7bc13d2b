package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Dosada05/leaguify/models"
)

const (
	standingsKeyPrefix = "standings_"
	versionKeyPrefix   = "standings_version_"
)

var errVersionChanged = errors.New("standings version changed")

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

type RedisStandingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStandingsCache stores entries for ttl; zero ttl keeps them until invalidated.
func NewRedisStandingsCache(client *redis.Client, ttl time.Duration) *RedisStandingsCache {
	return &RedisStandingsCache{client: client, ttl: ttl}
}

func standingsKey(leagueID string) string {
	return standingsKeyPrefix + leagueID
}

func versionKey(leagueID string) string {
	return versionKeyPrefix + leagueID
}

func (c *RedisStandingsCache) Get(ctx context.Context, leagueID string) ([]models.PlayerStanding, bool, error) {
	val, err := c.client.Get(ctx, standingsKey(leagueID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var standings []models.PlayerStanding
	if err := json.Unmarshal(val, &standings); err != nil {
		return nil, false, fmt.Errorf("decode cached standings for league %s: %w", leagueID, err)
	}
	return standings, true, nil
}

func (c *RedisStandingsCache) Version(ctx context.Context, leagueID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(leagueID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// SetIfUnchanged writes under WATCH on the version key, so an Invalidate racing
// with it either lands first (nothing stored) or aborts the transaction.
func (c *RedisStandingsCache) SetIfUnchanged(ctx context.Context, leagueID string, version int64, standings []models.PlayerStanding) (bool, error) {
	val, err := json.Marshal(standings)
	if err != nil {
		return false, err
	}

	vKey := versionKey(leagueID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errVersionChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, standingsKey(leagueID), val, c.ttl)
			return nil
		})
		return err
	}, vKey)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errVersionChanged), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, err
	}
}

func (c *RedisStandingsCache) Invalidate(ctx context.Context, leagueID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(leagueID))
		pipe.Del(ctx, standingsKey(leagueID))
		return nil
	})
	return err
}
