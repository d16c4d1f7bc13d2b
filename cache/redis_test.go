package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Dosada05/leaguify/models"
)

func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	return addr
}

func TestRedisStandingsCache(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisStandingsCache(client, time.Minute)

	_, ok, err := c.Get(ctx, "league-1")
	require.NoError(t, err)
	assert.False(t, ok)

	avatar := "/StephAvatar.png"
	standings := []models.PlayerStanding{
		{PlayerID: "p1", Name: "Steph", AvatarURL: &avatar, CycleWins: 2, GameWins: 7, CurrentCyclePoints: 31},
		{PlayerID: "p2", Name: "Klay", GameWins: 3},
	}
	version, err := c.Version(ctx, "league-1")
	require.NoError(t, err)
	stored, err := c.SetIfUnchanged(ctx, "league-1", version, standings)
	require.NoError(t, err)
	require.True(t, stored)

	got, ok, err := c.Get(ctx, "league-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, standings, got)

	require.NoError(t, c.Invalidate(ctx, "league-1"))
	_, ok, err = c.Get(ctx, "league-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStandingsCache_invalidatedWhileComputing(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	client, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisStandingsCache(client, time.Minute)
	standings := []models.PlayerStanding{{PlayerID: "p1", Name: "Steph", GameWins: 1}}

	before, err := c.Version(ctx, "league-2")
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx, "league-2"))

	after, err := c.Version(ctx, "league-2")
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	stored, err := c.SetIfUnchanged(ctx, "league-2", before, standings)
	require.NoError(t, err)
	assert.False(t, stored, "standings read before an invalidation must not be cached")
	_, ok, err := c.Get(ctx, "league-2")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err = c.SetIfUnchanged(ctx, "league-2", after, standings)
	require.NoError(t, err)
	assert.True(t, stored)
	_, ok, err = c.Get(ctx, "league-2")
	require.NoError(t, err)
	assert.True(t, ok)

	// other leagues keep their own version
	other, err := c.Version(ctx, "league-3")
	require.NoError(t, err)
	assert.Zero(t, other)
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c StandingsCache = Nop{}
	stored, err := c.SetIfUnchanged(ctx, "l", 0, []models.PlayerStanding{{PlayerID: "p"}})
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, "l")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "l"))
}
