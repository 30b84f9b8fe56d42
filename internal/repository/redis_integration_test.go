//go:build integration

package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestGameRepository_RealRedis(t *testing.T) {
	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	repo := NewGameRepository(rdb, time.Minute)
	require.NoError(t, repo.Create(ctx, "room-it", NewGameParams{PlayerXID: "a", PlayerOID: "b", Mode: game.ModeBot}))

	// Both goroutines race for the same cell; exactly one may win it.
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := repo.Update(ctx, "room-it", game.PlayerX, 4)
			errs <- err
		}()
	}
	var ok int
	for i := 0; i < 2; i++ {
		if err := <-errs; err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)

	state, err := repo.FindByID(ctx, "room-it")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Board.Count(game.PlayerX))
	assert.Equal(t, game.PlayerO, state.CurrentTurn)
}
