package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func createRoom(t *testing.T, repo GameRepository, mode game.Mode) {
	t.Helper()
	err := repo.Create(context.Background(), "room-1", NewGameParams{
		PlayerXID:  "alice",
		PlayerOID:  "bot-1",
		Mode:       mode,
		Difficulty: "hard",
	})
	require.NoError(t, err)
}

func TestGameRepository_CreateAndFind(t *testing.T) {
	mr, rdb := newTestRedis(t)
	repo := NewGameRepository(rdb, time.Hour)
	createRoom(t, repo, game.ModeBot)

	state, err := repo.FindByID(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Equal(t, game.Board{}, state.Board)
	assert.Equal(t, game.PlayerX, state.CurrentTurn)
	assert.Equal(t, game.StatusInProgress, state.Status)
	assert.Equal(t, "alice", state.PlayerXID)
	assert.Equal(t, "bot-1", state.PlayerOID)
	assert.Equal(t, game.ModeBot, state.Mode)
	assert.Equal(t, "hard", state.Difficulty)
	assert.False(t, state.IsDraw)

	assert.Equal(t, time.Hour, mr.TTL("room:room-1"))
}

func TestGameRepository_FindMissing(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewGameRepository(rdb, 0)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameRepository_Update(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	repo := NewGameRepository(rdb, 0)
	createRoom(t, repo, game.ModeBot)

	state, err := repo.Update(ctx, "room-1", game.PlayerX, 4)
	require.NoError(t, err)
	assert.Equal(t, game.PlayerX, state.Board[4])
	assert.Equal(t, game.PlayerO, state.CurrentTurn)

	_, err = repo.Update(ctx, "room-1", game.PlayerX, 0)
	assert.ErrorIs(t, err, game.ErrNotYourTurn)

	_, err = repo.Update(ctx, "room-1", game.PlayerO, 4)
	assert.ErrorIs(t, err, game.ErrCellOccupied)

	_, err = repo.Update(ctx, "room-1", game.PlayerO, 9)
	assert.ErrorIs(t, err, game.ErrOutOfRange)

	stored, err := repo.FindByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, state.Board, stored.Board, "rejected moves must not change the board")
}

func TestGameRepository_UpdateToWin(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	repo := NewGameRepository(rdb, 0)
	createRoom(t, repo, game.ModeLocal)

	var state *game.GameStateDTO
	var err error
	moves := []struct {
		mark  game.PlayerMark
		index int
	}{
		{game.PlayerX, 0}, {game.PlayerO, 3}, {game.PlayerX, 1}, {game.PlayerO, 4}, {game.PlayerX, 2},
	}
	for _, m := range moves {
		state, err = repo.Update(ctx, "room-1", m.mark, m.index)
		require.NoError(t, err)
	}

	assert.Equal(t, game.PlayerX, state.Winner)
	assert.Equal(t, game.StatusFinished, state.Status)

	_, err = repo.Update(ctx, "room-1", game.PlayerO, 5)
	assert.ErrorIs(t, err, game.ErrGameOver)
	_, err = repo.Update(ctx, "room-1", game.PlayerX, 5)
	assert.ErrorIs(t, err, game.ErrGameOver)
}

func TestGameRepository_CreateResetsFinishedGame(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	repo := NewGameRepository(rdb, 0)
	createRoom(t, repo, game.ModeBot)

	_, err := repo.Update(ctx, "room-1", game.PlayerX, 0)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, "room-1", NewGameParams{PlayerXID: "bot-1", PlayerOID: "alice", Mode: game.ModeBot}))
	state, err := repo.FindByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, game.Board{}, state.Board)
	assert.Equal(t, "bot-1", state.PlayerXID)
	assert.Equal(t, "alice", state.PlayerOID)
}

func TestGameRepository_Delete(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	repo := NewGameRepository(rdb, 0)
	createRoom(t, repo, game.ModeBot)

	require.NoError(t, repo.Delete(ctx, "room-1"))
	assert.False(t, mr.Exists("room:room-1"))
}

func TestRoomChannel(t *testing.T) {
	assert.Equal(t, "channel:room:abc", RoomChannel("abc"))
}
