package service

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/mocks"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cells(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		if r == '_' {
			out = append(out, "")
		} else {
			out = append(out, string(r))
		}
	}
	return out
}

func newTestMoveService(t *testing.T) (MoveService, *mocks.MockRandom) {
	rnd := mocks.NewMockRandom()
	svc, err := NewMoveService(bot.NewSelector(rnd), bot.Easy)
	require.NoError(t, err)
	return svc, rnd
}

func TestMoveService_Evaluate(t *testing.T) {
	svc, _ := newTestMoveService(t)

	out, err := svc.Evaluate(context.Background(), &models.EvaluateRequest{Board: cells("XOX_O__O_")})
	require.NoError(t, err)
	assert.Equal(t, game.Outcome{Result: game.Win, Winner: game.PlayerO}, out)

	_, err = svc.Evaluate(context.Background(), &models.EvaluateRequest{Board: cells("XXXX_____")})
	assert.ErrorIs(t, err, game.ErrInvalidBoardState)
}

func TestMoveService_SelectMoveHardReportsScore(t *testing.T) {
	svc, rnd := newTestMoveService(t)

	resp, err := svc.SelectMove(context.Background(), &models.MoveRequest{
		Board:      cells("XX__O____"),
		Player:     "o",
		Difficulty: "hard",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Move)
	require.NotNil(t, resp.Score)
	assert.Equal(t, bot.ScoreDraw, *resp.Score)
	assert.Equal(t, "hard", resp.Difficulty)
	assert.Empty(t, rnd.Calls)
}

func TestMoveService_SelectMoveDefaultsToEasy(t *testing.T) {
	svc, rnd := newTestMoveService(t)
	rnd.QueueIntN(3)

	resp, err := svc.SelectMove(context.Background(), &models.MoveRequest{
		Board:  cells("_________"),
		Player: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Move)
	assert.Nil(t, resp.Score)
	assert.Equal(t, "easy", resp.Difficulty)
}

func TestMoveService_SelectMoveFinishedBoard(t *testing.T) {
	svc, _ := newTestMoveService(t)

	_, err := svc.SelectMove(context.Background(), &models.MoveRequest{
		Board:      cells("XXXOO____"),
		Player:     "O",
		Difficulty: "hard",
	})
	assert.ErrorIs(t, err, game.ErrNoLegalMove)
}
