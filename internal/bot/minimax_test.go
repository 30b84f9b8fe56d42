package bot

import (
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	X = game.PlayerX
	O = game.PlayerO
	E = game.None
)

func TestMinimax(t *testing.T) {
	tests := []struct {
		name       string
		board      game.Board
		maximizing bool
		wantMove   int
		wantScore  int
	}{
		{
			name: "O blocks the open row",
			board: game.Board{
				X, X, E,
				E, O, E,
				E, E, E,
			},
			maximizing: true,
			wantMove:   2,
			wantScore:  ScoreDraw,
		},
		{
			name:       "empty board takes the first cell and draws",
			board:      game.Board{},
			maximizing: true,
			wantMove:   0,
			wantScore:  ScoreDraw,
		},
		{
			name: "winning beats blocking",
			board: game.Board{
				O, O, E,
				X, X, E,
				E, E, E,
			},
			maximizing: true,
			wantMove:   2,
			wantScore:  ScoreCircleWin,
		},
		{
			name: "lowest index among forced wins",
			board: game.Board{
				O, O, E,
				X, X, E,
				E, E, E,
			},
			maximizing: false,
			wantMove:   2,
			wantScore:  ScoreCrossWin,
		},
		{
			name: "last free cell draws",
			board: game.Board{
				X, O, X,
				X, O, O,
				O, X, E,
			},
			maximizing: false,
			wantMove:   8,
			wantScore:  ScoreDraw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Minimax(tt.board, tt.maximizing)
			assert.Equal(t, tt.wantMove, got.Move, "move")
			assert.Equal(t, tt.wantScore, got.Score, "score")
		})
	}
}

func TestMinimax_TerminalBoardIsLeaf(t *testing.T) {
	tests := []struct {
		name      string
		board     game.Board
		wantScore int
	}{
		{"circle win", game.Board{O, O, O, X, X, E, X, E, E}, ScoreCircleWin},
		{"cross win", game.Board{X, X, X, O, O, E, E, E, E}, ScoreCrossWin},
		{"draw", game.Board{X, O, X, X, O, O, O, X, X}, ScoreDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, maximizing := range []bool{true, false} {
				got := Minimax(tt.board, maximizing)
				assert.Equal(t, game.NoMove, got.Move)
				assert.Equal(t, tt.wantScore, got.Score)
			}
		})
	}
}

func TestMinimax_DoesNotModifyBoard(t *testing.T) {
	board := game.Board{X, E, E, E, O, E, E, E, E}
	before := board
	Minimax(board, false)
	assert.Equal(t, before, board)
}

func TestSelectMove_TerminalBoard(t *testing.T) {
	boards := []game.Board{
		{X, X, X, O, O, E, E, E, E},
		{X, O, X, X, O, O, O, X, X},
	}
	for _, b := range boards {
		for _, d := range []Difficulty{Easy, Hard} {
			move, err := SelectMove(b, O, d)
			require.ErrorIs(t, err, game.ErrNoLegalMove, "board %s difficulty %s", b, d)
			assert.Equal(t, game.NoMove, move)
		}
	}
}

func TestSelectMove_InvalidInput(t *testing.T) {
	_, err := SelectMove(game.Board{X, X, X, X}, O, Hard)
	assert.ErrorIs(t, err, game.ErrInvalidBoardState)

	_, err = SelectMove(game.Board{}, game.PlayerMark("Z"), Hard)
	assert.ErrorIs(t, err, game.ErrInvalidMark)

	_, err = SelectMove(game.Board{}, X, Difficulty("medium"))
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func playOut(t *testing.T, sel *Selector, xd, od Difficulty, first game.PlayerMark) game.Outcome {
	t.Helper()
	var board game.Board
	mark := first
	for {
		outcome := game.Evaluate(board)
		if outcome.IsTerminal() {
			return outcome
		}
		d := xd
		if mark == O {
			d = od
		}
		move, err := sel.SelectMove(board, mark, d)
		require.NoError(t, err)
		board, err = board.With(move, mark)
		require.NoError(t, err)
		mark = mark.Opponent()
	}
}

func TestHardAgainstHard_AlwaysDraws(t *testing.T) {
	sel := NewSelector(random.NewSeeded(1))
	for _, first := range []game.PlayerMark{X, O} {
		outcome := playOut(t, sel, Hard, Hard, first)
		assert.Equal(t, game.Draw, outcome.Result, "first mover %s", first)
	}
}

func TestHardAgainstRandom_NeverLoses(t *testing.T) {
	sel := NewSelector(random.NewSeeded(42))

	var wins, draws int
	for i := 0; i < 60; i++ {
		outcome := playOut(t, sel, Easy, Hard, X)
		require.NotEqual(t, X, outcome.Winner, "hard O lost game %d", i)
		if outcome.Winner == O {
			wins++
		} else {
			draws++
		}
	}
	for i := 0; i < 8; i++ {
		outcome := playOut(t, sel, Hard, Easy, X)
		require.NotEqual(t, O, outcome.Winner, "hard X lost game %d", i)
	}

	assert.Positive(t, wins, "hard should punish a random mover")
	assert.Equal(t, 60, wins+draws)
}

// After the chosen move, the opponent's best reply leaves the mover with the
// same score the search promised.
func TestMinimax_MoveKeepsGuaranteedScore(t *testing.T) {
	checked := 0
	var walk func(b game.Board, mark game.PlayerMark)
	walk = func(b game.Board, mark game.PlayerMark) {
		if game.Evaluate(b).IsTerminal() {
			return
		}
		if len(b.EmptyCells()) <= 5 {
			maximizing := mark == O
			res := Minimax(b, maximizing)
			next, err := b.With(res.Move, mark)
			require.NoError(t, err)
			after := Minimax(next, !maximizing)
			if maximizing {
				require.GreaterOrEqual(t, after.Score, res.Score, "board %s", b)
			} else {
				require.LessOrEqual(t, after.Score, res.Score, "board %s", b)
			}
			checked++
			return
		}
		for _, i := range b.EmptyCells() {
			next, _ := b.With(i, mark)
			walk(next, mark.Opponent())
		}
	}
	walk(game.Board{}, X)
	assert.Positive(t, checked)
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	d, err = ParseDifficulty("easy")
	require.NoError(t, err)
	assert.Equal(t, Easy, d)

	_, err = ParseDifficulty("medium")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)

	assert.Equal(t, []string{"easy", "hard"}, ValidDifficulties())
}
