package bot

import (
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"fmt"
)

// Scores of finished boards. O (Circle) maximizes, X (Cross) minimizes.
const (
	ScoreCircleWin = 1
	ScoreCrossWin  = -1
	ScoreDraw      = 0
)

// Result is the outcome of a minimax search. Move is game.NoMove on a
// finished board.
type Result struct {
	Move  int `json:"move"`
	Score int `json:"score"`
}

// Minimax searches the whole game tree below b. maximizing means O is to
// move. Among equally scored moves the lowest index wins.
func Minimax(b game.Board, maximizing bool) Result {
	outcome := game.Evaluate(b)
	if outcome.IsTerminal() {
		return Result{Move: game.NoMove, Score: leafScore(outcome)}
	}

	mark := game.PlayerX
	if maximizing {
		mark = game.PlayerO
	}

	best := Result{Move: game.NoMove}
	for _, i := range b.EmptyCells() {
		next := b
		next[i] = mark
		score := Minimax(next, !maximizing).Score
		if best.Move == game.NoMove ||
			(maximizing && score > best.Score) ||
			(!maximizing && score < best.Score) {
			best = Result{Move: i, Score: score}
		}
	}
	return best
}

func leafScore(o game.Outcome) int {
	switch {
	case o.Result == game.Win && o.Winner == game.PlayerO:
		return ScoreCircleWin
	case o.Result == game.Win && o.Winner == game.PlayerX:
		return ScoreCrossWin
	default:
		return ScoreDraw
	}
}

// MinimaxStrategy plays the move minimax picks for the mover.
type MinimaxStrategy struct{}

func NewMinimaxStrategy() *MinimaxStrategy {
	return &MinimaxStrategy{}
}

// SelectMove implements Strategy.
func (s *MinimaxStrategy) SelectMove(board game.Board, mark game.PlayerMark) (int, error) {
	res, err := s.Search(board, mark)
	if err != nil {
		return game.NoMove, err
	}
	return res.Move, nil
}

// Search is SelectMove plus the minimax score of the chosen move.
func (s *MinimaxStrategy) Search(board game.Board, mark game.PlayerMark) (Result, error) {
	if err := checkMovable(board, mark); err != nil {
		return Result{Move: game.NoMove}, err
	}
	res := Minimax(board, mark == game.PlayerO)
	if res.Move == game.NoMove {
		return res, fmt.Errorf("%w: search found no move", game.ErrNoLegalMove)
	}
	return res, nil
}
