package bot

import (
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"errors"
	"fmt"
	"strings"
)

// Difficulty selects the strategy the computer plays with.
type Difficulty string

const (
	Easy Difficulty = "easy"
	Hard Difficulty = "hard"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// ParseDifficulty accepts "easy" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, nil
	case Hard:
		return Hard, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

// ValidDifficulties returns all difficulty names.
func ValidDifficulties() []string {
	return []string{string(Easy), string(Hard)}
}

// Strategy chooses a move for mark on board.
type Strategy interface {
	SelectMove(board game.Board, mark game.PlayerMark) (int, error)
}

// Selector maps each difficulty to its strategy.
type Selector struct {
	strategies map[Difficulty]Strategy
}

// NewSelector builds a selector whose easy strategy draws from rnd.
func NewSelector(rnd random.Random) *Selector {
	return &Selector{
		strategies: map[Difficulty]Strategy{
			Easy: NewRandomStrategy(rnd),
			Hard: NewMinimaxStrategy(),
		},
	}
}

// Strategy returns the strategy for d.
func (s *Selector) Strategy(d Difficulty) (Strategy, error) {
	st, ok := s.strategies[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDifficulty, d)
	}
	return st, nil
}

// SelectMove dispatches to the strategy for d.
func (s *Selector) SelectMove(board game.Board, mark game.PlayerMark, d Difficulty) (int, error) {
	st, err := s.Strategy(d)
	if err != nil {
		return game.NoMove, err
	}
	return st.SelectMove(board, mark)
}

var defaultSelector = NewSelector(random.New())

// SelectMove returns the move for mark on board at difficulty d.
func SelectMove(board game.Board, mark game.PlayerMark, d Difficulty) (int, error) {
	return defaultSelector.SelectMove(board, mark, d)
}

// checkMovable rejects malformed boards, unknown marks and finished games.
func checkMovable(board game.Board, mark game.PlayerMark) error {
	if !mark.Valid() {
		return fmt.Errorf("%w: %q", game.ErrInvalidMark, mark)
	}
	if err := board.Validate(); err != nil {
		return err
	}
	if outcome := game.Evaluate(board); outcome.IsTerminal() {
		return fmt.Errorf("%w: game is %s", game.ErrNoLegalMove, outcome.Result)
	}
	return nil
}
