package bot

import (
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
	"ctchen222/minimax-tic-tac-toe/internal/game"
)

// RandomStrategy picks a uniformly random empty cell.
type RandomStrategy struct {
	random random.Random
}

func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// SelectMove implements Strategy.
func (s *RandomStrategy) SelectMove(board game.Board, mark game.PlayerMark) (int, error) {
	if err := checkMovable(board, mark); err != nil {
		return game.NoMove, err
	}
	available := board.EmptyCells()
	return available[s.random.IntN(len(available))], nil
}
