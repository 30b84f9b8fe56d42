package game

import "fmt"

// Game is a local, in-memory match. X always opens.
type Game struct {
	Board       Board
	CurrentTurn PlayerMark
	Outcome     Outcome
	Moves       int
}

func NewGame() *Game {
	return &Game{
		CurrentTurn: PlayerX,
		Outcome:     Outcome{Result: InProgress},
	}
}

// Move places the current player's mark at index and passes the turn.
func (g *Game) Move(index int) error {
	if g.Outcome.IsTerminal() {
		return ErrGameOver
	}
	next, err := g.Board.With(index, g.CurrentTurn)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	g.Board = next
	g.Moves++
	g.Outcome = Evaluate(g.Board)
	if !g.Outcome.IsTerminal() {
		g.CurrentTurn = g.CurrentTurn.Opponent()
	}
	return nil
}

// Reset clears the board for another round.
func (g *Game) Reset() {
	*g = *NewGame()
}
