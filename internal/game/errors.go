package game

import "errors"

var (
	// ErrInvalidBoardState reports a malformed board: wrong length, unknown cell
	// values, or mark counts that no legal game can reach.
	ErrInvalidBoardState = errors.New("invalid board state")
	// ErrNoLegalMove reports a move request on a finished board.
	ErrNoLegalMove = errors.New("no legal move")

	ErrInvalidMark  = errors.New("invalid mark")
	ErrOutOfRange   = errors.New("cell out of range")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrGameOver     = errors.New("game already finished")
	ErrNotYourTurn  = errors.New("not player's turn")
)
