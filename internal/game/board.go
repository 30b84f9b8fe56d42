package game

import (
	"fmt"
	"strings"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
// X is Cross, O is Circle.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Board boundaries
const (
	CellCount = 9
	CellMin   = 0
	CellMax   = CellCount - 1
)

// NoMove is returned where a move index is expected but none exists.
const NoMove = -1

// Board is a 3x3 board stored row-major: index = row*3 + col.
type Board [CellCount]PlayerMark

// lines are the 8 winning index triples.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Valid reports whether m is X or O.
func (m PlayerMark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// ParseMark parses "X" or "O", case-insensitively.
func ParseMark(s string) (PlayerMark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	}
	return None, fmt.Errorf("%w: unknown player %q", ErrInvalidMark, s)
}

// EmptyCells returns the indexes of the empty cells in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, CellCount)
	for i, c := range b {
		if c == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for _, c := range b {
		if c == None {
			return false
		}
	}
	return true
}

// Count returns how many cells hold mark.
func (b Board) Count(mark PlayerMark) int {
	n := 0
	for _, c := range b {
		if c == mark {
			n++
		}
	}
	return n
}

// With returns a copy of the board with mark placed at index.
// The receiver is never modified.
func (b Board) With(index int, mark PlayerMark) (Board, error) {
	if index < CellMin || index > CellMax {
		return b, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	if b[index] != None {
		return b, fmt.Errorf("%w: %d", ErrCellOccupied, index)
	}
	b[index] = mark
	return b, nil
}

// Validate checks the cell values and the turn alternation invariant.
func (b Board) Validate() error {
	for i, c := range b {
		if c != None && !c.Valid() {
			return fmt.Errorf("%w: cell %d holds %q", ErrInvalidBoardState, i, c)
		}
	}
	diff := b.Count(PlayerX) - b.Count(PlayerO)
	if diff > 1 || diff < -1 {
		return fmt.Errorf("%w: %d X against %d O", ErrInvalidBoardState, b.Count(PlayerX), b.Count(PlayerO))
	}
	return nil
}

// String renders the board as 9 characters, '_' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for _, c := range b {
		if c == None {
			sb.WriteByte('_')
			continue
		}
		sb.WriteString(string(c))
	}
	return sb.String()
}

// Grid renders the board as three rows for terminals.
func (b Board) Grid() string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			i := r*3 + c
			cell := string(b[i])
			if cell == "" {
				cell = fmt.Sprint(i)
			}
			sb.WriteString(" " + cell + " ")
			if c < 2 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
		if r < 2 {
			sb.WriteString("---+---+---\n")
		}
	}
	return sb.String()
}

// ParseBoard builds a board from a slice of cell strings ("", "X", "O").
func ParseBoard(cells []string) (Board, error) {
	var b Board
	if len(cells) != CellCount {
		return b, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoardState, CellCount, len(cells))
	}
	for i, c := range cells {
		switch strings.ToUpper(strings.TrimSpace(c)) {
		case "":
			b[i] = None
		case "X":
			b[i] = PlayerX
		case "O":
			b[i] = PlayerO
		default:
			return Board{}, fmt.Errorf("%w: cell %d holds %q", ErrInvalidBoardState, i, c)
		}
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// ParseBoardString parses 9 characters of X, O and '_', '.' or '-' for empty.
func ParseBoardString(s string) (Board, error) {
	s = strings.TrimSpace(s)
	if len(s) != CellCount {
		return Board{}, fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoardState, CellCount, len(s))
	}
	cells := make([]string, CellCount)
	for i := 0; i < CellCount; i++ {
		switch s[i] {
		case '_', '.', '-':
			cells[i] = ""
		default:
			cells[i] = string(s[i])
		}
	}
	return ParseBoard(cells)
}

// Cells returns the board as a slice of strings, the wire form used by clients.
func (b Board) Cells() []string {
	cells := make([]string, CellCount)
	for i, c := range b {
		cells[i] = string(c)
	}
	return cells
}
