package game

// GameResult classifies a board.
type GameResult string

const (
	InProgress GameResult = "in_progress"
	Win        GameResult = "win"
	Draw       GameResult = "draw"
)

// Outcome is the result of evaluating a board. Winner is set only for Win.
type Outcome struct {
	Result GameResult `json:"result"`
	Winner PlayerMark `json:"winner,omitempty"`
}

// IsTerminal reports whether the game is over.
func (o Outcome) IsTerminal() bool {
	return o.Result != InProgress
}

// Label is the short form stored in match history: "X", "O" or "draw".
func (o Outcome) Label() string {
	switch o.Result {
	case Win:
		return string(o.Winner)
	case Draw:
		return string(Draw)
	default:
		return ""
	}
}

// Evaluate classifies the board. Under alternating play two winning lines
// always share a mark, so the first winning line found decides.
func Evaluate(b Board) Outcome {
	if w := winner(b); w != None {
		return Outcome{Result: Win, Winner: w}
	}
	if b.IsFull() {
		return Outcome{Result: Draw}
	}
	return Outcome{Result: InProgress}
}

func winner(b Board) PlayerMark {
	for _, ln := range lines {
		if b[ln[0]] != None && b[ln[0]] == b[ln[1]] && b[ln[1]] == b[ln[2]] {
			return b[ln[0]]
		}
	}
	return None
}

// HasWon reports whether mark completes any line on the board.
func HasWon(b Board, mark PlayerMark) bool {
	for _, ln := range lines {
		if b[ln[0]] == mark && b[ln[1]] == mark && b[ln[2]] == mark {
			return true
		}
	}
	return false
}
