package cli

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"encoding/json"
	"fmt"
	"io"
)

// Output handles formatting output based on the configured format
type Output struct {
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// EvaluateResult is printed by the evaluate command.
type EvaluateResult struct {
	Board   string       `json:"board"`
	Outcome game.Outcome `json:"outcome"`
}

// SimulationResult is printed by the simulate command.
type SimulationResult struct {
	Games int          `json:"games"`
	X     string       `json:"x"`
	O     string       `json:"o"`
	Tally models.Tally `json:"tally"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}
	o.printText(data)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case EvaluateResult:
		board, err := game.ParseBoardString(v.Board)
		if err == nil {
			fmt.Fprint(o.w, board.Grid())
		}
		fmt.Fprintln(o.w, describeOutcome(v.Outcome))
	case *models.MoveResponse:
		fmt.Fprintf(o.w, "move: %d\n", v.Move)
		if v.Score != nil {
			fmt.Fprintf(o.w, "score: %d\n", *v.Score)
		}
	case SimulationResult:
		fmt.Fprintf(o.w, "games: %d (X %s, O %s)\n", v.Games, v.X, v.O)
		fmt.Fprintf(o.w, "X wins: %d\n", v.Tally.Cross)
		fmt.Fprintf(o.w, "O wins: %d\n", v.Tally.Circle)
		fmt.Fprintf(o.w, "draws: %d\n", v.Tally.Draw)
	default:
		o.printJSON(data)
	}
}

func describeOutcome(o game.Outcome) string {
	switch o.Result {
	case game.Win:
		return fmt.Sprintf("%s wins", o.Winner)
	case game.Draw:
		return "draw"
	default:
		return "in progress"
	}
}
