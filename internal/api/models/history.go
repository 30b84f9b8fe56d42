package models

// MatchResult is one finished game in a player's history.
type MatchResult struct {
	ID         int64  `db:"id" json:"id"`
	PlayerID   string `db:"player_id" json:"-"`
	RoomID     string `db:"room_id" json:"roomId,omitempty"`
	Mode       string `db:"mode" json:"mode,omitempty"`
	Difficulty string `db:"difficulty" json:"difficulty,omitempty"`
	Result     string `db:"result" json:"result"` // "X", "O" or "draw"
	Board      string `db:"board" json:"board,omitempty"`
	PlayedAt   int64  `db:"played_at" json:"playedAt"`
}

// Tally counts a player's finished games by result.
type Tally struct {
	Cross  int `db:"cross_wins" json:"cross"`
	Circle int `db:"circle_wins" json:"circle"`
	Draw   int `db:"draws" json:"draw"`
}

// Add counts one result label.
func (t *Tally) Add(result string) bool {
	switch result {
	case ResultCross:
		t.Cross++
	case ResultCircle:
		t.Circle++
	case ResultDraw:
		t.Draw++
	default:
		return false
	}
	return true
}

// Result labels stored in match history.
const (
	ResultCross  = "X"
	ResultCircle = "O"
	ResultDraw   = "draw"
)

// HistoryEntry is one row of the export document.
type HistoryEntry struct {
	Result string `json:"result" binding:"required,oneof=X O draw"`
}

// HistoryDocument is the export/import format: the results table plus its
// running summary.
type HistoryDocument struct {
	Results []HistoryEntry `json:"results" binding:"dive"`
	Summary Tally          `json:"summary"`
}
