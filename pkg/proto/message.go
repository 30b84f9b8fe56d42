package proto

import "ctchen222/minimax-tic-tac-toe/internal/game"

// Message types
const (
	TypeMove       = "move"
	TypeRematch    = "rematch"
	TypeAssignment = "assignment"
	TypeUpdate     = "update"
	TypeSummary    = "summary"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
// Position is a cell index 0..8 in row-major order.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=move rematch"`
	Position *int   `json:"position,omitempty" validate:"omitempty,min=0,max=8"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type    string          `json:"type" validate:"required"`
	Reason  string          `json:"reason,omitempty"`
	Board   *game.Board     `json:"board,omitempty"`
	Next    game.PlayerMark `json:"next,omitempty"`
	Winner  game.PlayerMark `json:"winner,omitempty"`
	Draw    bool            `json:"draw,omitempty"`
	Summary *Summary        `json:"summary,omitempty"`
}

// Summary is the win/draw tally of a player.
type Summary struct {
	Cross  int `json:"cross"`
	Circle int `json:"circle"`
	Draw   int `json:"draw"`
}

// PlayerAssignmentMessage informs a player of their assigned mark.
// Mark is empty in local mode where the client plays both marks.
type PlayerAssignmentMessage struct {
	Type       string          `json:"type"`
	PlayerID   string          `json:"playerId,omitempty"`
	Mark       game.PlayerMark `json:"mark"`
	Mode       game.Mode       `json:"mode"`
	Difficulty string          `json:"difficulty,omitempty"`
}

// NewUpdate builds an "update" message from a game snapshot.
func NewUpdate(state *game.GameStateDTO) *ServerToClientMessage {
	board := state.Board
	return &ServerToClientMessage{
		Type:   TypeUpdate,
		Board:  &board,
		Next:   state.CurrentTurn,
		Winner: state.Winner,
		Draw:   state.IsDraw,
	}
}
