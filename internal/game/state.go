package game

// Mode is how a room's marks are controlled.
type Mode string

const (
	ModeBot   Mode = "bot"   // human against the computer
	ModeLocal Mode = "local" // both marks played from one client
)

// Status values stored with a room.
const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// Hash fields of a room in Redis.
const (
	FieldBoard      = "board"
	FieldPlayerX    = "player_x"
	FieldPlayerO    = "player_o"
	FieldNextTurn   = "next_turn"
	FieldWinner     = "winner"
	FieldStatus     = "status"
	FieldMode       = "mode"
	FieldDifficulty = "difficulty"
)

// GameStateDTO is a snapshot of a room's game as stored in Redis.
type GameStateDTO struct {
	Board       Board
	CurrentTurn PlayerMark
	Winner      PlayerMark
	IsDraw      bool
	Status      string
	PlayerXID   string
	PlayerOID   string
	Mode        Mode
	Difficulty  string
}

// Outcome evaluates the stored board.
func (s *GameStateDTO) Outcome() Outcome {
	return Evaluate(s.Board)
}

// MarkOf returns the mark played by playerID. In local mode the same player
// holds both marks, so the mark to move is returned.
func (s *GameStateDTO) MarkOf(playerID string) PlayerMark {
	isX := playerID == s.PlayerXID
	isO := playerID == s.PlayerOID
	switch {
	case isX && isO:
		return s.CurrentTurn
	case isX:
		return PlayerX
	case isO:
		return PlayerO
	default:
		return None
	}
}

// PlayerFor returns the id of the player holding mark.
func (s *GameStateDTO) PlayerFor(mark PlayerMark) string {
	switch mark {
	case PlayerX:
		return s.PlayerXID
	case PlayerO:
		return s.PlayerOID
	default:
		return ""
	}
}
