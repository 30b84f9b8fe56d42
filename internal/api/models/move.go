package models

// EvaluateRequest asks for the outcome of a board. Cells are "X", "O" or "".
type EvaluateRequest struct {
	Board []string `json:"board" binding:"required,len=9,dive,cell"`
}

// MoveRequest asks the computer for a move.
type MoveRequest struct {
	Board      []string `json:"board" binding:"required,len=9,dive,cell"`
	Player     string   `json:"player" binding:"required,mark"`
	Difficulty string   `json:"difficulty" binding:"omitempty,difficulty"`
}

// MoveResponse carries the chosen cell. Score is the guaranteed minimax value
// and is only reported for hard moves.
type MoveResponse struct {
	Move       int    `json:"move"`
	Difficulty string `json:"difficulty"`
	Score      *int   `json:"score,omitempty"`
}

// DifficultyRequest changes the stored difficulty preference.
type DifficultyRequest struct {
	Difficulty string `json:"difficulty" binding:"required,difficulty"`
}
