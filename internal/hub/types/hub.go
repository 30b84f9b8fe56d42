package types

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
)

// RegistrationRequest represents a request to register a player.
type RegistrationRequest struct {
	Player     *player.Player
	PlayerID   string          // Used for reconnection
	Mode       game.Mode       // "bot" or "local"
	Difficulty string          // "easy", "hard"
	Mark       game.PlayerMark // the human's mark in bot mode
	Ctx        context.Context
}

// PlayerMove is a raw client message queued for a room.
type PlayerMove struct {
	Player  *player.Player
	Message []byte
}
