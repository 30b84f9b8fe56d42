package room

import (
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
)

// AddPlayer adds a player to the room.
func (r *Room) AddPlayer(p *player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = append(r.players, p)
}

// RemovePlayer drops the player and reports how many humans remain.
func (r *Room) RemovePlayer(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	humans := 0
	kept := r.players[:0]
	for _, p := range r.players {
		if p.ID == id {
			continue
		}
		kept = append(kept, p)
		if !p.IsBot {
			humans++
		}
	}
	r.players = kept
	return humans
}

// Players returns a snapshot of the room's players.
func (r *Room) Players() []*player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*player.Player, len(r.players))
	copy(out, r.players)
	return out
}

// Player returns the player with id, or nil.
func (r *Room) Player(id string) *player.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IncomingMoves returns the channel for incoming player moves.
func (r *Room) IncomingMoves() chan<- *types.PlayerMove {
	return r.incomingMoves
}
