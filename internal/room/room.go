package room

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

const (
	defaultHeartbeatInterval = 10 * time.Second
	defaultReconnectGrace    = 60 * time.Second
)

var tracer = otel.Tracer("room")

// Config tunes a room's timers. Zero values take the defaults.
type Config struct {
	HeartbeatInterval time.Duration
	ReconnectGrace    time.Duration
}

// Room represents a game room.
type Room struct {
	ID         string
	rdb        *redis.Client
	gameRepo   repository.GameRepository
	playerRepo repository.PlayerRepository

	mu            sync.Mutex
	players       []*player.Player
	incomingMoves chan *types.PlayerMove
	heartbeat     time.Duration
	grace         time.Duration
	Done          chan struct{}
	closeOnce     sync.Once
}

// NewRoom creates a new game room.
func NewRoom(id string, rdb *redis.Client, gameRepo repository.GameRepository, playerRepo repository.PlayerRepository, cfg Config) *Room {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	if cfg.ReconnectGrace <= 0 {
		cfg.ReconnectGrace = defaultReconnectGrace
	}
	return &Room{
		ID:            id,
		rdb:           rdb,
		gameRepo:      gameRepo,
		playerRepo:    playerRepo,
		players:       make([]*player.Player, 0, 2),
		incomingMoves: make(chan *types.PlayerMove, 10),
		heartbeat:     cfg.HeartbeatInterval,
		grace:         cfg.ReconnectGrace,
		Done:          make(chan struct{}),
	}
}

// Start pumps reads from the human players and runs the game loop. Players
// that stay disconnected past the grace period are sent to unregister.
func (r *Room) Start(unregister chan<- *player.Player) {
	for _, p := range r.Players() {
		if !p.IsBot {
			go r.ReadPump(p, p.Connection())
		}
	}
	go r.run(unregister)
}

// run is the main game loop for the room.
func (r *Room) run(unregister chan<- *player.Player) {
	ctx := context.Background()
	pingTicker := time.NewTicker(r.heartbeat)
	defer pingTicker.Stop()

	for {
		select {
		case <-r.Done:
			slog.InfoContext(ctx, "Room run goroutine stopping.", "room.id", r.ID)
			return

		case move := <-r.incomingMoves:
			r.HandleMessage(move.Player, move.Message)

		case <-pingTicker.C:
			for _, p := range r.Players() {
				if p.IsBot {
					continue
				}
				if p.Status() == player.StatusConnected {
					if err := p.Send(websocket.PingMessage, nil); err != nil {
						slog.WarnContext(ctx, "Failed to send ping to player, assuming disconnect", "player.id", p.ID, "error", err)
					}
					continue
				}
				if time.Since(p.LastSeen()) > r.grace {
					slog.InfoContext(ctx, "Player exceeded reconnection grace period. Removing from room.", "player.id", p.ID, "room.id", r.ID)
					select {
					case unregister <- p:
					case <-r.Done:
						return
					}
				}
			}
		}
	}
}

// Close stops the room's loop and any bot still thinking. It is safe to call
// more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.Done)
		for _, p := range r.Players() {
			if p.IsBot {
				if conn := p.Connection(); conn != nil {
					conn.Close()
				}
			}
		}
	})
}
