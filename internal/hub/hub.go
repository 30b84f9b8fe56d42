package hub

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/random"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

// Options wires a Hub to its stores and tunes its rooms.
type Options struct {
	Redis             *redis.Client
	GameRepo          repository.GameRepository
	PlayerRepo        repository.PlayerRepository
	History           service.HistoryService
	Selector          *bot.Selector
	DefaultDifficulty bot.Difficulty
	BotThinkDelay     time.Duration
	Room              room.Config
}

// Hub manages the rooms and players connected to this server.
type Hub struct {
	serverID string
	opts     Options
	rdb      *redis.Client

	mu           sync.RWMutex
	localRooms   map[string]*room.Room
	localPlayers map[string]*player.Player
	playerRooms  map[string]string

	register   chan *types.RegistrationRequest
	unregister chan *player.Player
}

// NewHub creates a new hub.
func NewHub(opts Options) *Hub {
	if opts.Selector == nil {
		opts.Selector = bot.NewSelector(random.New())
	}
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = bot.Easy
	}
	return &Hub{
		serverID:     uuid.New().String(),
		opts:         opts,
		rdb:          opts.Redis,
		localRooms:   make(map[string]*room.Room),
		localPlayers: make(map[string]*player.Player),
		playerRooms:  make(map[string]string),
		register:     make(chan *types.RegistrationRequest),
		unregister:   make(chan *player.Player),
	}
}

// Run processes registrations until ctx is cancelled. It fails without
// serving anything when the events channel cannot be subscribed, since
// finished games would otherwise never reach the history.
func (h *Hub) Run(ctx context.Context) error {
	ready := make(chan error, 1)
	go h.runEventSubscriber(ctx, ready)
	if err := <-ready; err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case req := <-h.register:
			reqCtx := req.Ctx
			if reqCtx == nil {
				reqCtx = ctx
			}
			// Detach from the HTTP request, which ends once the socket is upgraded.
			reqCtx = trace.ContextWithSpanContext(ctx, trace.SpanContextFromContext(reqCtx))
			h.handleRegistration(reqCtx, req)

		case p := <-h.unregister:
			h.handleUnregister(ctx, p)
		}
	}
}

func (h *Hub) handleUnregister(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "hub.handleUnregister", trace.WithAttributes(
		attribute.String("player.id", p.ID),
	))
	defer span.End()

	h.mu.Lock()
	if h.localPlayers[p.ID] != p {
		h.mu.Unlock()
		return
	}
	delete(h.localPlayers, p.ID)
	roomID := h.playerRooms[p.ID]
	delete(h.playerRooms, p.ID)
	r := h.localRooms[roomID]
	h.mu.Unlock()

	if err := h.opts.PlayerRepo.SetOffline(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark player offline", "player.id", p.ID, "error", err)
		span.RecordError(err)
	}

	if r != nil && r.RemovePlayer(p.ID) == 0 {
		h.closeRoom(ctx, r)
	}
	slog.InfoContext(ctx, "Player unregistered", "player.id", p.ID, "room.id", roomID)
}

// closeRoom stops a room with no humans left and drops its game.
func (h *Hub) closeRoom(ctx context.Context, r *room.Room) {
	h.mu.Lock()
	delete(h.localRooms, r.ID)
	h.mu.Unlock()

	r.Close()
	if err := h.opts.GameRepo.Delete(ctx, r.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete game", "room.id", r.ID, "error", err)
	}
	slog.InfoContext(ctx, "Room closed", "room.id", r.ID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	rooms := make([]*room.Room, 0, len(h.localRooms))
	for _, r := range h.localRooms {
		rooms = append(rooms, r)
	}
	h.mu.Unlock()
	for _, r := range rooms {
		r.Close()
	}
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Unregister returns the unregister channel.
func (h *Hub) Unregister() chan<- *player.Player {
	return h.unregister
}

func (h *Hub) getRoom(id string) *room.Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.localRooms[id]
}

func (h *Hub) localPlayer(id string) *player.Player {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.localPlayers[id]
}
