package hub

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/events"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleRegistration resumes the player's unfinished game if there is one,
// otherwise starts a new room in the requested mode.
func (h *Hub) handleRegistration(ctx context.Context, req *types.RegistrationRequest) {
	ctx, span := tracer.Start(ctx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", req.PlayerID),
		attribute.String("game.mode", string(req.Mode)),
	))
	defer span.End()

	roomID, _, err := h.opts.PlayerRepo.FindForReconnection(ctx, req.PlayerID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to look up player for reconnection", "player.id", req.PlayerID, "error", err)
		span.RecordError(err)
	}
	if roomID != "" {
		state, err := h.opts.GameRepo.FindByID(ctx, roomID)
		if err == nil && state.Status != game.StatusFinished && state.MarkOf(req.PlayerID) != game.None {
			h.handleReconnectionRegistration(ctx, req.Player, roomID, state)
			return
		}
		h.detach(ctx, req.PlayerID)
	}

	if err := h.opts.PlayerRepo.SetInitialState(ctx, req.PlayerID, h.serverID); err != nil {
		slog.ErrorContext(ctx, "Failed to set initial player state", "player.id", req.PlayerID, "error", err)
		span.RecordError(err)
	}

	switch req.Mode {
	case game.ModeLocal:
		h.registerLocalGame(ctx, req)
	default:
		h.registerBotGame(ctx, req)
	}
}

// detach drops a player from a finished room they are leaving.
func (h *Hub) detach(ctx context.Context, playerID string) {
	if old := h.localPlayer(playerID); old != nil {
		// Swap the connection out first so its read pump exits quietly.
		if conn := old.Replace(nil); conn != nil {
			conn.Close()
		}
		h.handleUnregister(ctx, old)
	}
}

func (h *Hub) handleReconnectionRegistration(ctx context.Context, p *player.Player, roomID string, state *game.GameStateDTO) {
	ctx, span := tracer.Start(ctx, "hub.handleReconnectionRegistration", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", roomID),
	))
	defer span.End()

	if existingRoom := h.getRoom(roomID); existingRoom != nil {
		if existing, ok := existingRoom.Reattach(p.ID, p.Connection()); ok {
			slog.InfoContext(ctx, "Reconnected player added back to existing local room", "player.id", p.ID, "room.id", roomID)
			h.markConnected(ctx, existing, roomID)
			h.sendInitialRoomState(ctx, existingRoom, []*player.Player{existing})
			h.sendSummary(ctx, existing)
			return
		}
		existingRoom.Close()
		h.mu.Lock()
		delete(h.localRooms, roomID)
		h.mu.Unlock()
	}

	// The room lives only in Redis, for example after a restart. Rebuild it.
	slog.InfoContext(ctx, "Creating new local room handler for reconnected player", "player.id", p.ID, "room.id", roomID)
	newRoom := h.newRoom(roomID)
	newRoom.AddPlayer(p)
	if state.Mode == game.ModeBot {
		botID := state.PlayerXID
		if botID == p.ID {
			botID = state.PlayerOID
		}
		botPlayer, err := h.newBot(botID, state.Difficulty, newRoom)
		if err != nil {
			slog.ErrorContext(ctx, "Cannot restore bot", "room.id", roomID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Cannot restore bot")
			h.reject(ctx, p, "could not resume game")
			return
		}
		newRoom.AddPlayer(botPlayer)
	}

	if err := h.startRoom(ctx, newRoom); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start room")
		h.reject(ctx, p, "could not resume game")
		return
	}
	h.markConnected(ctx, p, roomID)
	h.sendInitialRoomState(ctx, newRoom, newRoom.Players())
	h.sendSummary(ctx, p)
}

func (h *Hub) markConnected(ctx context.Context, p *player.Player, roomID string) {
	h.mu.Lock()
	h.localPlayers[p.ID] = p
	h.playerRooms[p.ID] = roomID
	h.mu.Unlock()

	if err := h.opts.PlayerRepo.UpdateForMatch(ctx, p.ID, roomID); err != nil {
		slog.ErrorContext(ctx, "Failed to update player state", "player.id", p.ID, "error", err)
	}
	err := events.Publish(ctx, h.rdb, events.PlayerReconnected, events.PlayerReconnectedPayload{RoomID: roomID, PlayerID: p.ID})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish player_reconnected event", "player.id", p.ID, "error", err)
	}
}

func (h *Hub) registerBotGame(ctx context.Context, req *types.RegistrationRequest) {
	ctx, span := tracer.Start(ctx, "hub.registerBotGame", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.String("bot.difficulty", req.Difficulty),
	))
	defer span.End()

	difficulty := h.opts.DefaultDifficulty
	if req.Difficulty != "" {
		d, err := bot.ParseDifficulty(req.Difficulty)
		if err != nil {
			h.reject(ctx, req.Player, err.Error())
			return
		}
		difficulty = d
	}

	roomID := uuid.New().String()
	newRoom := h.newRoom(roomID)
	botPlayer, err := h.newBot("", string(difficulty), newRoom)
	if err != nil {
		span.RecordError(err)
		h.reject(ctx, req.Player, err.Error())
		return
	}

	params := repository.NewGameParams{
		PlayerXID:  req.Player.ID,
		PlayerOID:  botPlayer.ID,
		Mode:       game.ModeBot,
		Difficulty: string(difficulty),
	}
	if req.Mark == game.PlayerO {
		params.PlayerXID, params.PlayerOID = params.PlayerOID, params.PlayerXID
	}

	slog.InfoContext(ctx, "Creating bot match", "player.id", req.Player.ID, "bot.difficulty", difficulty, "room.id", roomID)
	newRoom.AddPlayer(req.Player)
	newRoom.AddPlayer(botPlayer)
	h.createAndStartRoom(ctx, newRoom, req.Player, params)
}

func (h *Hub) registerLocalGame(ctx context.Context, req *types.RegistrationRequest) {
	ctx, span := tracer.Start(ctx, "hub.registerLocalGame", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
	))
	defer span.End()

	roomID := uuid.New().String()
	newRoom := h.newRoom(roomID)
	newRoom.AddPlayer(req.Player)

	slog.InfoContext(ctx, "Creating local match", "player.id", req.Player.ID, "room.id", roomID)
	h.createAndStartRoom(ctx, newRoom, req.Player, repository.NewGameParams{
		PlayerXID: req.Player.ID,
		PlayerOID: req.Player.ID,
		Mode:      game.ModeLocal,
	})
}

// createAndStartRoom stores the new game, starts the room and greets the human.
func (h *Hub) createAndStartRoom(ctx context.Context, r *room.Room, human *player.Player, params repository.NewGameParams) {
	ctx, span := tracer.Start(ctx, "hub.createAndStartRoom", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if err := h.opts.GameRepo.Create(ctx, r.ID, params); err != nil {
		slog.ErrorContext(ctx, "Failed to create new game in Redis", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game in Redis")
		r.Close()
		h.reject(ctx, human, "could not create game")
		return
	}

	if err := h.startRoom(ctx, r); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start room")
		h.reject(ctx, human, "could not create game")
		return
	}

	h.mu.Lock()
	h.localPlayers[human.ID] = human
	h.playerRooms[human.ID] = r.ID
	h.mu.Unlock()
	if err := h.opts.PlayerRepo.UpdateForMatch(ctx, human.ID, r.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to update player state for match", "player.id", human.ID, "error", err)
		span.RecordError(err)
	}

	h.sendInitialRoomState(ctx, r, r.Players())
	h.sendSummary(ctx, human)
}

func (h *Hub) newRoom(roomID string) *room.Room {
	return room.NewRoom(roomID, h.rdb, h.opts.GameRepo, h.opts.PlayerRepo, h.opts.Room)
}

// newBot builds a bot for r. An empty id generates one.
func (h *Hub) newBot(id, difficulty string, r *room.Room) (*player.Player, error) {
	d, err := bot.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	strategy, err := h.opts.Selector.Strategy(d)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return bot.NewBotPlayer(strategy, r.IncomingMoves(), h.opts.BotThinkDelay), nil
	}
	return bot.NewBotPlayerWithID(id, strategy, r.IncomingMoves(), h.opts.BotThinkDelay), nil
}

// startRoom subscribes to the room's updates, registers it and starts its loops.
func (h *Hub) startRoom(ctx context.Context, r *room.Room) error {
	if err := h.runRoomUpdateSubscriber(ctx, r); err != nil {
		slog.ErrorContext(ctx, "Failed to subscribe to room updates", "room.id", r.ID, "error", err)
		r.Close()
		return err
	}
	h.mu.Lock()
	h.localRooms[r.ID] = r
	h.mu.Unlock()
	r.Start(h.unregister)
	return nil
}

// reject tells the client why it cannot play and closes the connection.
func (h *Hub) reject(ctx context.Context, p *player.Player, reason string) {
	slog.WarnContext(ctx, "Rejecting player", "player.id", p.ID, "reason", reason)
	h.send(ctx, p, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason})
	if conn := p.Connection(); conn != nil {
		conn.Close()
	}
}
