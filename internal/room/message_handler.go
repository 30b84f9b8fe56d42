package room

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/events"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/validator"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"encoding/json"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from a player. It acts as a dispatcher.
func (r *Room) HandleMessage(p *player.Player, rawMessage []byte) {
	ctx, span := tracer.Start(context.Background(), "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	if p.Status() == player.StatusDisconnected {
		slog.WarnContext(ctx, "ignoring message from disconnected player", "player.id", p.ID)
		span.SetStatus(codes.Error, "Message from disconnected player")
		return
	}

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.sendError(p, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.sendError(p, "invalid message")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		r.handleMove(ctx, p, &message)
	case proto.TypeRematch:
		r.handleRematch(ctx, p)
	}
}

// handleMove processes a player's move.
func (r *Room) handleMove(ctx context.Context, p *player.Player, message *proto.ClientToServerMessage) {
	ctx, moveSpan := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer moveSpan.End()

	if message.Position == nil {
		r.sendError(p, "move needs a position")
		return
	}
	moveSpan.SetAttributes(attribute.Int("move.index", *message.Position))

	gameState, err := r.gameRepo.FindByID(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "handleMove could not find game state for room", "room.id", r.ID, "error", err)
		moveSpan.RecordError(err)
		moveSpan.SetStatus(codes.Error, "Could not find game state")
		return
	}

	playerMark := gameState.MarkOf(p.ID)
	if playerMark == game.None {
		slog.WarnContext(ctx, "player is not part of room", "player.id", p.ID, "room.id", r.ID)
		moveSpan.SetStatus(codes.Error, "Player not part of room")
		return
	}

	updated, err := r.gameRepo.Update(ctx, r.ID, playerMark, *message.Position)
	if err != nil {
		slog.WarnContext(ctx, "invalid move from player", "player.id", p.ID, "error", err)
		moveSpan.SetAttributes(attribute.Bool("move.valid", false))
		moveSpan.RecordError(err)
		moveSpan.SetStatus(codes.Error, "Invalid move")
		if !p.IsBot {
			r.sendError(p, moveErrorReason(err))
		}
		return
	}
	moveSpan.SetAttributes(attribute.Bool("move.valid", true))

	if err := r.rdb.Publish(ctx, repository.RoomChannel(r.ID), proto.TypeUpdate).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to publish update for room", "room.id", r.ID, "error", err)
		moveSpan.RecordError(err)
		moveSpan.SetStatus(codes.Error, "Failed to publish room update")
	}

	if updated.Outcome().IsTerminal() {
		r.publishGameFinished(ctx, updated)
	}
}

func (r *Room) publishGameFinished(ctx context.Context, state *game.GameStateDTO) {
	var humans []string
	for _, p := range r.Players() {
		if !p.IsBot {
			humans = append(humans, p.ID)
		}
	}

	slog.InfoContext(ctx, "Game finished", "room.id", r.ID, "result", state.Outcome().Label())
	err := events.Publish(ctx, r.rdb, events.GameFinished, events.GameFinishedPayload{
		RoomID:     r.ID,
		PlayerIDs:  humans,
		Board:      state.Board.String(),
		Mode:       string(state.Mode),
		Difficulty: state.Difficulty,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish game_finished event", "room.id", r.ID, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func moveErrorReason(err error) string {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return "game is already over"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not your turn"
	case errors.Is(err, game.ErrCellOccupied):
		return "cell already taken"
	case errors.Is(err, game.ErrOutOfRange):
		return "position out of range"
	default:
		return "move rejected"
	}
}

// handleRematch restarts a finished game. In bot mode the marks swap so the
// computer opens every other game.
func (r *Room) handleRematch(ctx context.Context, p *player.Player) {
	ctx, span := tracer.Start(ctx, "room.handleRematch", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	gameState, err := r.gameRepo.FindByID(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "could not get game state for rematch", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not get game state for rematch")
		return
	}

	if !gameState.Outcome().IsTerminal() {
		slog.WarnContext(ctx, "Player requested rematch, but game is not over", "player.id", p.ID)
		span.SetStatus(codes.Error, "Rematch requested before game over")
		r.sendError(p, "game is not over")
		return
	}

	slog.InfoContext(ctx, "Resetting game for rematch", "player.id", p.ID, "room.id", r.ID)
	r.resetGameForRematch(ctx, gameState)
}
