package room

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/events"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// resetGameForRematch stores a fresh game and tells the hubs to resend
// assignments and state.
func (r *Room) resetGameForRematch(ctx context.Context, old *game.GameStateDTO) {
	ctx, span := tracer.Start(ctx, "room.resetGameForRematch", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	params := repository.NewGameParams{
		PlayerXID:  old.PlayerXID,
		PlayerOID:  old.PlayerOID,
		Mode:       old.Mode,
		Difficulty: old.Difficulty,
	}
	if old.Mode == game.ModeBot {
		params.PlayerXID, params.PlayerOID = old.PlayerOID, old.PlayerXID
	}

	if err := r.gameRepo.Create(ctx, r.ID, params); err != nil {
		slog.ErrorContext(ctx, "failed to reset game for rematch in redis", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to reset game for rematch in redis")
		return
	}

	slog.InfoContext(ctx, "Room game reset in Redis for rematch.", "room.id", r.ID)

	err := events.Publish(ctx, r.rdb, events.RematchSuccessful, events.RematchSuccessfulPayload{RoomID: r.ID})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish rematch_successful event", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish rematch_successful event")
	}
}

// Reattach swaps a reconnecting player's new connection into the room and
// starts reading from it. It returns false if the player is not in the room.
func (r *Room) Reattach(playerID string, conn player.Connection) (*player.Player, bool) {
	_, span := tracer.Start(context.Background(), "room.Reattach", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("player.id", playerID),
	))
	defer span.End()

	p := r.Player(playerID)
	if p == nil {
		return nil, false
	}
	if old := p.Replace(conn); old != nil && old != conn {
		old.Close()
	}
	go r.ReadPump(p, conn)
	return p, true
}
