package room

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/events"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Broadcast sends a message to all connected players in the room.
func (r *Room) Broadcast(message any) {
	r.SendTo(r.Players(), message)
}

// SendTo sends a message to the given players that are connected.
func (r *Room) SendTo(players []*player.Player, message any) {
	ctx, span := tracer.Start(context.Background(), "room.Broadcast", trace.WithAttributes(
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	for _, p := range players {
		if p.Status() != player.StatusConnected {
			continue
		}
		if err := p.Send(websocket.TextMessage, data); err != nil {
			slog.ErrorContext(ctx, "error writing message to player", "player.id", p.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Error writing message to player")
		}
	}
}

func (r *Room) sendError(p *player.Player, reason string) {
	r.SendTo([]*player.Player{p}, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: reason})
}

// ReadPump pumps messages from conn to the room's incomingMoves channel. When
// conn fails the player is marked disconnected, unless a reconnect has already
// replaced conn.
func (r *Room) ReadPump(p *player.Player, conn player.Connection) {
	ctx, span := tracer.Start(context.Background(), "room.ReadPump", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	defer func() {
		conn.Close()
		if p.Connection() != conn {
			return
		}
		p.SetStatus(player.StatusDisconnected)

		disconnectCtx, disconnectSpan := tracer.Start(ctx, "room.ReadPump.disconnectHandler", trace.WithAttributes(
			attribute.String("player.id", p.ID),
			attribute.String("room.id", r.ID),
		))
		defer disconnectSpan.End()

		if err := r.playerRepo.UpdateConnectionStatus(disconnectCtx, p.ID, player.StatusDisconnected); err != nil {
			slog.ErrorContext(disconnectCtx, "Failed to set player status to disconnected", "player.id", p.ID, "error", err)
			disconnectSpan.RecordError(err)
			disconnectSpan.SetStatus(codes.Error, "Failed to set player status to disconnected")
		}

		err := events.Publish(disconnectCtx, r.rdb, events.PlayerDisconnected, events.PlayerDisconnectedPayload{
			RoomID:   r.ID,
			PlayerID: p.ID,
		})
		if err != nil {
			slog.ErrorContext(disconnectCtx, "Failed to publish player_disconnected event", "player.id", p.ID, "error", err)
			disconnectSpan.RecordError(err)
			disconnectSpan.SetStatus(codes.Error, "Failed to publish player_disconnected event")
		}
		slog.InfoContext(disconnectCtx, "Player disconnected. Updated status and published event.", "player.id", p.ID)
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.WarnContext(ctx, "Player connection error", "player.id", p.ID, "room.id", r.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Player connection error")
			return
		}
		select {
		case r.incomingMoves <- &types.PlayerMove{Player: p, Message: msg}:
		case <-r.Done:
			return
		}
	}
}
