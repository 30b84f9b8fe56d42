package hub

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// sendInitialRoomState sends each player their assignment followed by the
// current board.
func (h *Hub) sendInitialRoomState(ctx context.Context, room *room.Room, players []*player.Player) {
	ctx, span := tracer.Start(ctx, "hub.sendInitialRoomState", trace.WithAttributes(
		attribute.String("room.id", room.ID),
		attribute.Int("players.count", len(players)),
	))
	defer span.End()

	slog.InfoContext(ctx, "Sending initial room state", "room.id", room.ID, "players.count", len(players))

	state, err := h.opts.GameRepo.FindByID(ctx, room.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Could not get initial game state", "room.id", room.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not get initial game state")
		return
	}

	for _, p := range players {
		mark := state.MarkOf(p.ID)
		if mark == game.None {
			continue
		}
		if state.Mode == game.ModeLocal {
			// One client plays both marks.
			mark = game.None
		}
		h.send(ctx, p, &proto.PlayerAssignmentMessage{
			Type:       proto.TypeAssignment,
			PlayerID:   p.ID,
			Mark:       mark,
			Mode:       state.Mode,
			Difficulty: state.Difficulty,
		})
	}

	room.SendTo(players, proto.NewUpdate(state))
}

// sendSummary sends the player's current tally.
func (h *Hub) sendSummary(ctx context.Context, p *player.Player) {
	if h.opts.History == nil || p.IsBot {
		return
	}
	tally, err := h.opts.History.Summary(ctx, p.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Could not load summary", "player.id", p.ID, "error", err)
		return
	}
	h.send(ctx, p, &proto.ServerToClientMessage{
		Type:    proto.TypeSummary,
		Summary: &proto.Summary{Cross: tally.Cross, Circle: tally.Circle, Draw: tally.Draw},
	})
}

func (h *Hub) send(ctx context.Context, p *player.Player, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "Error marshalling message", "player.id", p.ID, "error", err)
		return
	}
	if err := p.Send(websocket.TextMessage, data); err != nil {
		slog.ErrorContext(ctx, "Error sending message to player", "player.id", p.ID, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
