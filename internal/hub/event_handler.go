package hub

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/events"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runEventSubscriber listens on the global events channel. The subscription
// result is sent on ready before any event is handled.
func (h *Hub) runEventSubscriber(ctx context.Context, ready chan<- error) {
	pubsub := h.rdb.Subscribe(ctx, events.EventsChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		ready <- fmt.Errorf("failed to subscribe to %s: %w", events.EventsChannel, err)
		return
	}
	slog.InfoContext(ctx, "Event subscriber started", "channel", events.EventsChannel)
	ready <- nil

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleEvent(ctx, msg.Payload)
		}
	}
}

func (h *Hub) handleEvent(ctx context.Context, raw string) {
	ctx, span := tracer.Start(ctx, "hub.handleEvent", trace.WithAttributes(
		attribute.String("event.channel", events.EventsChannel),
	))
	defer span.End()

	var event events.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		slog.ErrorContext(ctx, "Could not unmarshal global event", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not unmarshal global event")
		return
	}
	span.SetAttributes(attribute.String("event.type", event.Type))

	var err error
	switch event.Type {
	case events.GameFinished:
		var payload events.GameFinishedPayload
		if err = json.Unmarshal(event.Payload, &payload); err == nil {
			h.handleGameFinished(ctx, &payload)
		}
	case events.PlayerDisconnected:
		var payload events.PlayerDisconnectedPayload
		if err = json.Unmarshal(event.Payload, &payload); err == nil {
			slog.InfoContext(ctx, "Received player_disconnected event", "player.id", payload.PlayerID, "room.id", payload.RoomID)
		}
	case events.PlayerReconnected:
		var payload events.PlayerReconnectedPayload
		if err = json.Unmarshal(event.Payload, &payload); err == nil {
			slog.InfoContext(ctx, "Received player_reconnected event", "player.id", payload.PlayerID, "room.id", payload.RoomID)
		}
	case events.RematchSuccessful:
		var payload events.RematchSuccessfulPayload
		if err = json.Unmarshal(event.Payload, &payload); err == nil {
			h.handleRematchSuccessful(ctx, &payload)
		}
	default:
		slog.WarnContext(ctx, "Ignoring unknown event", "event.type", event.Type)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Could not unmarshal event payload", "event.type", event.Type, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not unmarshal event payload")
	}
}

// handleGameFinished records the result for every player held by this hub and
// pushes their new summary.
func (h *Hub) handleGameFinished(ctx context.Context, payload *events.GameFinishedPayload) {
	ctx, span := tracer.Start(ctx, "hub.handleGameFinished", trace.WithAttributes(
		attribute.String("room.id", payload.RoomID),
	))
	defer span.End()

	if h.opts.History == nil {
		return
	}

	board, err := game.ParseBoardString(payload.Board)
	if err != nil {
		slog.ErrorContext(ctx, "Invalid board in game_finished event", "room.id", payload.RoomID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid board in event")
		return
	}
	state := &game.GameStateDTO{
		Board:      board,
		Mode:       game.Mode(payload.Mode),
		Difficulty: payload.Difficulty,
	}

	for _, id := range payload.PlayerIDs {
		p := h.localPlayer(id)
		if p == nil {
			continue
		}
		tally, err := h.opts.History.RecordGame(ctx, id, payload.RoomID, state)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to record game", "player.id", id, "room.id", payload.RoomID, "error", err)
			span.RecordError(err)
			continue
		}
		slog.InfoContext(ctx, "Game recorded", "player.id", id, "room.id", payload.RoomID, "result", state.Outcome().Label())
		h.send(ctx, p, &proto.ServerToClientMessage{
			Type:    proto.TypeSummary,
			Summary: &proto.Summary{Cross: tally.Cross, Circle: tally.Circle, Draw: tally.Draw},
		})
	}
}

func (h *Hub) handleRematchSuccessful(ctx context.Context, payload *events.RematchSuccessfulPayload) {
	ctx, span := tracer.Start(ctx, "hub.handleRematchSuccessful", trace.WithAttributes(
		attribute.String("room.id", payload.RoomID),
	))
	defer span.End()

	slog.InfoContext(ctx, "Received rematch_successful event", "room.id", payload.RoomID)

	if r := h.getRoom(payload.RoomID); r != nil {
		h.sendInitialRoomState(ctx, r, r.Players())
	}
}
