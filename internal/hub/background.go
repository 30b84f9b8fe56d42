package hub

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"ctchen222/minimax-tic-tac-toe/internal/room"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runRoomUpdateSubscriber subscribes to the room's channel and broadcasts the
// stored state on every message until the room closes. It returns once the
// subscription is confirmed.
func (h *Hub) runRoomUpdateSubscriber(ctx context.Context, r *room.Room) error {
	channel := repository.RoomChannel(r.ID)
	pubsub := h.rdb.Subscribe(context.Background(), channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}
	slog.InfoContext(ctx, "Starting subscriber for room", "room.id", r.ID, "channel", channel)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-r.Done:
				slog.Info("Stopping subscriber for room", "room.id", r.ID)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				h.broadcastRoomUpdate(r, msg.Payload)
			}
		}
	}()
	return nil
}

func (h *Hub) broadcastRoomUpdate(r *room.Room, payload string) {
	ctx, span := tracer.Start(context.Background(), "hub.handleRoomUpdate", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("redis.payload", payload),
	))
	defer span.End()

	state, err := h.opts.GameRepo.FindByID(ctx, r.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Room subscriber could not get game state", "room.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not get game state")
		return
	}
	r.Broadcast(proto.NewUpdate(state))
}
