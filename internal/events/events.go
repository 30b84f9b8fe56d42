package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	GameFinished       = "game_finished"
	PlayerDisconnected = "player_disconnected"
	PlayerReconnected  = "player_reconnected"
	RematchSuccessful  = "rematch_successful"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// GameFinishedPayload is the payload for the "game_finished" event. It carries
// the final position so subscribers need not read a room that a rematch may
// already have reset.
type GameFinishedPayload struct {
	RoomID     string   `json:"room_id"`
	PlayerIDs  []string `json:"player_ids"` // humans only
	Board      string   `json:"board"`
	Mode       string   `json:"mode"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// PlayerDisconnectedPayload is the payload for the "player_disconnected" event.
type PlayerDisconnectedPayload struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

// PlayerReconnectedPayload is the payload for the "player_reconnected" event.
type PlayerReconnectedPayload struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

// RematchSuccessfulPayload is the payload for the "rematch_successful" event.
type RematchSuccessfulPayload struct {
	RoomID string `json:"room_id"`
}

// Publish wraps payload in an Event and publishes it on EventsChannel.
func Publish(ctx context.Context, rdb *redis.Client, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	event, err := json.Marshal(Event{Type: eventType, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := rdb.Publish(ctx, EventsChannel, event).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}
