package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository")

// Player lifecycle values stored in the "status" field.
const (
	PlayerWaiting = "waiting"
	PlayerInGame  = "in_game"
	PlayerOffline = "offline"
)

// PlayerSession is what Redis knows about a player's current room.
type PlayerSession struct {
	RoomID           string
	ServerID         string
	Status           string
	ConnectionStatus player.PlayerStatus
}

// PlayerRepository defines the interface for player data operations.
type PlayerRepository interface {
	FindForReconnection(ctx context.Context, id string) (roomID string, status player.PlayerStatus, err error)
	Find(ctx context.Context, id string) (*PlayerSession, error)
	UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error
	SetInitialState(ctx context.Context, id, serverID string) error
	UpdateForMatch(ctx context.Context, id, roomID string) error
	SetOffline(ctx context.Context, id string) error
}

type redisPlayerRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPlayerRepository creates a new Redis-based PlayerRepository.
func NewPlayerRepository(rdb *redis.Client, ttl time.Duration) PlayerRepository {
	return &redisPlayerRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

// FindForReconnection retrieves the necessary data for a player to reconnect.
func (r *redisPlayerRepository) FindForReconnection(ctx context.Context, id string) (string, player.PlayerStatus, error) {
	ctx, span := tracer.Start(ctx, "PlayerRepository.FindForReconnection")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return "", "", err
	}
	return data["room_id"], player.PlayerStatus(data["connection_status"]), nil
}

// Find returns the stored session, or nil if the player is unknown.
func (r *redisPlayerRepository) Find(ctx context.Context, id string) (*PlayerSession, error) {
	ctx, span := tracer.Start(ctx, "PlayerRepository.Find")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &PlayerSession{
		RoomID:           data["room_id"],
		ServerID:         data["server_id"],
		Status:           data["status"],
		ConnectionStatus: player.PlayerStatus(data["connection_status"]),
	}, nil
}

// UpdateConnectionStatus updates only the connection status of a player.
func (r *redisPlayerRepository) UpdateConnectionStatus(ctx context.Context, id string, status player.PlayerStatus) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.UpdateConnectionStatus")
	defer span.End()

	return r.hset(ctx, id, "connection_status", string(status))
}

// SetInitialState sets the initial data for a newly registered player.
func (r *redisPlayerRepository) SetInitialState(ctx context.Context, id, serverID string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.SetInitialState")
	defer span.End()

	return r.hset(ctx, id,
		"server_id", serverID,
		"status", PlayerWaiting,
		"connection_status", string(player.StatusConnected),
	)
}

// UpdateForMatch updates a player's state when they are put into a room.
func (r *redisPlayerRepository) UpdateForMatch(ctx context.Context, id, roomID string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.UpdateForMatch")
	defer span.End()

	return r.hset(ctx, id,
		"room_id", roomID,
		"status", PlayerInGame,
		"connection_status", string(player.StatusConnected),
	)
}

// SetOffline marks a player as offline and forgets their room.
func (r *redisPlayerRepository) SetOffline(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "PlayerRepository.SetOffline")
	defer span.End()

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, playerKey(id), "status", PlayerOffline, "connection_status", string(player.StatusDisconnected))
	pipe.HDel(ctx, playerKey(id), "room_id")
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisPlayerRepository) hset(ctx context.Context, id string, values ...interface{}) error {
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, playerKey(id), values...)
	if r.ttl > 0 {
		pipe.Expire(ctx, playerKey(id), r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}
