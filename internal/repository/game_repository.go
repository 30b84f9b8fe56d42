package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxUpdateRetries bounds optimistic-lock retries when two writers race on a room.
const maxUpdateRetries = 3

// NewGameParams describes a room's players and settings.
type NewGameParams struct {
	PlayerXID  string
	PlayerOID  string
	Mode       game.Mode
	Difficulty string
}

// GameRepository defines the interface for game data operations.
type GameRepository interface {
	Create(ctx context.Context, roomID string, params NewGameParams) error
	FindByID(ctx context.Context, id string) (*game.GameStateDTO, error)
	Update(ctx context.Context, id string, mark game.PlayerMark, index int) (*game.GameStateDTO, error)
	Delete(ctx context.Context, id string) error
}

type redisGameRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameRepository creates a new Redis-based GameRepository. Rooms expire
// after ttl without a write; zero keeps them forever.
func NewGameRepository(rdb *redis.Client, ttl time.Duration) GameRepository {
	return &redisGameRepository{rdb: rdb, ttl: ttl}
}

// Create stores a fresh game for roomID, replacing any previous one. X opens.
func (r *redisGameRepository) Create(ctx context.Context, roomID string, params NewGameParams) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Create", trace.WithAttributes(
		attribute.String("room.id", roomID),
		attribute.String("game.mode", string(params.Mode)),
	))
	defer span.End()

	boardJSON, err := json.Marshal(game.Board{})
	if err != nil {
		return fmt.Errorf("failed to marshal initial board: %w", err)
	}

	key := roomKey(roomID)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		game.FieldBoard, boardJSON,
		game.FieldPlayerX, params.PlayerXID,
		game.FieldPlayerO, params.PlayerOID,
		game.FieldNextTurn, string(game.PlayerX),
		game.FieldWinner, "",
		game.FieldStatus, game.StatusInProgress,
		game.FieldMode, string(params.Mode),
		game.FieldDifficulty, params.Difficulty,
	)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game")
		return fmt.Errorf("failed to create game in redis: %w", err)
	}
	return nil
}

// FindByID retrieves the current game state from Redis.
func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*game.GameStateDTO, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("room.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, roomKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game state from redis: %w", err)
	}
	return decodeGameState(data)
}

func decodeGameState(data map[string]string) (*game.GameStateDTO, error) {
	if len(data) == 0 {
		return nil, ErrGameNotFound
	}

	var board game.Board
	if err := json.Unmarshal([]byte(data[game.FieldBoard]), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}

	outcome := game.Evaluate(board)
	return &game.GameStateDTO{
		Board:       board,
		CurrentTurn: game.PlayerMark(data[game.FieldNextTurn]),
		Winner:      outcome.Winner,
		IsDraw:      outcome.Result == game.Draw,
		Status:      data[game.FieldStatus],
		PlayerXID:   data[game.FieldPlayerX],
		PlayerOID:   data[game.FieldPlayerO],
		Mode:        game.Mode(data[game.FieldMode]),
		Difficulty:  data[game.FieldDifficulty],
	}, nil
}

// Update applies a move for mark at index. The read, the checks and the write
// run under WATCH so concurrent moves on the same room cannot interleave.
func (r *redisGameRepository) Update(ctx context.Context, id string, mark game.PlayerMark, index int) (*game.GameStateDTO, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.Update", trace.WithAttributes(
		attribute.String("room.id", id),
		attribute.String("move.mark", string(mark)),
		attribute.Int("move.index", index),
	))
	defer span.End()

	key := roomKey(id)
	var updated *game.GameStateDTO

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		state, err := decodeGameState(data)
		if err != nil {
			return err
		}

		if state.Status == game.StatusFinished || state.Outcome().IsTerminal() {
			return game.ErrGameOver
		}
		if state.CurrentTurn != mark {
			return game.ErrNotYourTurn
		}
		board, err := state.Board.With(index, mark)
		if err != nil {
			return err
		}

		boardJSON, err := json.Marshal(board)
		if err != nil {
			return fmt.Errorf("failed to marshal updated board: %w", err)
		}

		outcome := game.Evaluate(board)
		status := game.StatusInProgress
		next := mark.Opponent()
		if outcome.IsTerminal() {
			status = game.StatusFinished
			next = mark
		}

		pipe := tx.TxPipeline()
		pipe.HSet(ctx, key,
			game.FieldBoard, boardJSON,
			game.FieldNextTurn, string(next),
			game.FieldWinner, string(outcome.Winner),
			game.FieldStatus, status,
		)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}

		state.Board = board
		state.CurrentTurn = next
		state.Winner = outcome.Winner
		state.IsDraw = outcome.Result == game.Draw
		state.Status = status
		updated = state
		return nil
	}

	var err error
	for i := 0; i < maxUpdateRetries; i++ {
		err = r.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Move rejected")
		return nil, err
	}

	return updated, nil
}

// Delete removes a room's game.
func (r *redisGameRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete", trace.WithAttributes(
		attribute.String("room.id", id),
	))
	defer span.End()

	return r.rdb.Del(ctx, roomKey(id)).Err()
}
