package repository

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// HistoryRepository stores finished games and per-player tallies.
type HistoryRepository interface {
	Record(ctx context.Context, result *models.MatchResult) (models.Tally, error)
	List(ctx context.Context, playerID string, limit int) ([]models.MatchResult, error)
	Tally(ctx context.Context, playerID string) (models.Tally, error)
	Reset(ctx context.Context, playerID string) error
	Replace(ctx context.Context, playerID string, results []models.MatchResult, tally models.Tally) error
}

type sqliteHistoryRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewHistoryRepository creates a new SQLite-based HistoryRepository.
func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &sqliteHistoryRepository{db: db, now: time.Now}
}

const upsertTally = `
INSERT INTO tallies (player_id, cross_wins, circle_wins, draws) VALUES (?, ?, ?, ?)
ON CONFLICT (player_id) DO UPDATE SET
	cross_wins = cross_wins + excluded.cross_wins,
	circle_wins = circle_wins + excluded.circle_wins,
	draws = draws + excluded.draws`

// Record inserts a finished game and bumps the player's tally in one
// transaction, returning the updated tally.
func (r *sqliteHistoryRepository) Record(ctx context.Context, result *models.MatchResult) (models.Tally, error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Record")
	defer span.End()

	var delta models.Tally
	if !delta.Add(result.Result) {
		return models.Tally{}, fmt.Errorf("unknown result %q", result.Result)
	}
	if result.PlayedAt == 0 {
		result.PlayedAt = r.now().Unix()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO match_results (player_id, room_id, mode, difficulty, result, board, played_at)
		VALUES (:player_id, :room_id, :mode, :difficulty, :result, :board, :played_at)`, result)
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to insert match result: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		result.ID = id
	}

	if _, err := tx.ExecContext(ctx, upsertTally, result.PlayerID, delta.Cross, delta.Circle, delta.Draw); err != nil {
		return models.Tally{}, fmt.Errorf("failed to update tally: %w", err)
	}

	tally, err := getTally(ctx, tx, result.PlayerID)
	if err != nil {
		return models.Tally{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Tally{}, fmt.Errorf("failed to commit match result: %w", err)
	}
	return tally, nil
}

// List returns the player's games in the order they were played. A positive
// limit keeps only the most recent ones.
func (r *sqliteHistoryRepository) List(ctx context.Context, playerID string, limit int) ([]models.MatchResult, error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.List")
	defer span.End()

	query := `SELECT id, player_id, room_id, mode, difficulty, result, board, played_at
		FROM match_results WHERE player_id = ? ORDER BY id`
	args := []interface{}{playerID}
	if limit > 0 {
		query = `SELECT * FROM (
			SELECT id, player_id, room_id, mode, difficulty, result, board, played_at
			FROM match_results WHERE player_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id`
		args = append(args, limit)
	}

	results := []models.MatchResult{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list match results: %w", err)
	}
	return results, nil
}

// Tally returns the player's tally; unknown players have all zeros.
func (r *sqliteHistoryRepository) Tally(ctx context.Context, playerID string) (models.Tally, error) {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Tally")
	defer span.End()

	return getTally(ctx, r.db, playerID)
}

// Reset deletes the player's games and tally.
func (r *sqliteHistoryRepository) Reset(ctx context.Context, playerID string) error {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Reset")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteHistory(ctx, tx, playerID); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace swaps the player's history for results. The tally must be the one
// results add up to.
func (r *sqliteHistoryRepository) Replace(ctx context.Context, playerID string, results []models.MatchResult, tally models.Tally) error {
	ctx, span := tracer.Start(ctx, "HistoryRepository.Replace")
	defer span.End()

	var sum models.Tally
	for _, res := range results {
		if !sum.Add(res.Result) {
			return fmt.Errorf("%w: unknown result %q", ErrInvalidImport, res.Result)
		}
	}
	if sum != tally {
		return fmt.Errorf("%w: results add up to %+v, summary says %+v", ErrInvalidImport, sum, tally)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteHistory(ctx, tx, playerID); err != nil {
		return err
	}

	now := r.now().Unix()
	for i := range results {
		row := results[i]
		row.PlayerID = playerID
		if row.PlayedAt == 0 {
			row.PlayedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO match_results (player_id, room_id, mode, difficulty, result, board, played_at)
			VALUES (:player_id, :room_id, :mode, :difficulty, :result, :board, :played_at)`, &row); err != nil {
			return fmt.Errorf("failed to import match result: %w", err)
		}
	}

	if len(results) > 0 {
		if _, err := tx.ExecContext(ctx, upsertTally, playerID, tally.Cross, tally.Circle, tally.Draw); err != nil {
			return fmt.Errorf("failed to import tally: %w", err)
		}
	}

	return tx.Commit()
}

func getTally(ctx context.Context, q sqlx.QueryerContext, playerID string) (models.Tally, error) {
	var tally models.Tally
	err := sqlx.GetContext(ctx, q, &tally, `SELECT cross_wins, circle_wins, draws FROM tallies WHERE player_id = ?`, playerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.Tally{}, fmt.Errorf("failed to get tally: %w", err)
	}
	return tally, nil
}

func deleteHistory(ctx context.Context, tx *sqlx.Tx, playerID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM match_results WHERE player_id = ?`, playerID); err != nil {
		return fmt.Errorf("failed to delete match results: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tallies WHERE player_id = ?`, playerID); err != nil {
		return fmt.Errorf("failed to delete tally: %w", err)
	}
	return nil
}
