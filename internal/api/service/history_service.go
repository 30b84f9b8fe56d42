package service

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrGameNotFinished reports an attempt to record a game still in progress.
var ErrGameNotFinished = errors.New("game is not finished")

// HistoryService keeps the per-player results table and summary.
type HistoryService interface {
	RecordGame(ctx context.Context, playerID, roomID string, state *game.GameStateDTO) (models.Tally, error)
	List(ctx context.Context, playerID string, limit int) ([]models.MatchResult, error)
	Summary(ctx context.Context, playerID string) (models.Tally, error)
	Reset(ctx context.Context, playerID string) error
	Export(ctx context.Context, playerID string) (*models.HistoryDocument, error)
	Import(ctx context.Context, playerID string, doc *models.HistoryDocument) error
}

type historyService struct {
	repo          repository.HistoryRepository
	gamesFinished metric.Int64Counter
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo repository.HistoryRepository) (HistoryService, error) {
	meter := otel.Meter("service.history")
	gamesFinished, err := meter.Int64Counter("tictactoe.games.finished",
		metric.WithDescription("Finished games recorded into player history"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}
	return &historyService{repo: repo, gamesFinished: gamesFinished}, nil
}

// RecordGame stores a finished game for playerID and returns the new summary.
func (s *historyService) RecordGame(ctx context.Context, playerID, roomID string, state *game.GameStateDTO) (models.Tally, error) {
	outcome := state.Outcome()
	if !outcome.IsTerminal() {
		return models.Tally{}, ErrGameNotFinished
	}

	tally, err := s.repo.Record(ctx, &models.MatchResult{
		PlayerID:   playerID,
		RoomID:     roomID,
		Mode:       string(state.Mode),
		Difficulty: state.Difficulty,
		Result:     outcome.Label(),
		Board:      state.Board.String(),
	})
	if err != nil {
		return models.Tally{}, err
	}

	s.gamesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", outcome.Label()),
		attribute.String("mode", string(state.Mode)),
	))
	return tally, nil
}

func (s *historyService) List(ctx context.Context, playerID string, limit int) ([]models.MatchResult, error) {
	return s.repo.List(ctx, playerID, limit)
}

func (s *historyService) Summary(ctx context.Context, playerID string) (models.Tally, error) {
	return s.repo.Tally(ctx, playerID)
}

func (s *historyService) Reset(ctx context.Context, playerID string) error {
	return s.repo.Reset(ctx, playerID)
}

// Export returns the results table and summary in the import format.
func (s *historyService) Export(ctx context.Context, playerID string) (*models.HistoryDocument, error) {
	results, err := s.repo.List(ctx, playerID, 0)
	if err != nil {
		return nil, err
	}
	tally, err := s.repo.Tally(ctx, playerID)
	if err != nil {
		return nil, err
	}

	doc := &models.HistoryDocument{
		Results: make([]models.HistoryEntry, 0, len(results)),
		Summary: tally,
	}
	for _, r := range results {
		doc.Results = append(doc.Results, models.HistoryEntry{Result: r.Result})
	}
	return doc, nil
}

// Import replaces the player's history with doc.
func (s *historyService) Import(ctx context.Context, playerID string, doc *models.HistoryDocument) error {
	results := make([]models.MatchResult, 0, len(doc.Results))
	for _, e := range doc.Results {
		results = append(results, models.MatchResult{Result: e.Result})
	}
	return s.repo.Replace(ctx, playerID, results, doc.Summary)
}
