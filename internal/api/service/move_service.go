package service

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("service")

// MoveService answers stateless board questions.
type MoveService interface {
	Evaluate(ctx context.Context, req *models.EvaluateRequest) (game.Outcome, error)
	SelectMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResponse, error)
}

type moveService struct {
	selector          *bot.Selector
	defaultDifficulty bot.Difficulty
	movesSelected     metric.Int64Counter
	moveDuration      metric.Float64Histogram
}

// NewMoveService creates a MoveService. Requests without a difficulty use
// defaultDifficulty.
func NewMoveService(selector *bot.Selector, defaultDifficulty bot.Difficulty) (MoveService, error) {
	meter := otel.Meter("service.move")
	movesSelected, err := meter.Int64Counter("tictactoe.moves.selected",
		metric.WithDescription("Moves chosen by the computer player"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	moveDuration, err := meter.Float64Histogram("tictactoe.move.duration",
		metric.WithDescription("Time spent selecting a move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create move duration histogram: %w", err)
	}
	return &moveService{
		selector:          selector,
		defaultDifficulty: defaultDifficulty,
		movesSelected:     movesSelected,
		moveDuration:      moveDuration,
	}, nil
}

func (s *moveService) Evaluate(ctx context.Context, req *models.EvaluateRequest) (game.Outcome, error) {
	_, span := tracer.Start(ctx, "MoveService.Evaluate")
	defer span.End()

	board, err := game.ParseBoard(req.Board)
	if err != nil {
		return game.Outcome{}, err
	}
	return game.Evaluate(board), nil
}

func (s *moveService) SelectMove(ctx context.Context, req *models.MoveRequest) (*models.MoveResponse, error) {
	ctx, span := tracer.Start(ctx, "MoveService.SelectMove")
	defer span.End()

	board, err := game.ParseBoard(req.Board)
	if err != nil {
		return nil, err
	}
	mark, err := game.ParseMark(req.Player)
	if err != nil {
		return nil, err
	}
	difficulty := s.defaultDifficulty
	if req.Difficulty != "" {
		if difficulty, err = bot.ParseDifficulty(req.Difficulty); err != nil {
			return nil, err
		}
	}
	span.SetAttributes(
		attribute.String("game.difficulty", string(difficulty)),
		attribute.String("move.mark", string(mark)),
	)

	start := time.Now()
	resp := &models.MoveResponse{Difficulty: string(difficulty)}
	if difficulty == bot.Hard {
		res, err := bot.NewMinimaxStrategy().Search(board, mark)
		if err != nil {
			return nil, err
		}
		resp.Move = res.Move
		resp.Score = &res.Score
	} else {
		if resp.Move, err = s.selector.SelectMove(board, mark, difficulty); err != nil {
			return nil, err
		}
	}

	attrs := metric.WithAttributes(attribute.String("difficulty", string(difficulty)))
	s.moveDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	s.movesSelected.Add(ctx, 1, attrs)
	span.SetAttributes(attribute.Int("move.index", resp.Move))

	return resp, nil
}
