package service

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/dependencies/mocks"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type HistoryServiceSuite struct {
	suite.Suite
	repo *mocks.MockHistoryRepository
	svc  HistoryService
	ctx  context.Context
}

func TestHistoryServiceSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceSuite))
}

func (s *HistoryServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.repo = mocks.NewMockHistoryRepository(ctrl)
	svc, err := NewHistoryService(s.repo)
	s.Require().NoError(err)
	s.svc = svc
	s.ctx = context.Background()
}

func (s *HistoryServiceSuite) TestRecordGame() {
	board, err := game.ParseBoardString("XXXOO____")
	s.Require().NoError(err)
	state := &game.GameStateDTO{Board: board, Mode: game.ModeBot, Difficulty: "hard"}

	s.repo.EXPECT().Record(s.ctx, &models.MatchResult{
		PlayerID:   "alice",
		RoomID:     "room-1",
		Mode:       "bot",
		Difficulty: "hard",
		Result:     "X",
		Board:      "XXXOO____",
	}).Return(models.Tally{Cross: 3}, nil)

	tally, err := s.svc.RecordGame(s.ctx, "alice", "room-1", state)
	s.Require().NoError(err)
	s.Equal(models.Tally{Cross: 3}, tally)
}

func (s *HistoryServiceSuite) TestRecordGameInProgress() {
	_, err := s.svc.RecordGame(s.ctx, "alice", "room-1", &game.GameStateDTO{})
	s.ErrorIs(err, ErrGameNotFinished)
}

func (s *HistoryServiceSuite) TestExport() {
	s.repo.EXPECT().List(s.ctx, "alice", 0).Return([]models.MatchResult{
		{ID: 1, Result: "X"}, {ID: 2, Result: "draw"},
	}, nil)
	s.repo.EXPECT().Tally(s.ctx, "alice").Return(models.Tally{Cross: 1, Draw: 1}, nil)

	doc, err := s.svc.Export(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(&models.HistoryDocument{
		Results: []models.HistoryEntry{{Result: "X"}, {Result: "draw"}},
		Summary: models.Tally{Cross: 1, Draw: 1},
	}, doc)
}

func (s *HistoryServiceSuite) TestImport() {
	doc := &models.HistoryDocument{
		Results: []models.HistoryEntry{{Result: "O"}},
		Summary: models.Tally{Circle: 1},
	}
	s.repo.EXPECT().Replace(s.ctx, "alice", []models.MatchResult{{Result: "O"}}, models.Tally{Circle: 1}).Return(nil)
	s.NoError(s.svc.Import(s.ctx, "alice", doc))
}
