package controller

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MoveController serves board evaluation and computer moves.
type MoveController struct {
	moveService       service.MoveService
	defaultDifficulty bot.Difficulty
}

// NewMoveController creates a MoveController. Requests without a difficulty
// use the GameLevel cookie, then defaultDifficulty.
func NewMoveController(moveService service.MoveService, defaultDifficulty bot.Difficulty) *MoveController {
	return &MoveController{moveService: moveService, defaultDifficulty: defaultDifficulty}
}

// Evaluate reports whether a board is won, drawn or still open.
func (mc *MoveController) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := mc.moveService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	response.SuccessResponse(c, outcome)
}

// Move picks the computer's next cell.
func (mc *MoveController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Difficulty == "" {
		d, ok := DifficultyFromCookie(c)
		if !ok {
			d = mc.defaultDifficulty
		}
		req.Difficulty = string(d)
	}

	resp, err := mc.moveService.SelectMove(c.Request.Context(), &req)
	if err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	response.SuccessResponse(c, resp)
}
