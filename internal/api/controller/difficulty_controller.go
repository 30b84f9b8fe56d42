package controller

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/bot"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// DifficultyCookie holds the player's preferred level as "mode: easy|hard".
	DifficultyCookie = "GameLevel"
	cookieMaxAge     = 365 * 24 * 60 * 60
)

// DifficultyFromCookie reads the stored preference, if any.
func DifficultyFromCookie(c *gin.Context) (bot.Difficulty, bool) {
	raw, err := c.Cookie(DifficultyCookie)
	if err != nil {
		return "", false
	}
	d, err := bot.ParseDifficulty(strings.TrimPrefix(strings.TrimSpace(raw), "mode:"))
	if err != nil {
		return "", false
	}
	return d, true
}

// DifficultyController stores the difficulty preference in a cookie.
type DifficultyController struct {
	defaultDifficulty bot.Difficulty
}

func NewDifficultyController(defaultDifficulty bot.Difficulty) *DifficultyController {
	return &DifficultyController{defaultDifficulty: defaultDifficulty}
}

// Get returns the stored level, or the server default.
func (dc *DifficultyController) Get(c *gin.Context) {
	d, ok := DifficultyFromCookie(c)
	if !ok {
		d = dc.defaultDifficulty
	}
	response.SuccessResponse(c, gin.H{"difficulty": d})
}

// Set stores a new level.
func (dc *DifficultyController) Set(c *gin.Context) {
	var req models.DifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	d, err := bot.ParseDifficulty(req.Difficulty)
	if err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(DifficultyCookie, fmt.Sprintf("mode: %s", d), cookieMaxAge, "/", "", false, false)
	response.SuccessResponse(c, gin.H{"difficulty": d})
}
