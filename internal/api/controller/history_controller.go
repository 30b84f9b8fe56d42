package controller

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/middleware"
	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/response"
	"ctchen222/minimax-tic-tac-toe/internal/api/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// HistoryController serves the caller's results table and summary. Routes
// must run behind middleware.PlayerIdentity.
type HistoryController struct {
	historyService service.HistoryService
}

func NewHistoryController(historyService service.HistoryService) *HistoryController {
	return &HistoryController{historyService: historyService}
}

// List returns finished games, oldest first. ?limit=N keeps the N most recent.
func (hc *HistoryController) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.ErrorResponse(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	results, err := hc.historyService.List(c.Request.Context(), middleware.PlayerID(c), limit)
	if err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"results": results})
}

func (hc *HistoryController) Summary(c *gin.Context) {
	tally, err := hc.historyService.Summary(c.Request.Context(), middleware.PlayerID(c))
	if err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	response.SuccessResponse(c, tally)
}

// Reset clears the table and the summary.
func (hc *HistoryController) Reset(c *gin.Context) {
	if err := hc.historyService.Reset(c.Request.Context(), middleware.PlayerID(c)); err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"message": "History cleared"})
}

// Export returns the raw document, not the response envelope, so it can be
// posted back to Import unchanged.
func (hc *HistoryController) Export(c *gin.Context) {
	doc, err := hc.historyService.Export(c.Request.Context(), middleware.PlayerID(c))
	if err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (hc *HistoryController) Import(c *gin.Context) {
	var doc models.HistoryDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := hc.historyService.Import(c.Request.Context(), middleware.PlayerID(c), &doc); err != nil {
		response.ErrorResponse(c, StatusFor(err), err.Error())
		return
	}
	response.SuccessResponse(c, gin.H{"imported": len(doc.Results)})
}
