package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func write(c *gin.Context, code int, extras any) {
	c.JSON(code, Response{
		Success: code < http.StatusBadRequest,
		Code:    code,
		Extras:  extras,
	})
}

// SuccessResponse answers 200 with extras as the payload.
func SuccessResponse(c *gin.Context, extras any) {
	write(c, http.StatusOK, extras)
}

// SuccessResponseContent answers 200 with a single content string.
func SuccessResponseContent(c *gin.Context, content string) {
	write(c, http.StatusOK, gin.H{"content": content})
}

// ErrorResponse answers code with a message. Server-side failures are logged.
func ErrorResponse(c *gin.Context, code int, message string) {
	if code >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"code", code,
			"error", message,
		)
	}
	write(c, code, gin.H{"message": message})
}

// AbortWithError writes an error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, code int, message string) {
	ErrorResponse(c, code, message)
	c.Abort()
}
