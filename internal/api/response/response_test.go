package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handlers ...gin.HandlerFunc) (int, Response) {
	t.Helper()
	r := gin.New()
	r.GET("/", handlers...)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSuccessResponseContent(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) { SuccessResponseContent(c, "ok") })
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Success)
	assert.Equal(t, http.StatusOK, body.Code)
	assert.Equal(t, map[string]any{"content": "ok"}, body.Extras)
}

func TestErrorResponse(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusInternalServerError} {
		got, body := serve(t, func(c *gin.Context) { ErrorResponse(c, code, "boom") })
		assert.Equal(t, code, got)
		assert.False(t, body.Success)
		assert.Equal(t, code, body.Code)
		assert.Equal(t, map[string]any{"message": "boom"}, body.Extras)
	}
}

func TestAbortWithErrorStopsChain(t *testing.T) {
	reached := false
	code, body := serve(t,
		func(c *gin.Context) { AbortWithError(c, http.StatusUnauthorized, "who are you") },
		func(c *gin.Context) { reached = true },
	)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, body.Success)
	assert.False(t, reached)
}
