package server

import (
	"ctchen222/minimax-tic-tac-toe/internal/api/controller"
	"errors"
	"net/http"
)

var errInvalidMode = errors.New("invalid mode, want bot or local")

func statusFor(err error) int {
	if errors.Is(err, errInvalidMode) {
		return http.StatusBadRequest
	}
	return controller.StatusFor(err)
}
