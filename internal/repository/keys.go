package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrGameNotFound reports a room with no stored game.
	ErrGameNotFound = errors.New("game not found")
	// ErrInvalidImport reports an import whose summary does not match its results.
	ErrInvalidImport = errors.New("summary does not match results")
)

func roomKey(id string) string {
	return fmt.Sprintf("room:%s", id)
}

func playerKey(id string) string {
	return fmt.Sprintf("player:%s", id)
}

// RoomChannel is the pub/sub channel that announces updates of one room.
func RoomChannel(id string) string {
	return fmt.Sprintf("channel:room:%s", id)
}
