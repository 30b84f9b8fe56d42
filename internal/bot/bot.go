package bot

import (
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/hub/types"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/pkg/proto"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BotConnection simulates a websocket connection for a bot player.
// It implements the player.Connection interface.
type BotConnection struct {
	playerID      string
	player        *player.Player
	incomingMoves chan<- *types.PlayerMove
	strategy      Strategy
	thinkDelay    time.Duration

	mu        sync.Mutex
	mark      game.PlayerMark // Stores the bot's mark ('X' or 'O')
	lastBoard *game.Board     // board the last move was computed for
	closed    chan struct{}
	closeOnce sync.Once
}

// NewBotConnection creates a new connection for a bot. Moves are pushed to
// incomingMoves as if the bot were a client.
func NewBotConnection(playerID string, strategy Strategy, p *player.Player, incomingMoves chan<- *types.PlayerMove, thinkDelay time.Duration) *BotConnection {
	return &BotConnection{
		playerID:      playerID,
		player:        p,
		incomingMoves: incomingMoves,
		strategy:      strategy,
		thinkDelay:    thinkDelay,
		closed:        make(chan struct{}),
	}
}

// WriteMessage is called by the room to send game state to the bot.
func (bc *BotConnection) WriteMessage(messageType int, data []byte) error {
	if len(data) == 0 {
		return nil // pings
	}

	var generic struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}

	switch generic.Type {
	case proto.TypeAssignment:
		var msg proto.PlayerAssignmentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		bc.mu.Lock()
		bc.mark = msg.Mark
		bc.lastBoard = nil
		bc.mu.Unlock()
		slog.Debug("Bot assigned mark", "player.id", bc.playerID, "mark", msg.Mark)

	case proto.TypeUpdate:
		var msg proto.ServerToClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		if msg.Board == nil {
			return nil
		}

		bc.mu.Lock()
		mark := bc.mark
		// The bot only acts if it has a mark, it's its turn, the game is on,
		// and it has not already answered this exact position.
		act := mark != game.None && msg.Next == mark && msg.Winner == game.None && !msg.Draw &&
			(bc.lastBoard == nil || *bc.lastBoard != *msg.Board)
		if act {
			board := *msg.Board
			bc.lastBoard = &board
		}
		bc.mu.Unlock()

		if act {
			go bc.think(*msg.Board, mark)
		}
	}

	return nil
}

func (bc *BotConnection) think(board game.Board, mark game.PlayerMark) {
	slog.Debug("Bot is thinking", "player.id", bc.playerID, "mark", mark)
	if bc.thinkDelay > 0 {
		timer := time.NewTimer(bc.thinkDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-bc.closed:
			return
		}
	}

	index, err := bc.strategy.SelectMove(board, mark)
	if err != nil {
		slog.Warn("Bot could not select a move", "player.id", bc.playerID, "board", board.String(), "error", err)
		return
	}

	moveBytes, err := json.Marshal(proto.ClientToServerMessage{Type: proto.TypeMove, Position: &index})
	if err != nil {
		slog.Error("Bot failed to marshal move", "player.id", bc.playerID, "error", err)
		return
	}

	select {
	case bc.incomingMoves <- &types.PlayerMove{Player: bc.player, Message: moveBytes}:
	case <-bc.closed:
	}
}

// ReadMessage is never pumped for bots; moves go straight to the room.
func (bc *BotConnection) ReadMessage() (int, []byte, error) {
	return 0, nil, io.EOF
}

// Close stops any pending move.
func (bc *BotConnection) Close() error {
	bc.closeOnce.Do(func() { close(bc.closed) })
	return nil
}

// Mark returns the mark the bot was assigned.
func (bc *BotConnection) Mark() game.PlayerMark {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.mark
}

// NewBotPlayer creates a new player instance that is a bot.
func NewBotPlayer(strategy Strategy, incomingMoves chan<- *types.PlayerMove, thinkDelay time.Duration) *player.Player {
	return NewBotPlayerWithID("bot-"+uuid.New().String()[:8], strategy, incomingMoves, thinkDelay)
}

// NewBotPlayerWithID recreates a bot under a known id, as when a stored game
// is resumed.
func NewBotPlayerWithID(botID string, strategy Strategy, incomingMoves chan<- *types.PlayerMove, thinkDelay time.Duration) *player.Player {
	p := player.NewPlayer(botID, nil)
	p.IsBot = true
	p.Conn = NewBotConnection(botID, strategy, p, incomingMoves, thinkDelay)
	return p
}
