package room

import (
	"context"
	"ctchen222/minimax-tic-tac-toe/internal/events"
	"ctchen222/minimax-tic-tac-toe/internal/game"
	"ctchen222/minimax-tic-tac-toe/internal/player"
	"ctchen222/minimax-tic-tac-toe/internal/repository"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type recordingConn struct {
	mu     sync.Mutex
	sent   []map[string]any
	in     chan []byte
	closed chan struct{}
	once   sync.Once
}

func newRecordingConn() *recordingConn {
	return &recordingConn{in: make(chan []byte, 4), closed: make(chan struct{})}
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()
	return nil
}

func (c *recordingConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.in:
		return 1, data, nil
	case <-c.closed:
		return 0, nil, io.EOF
	}
}

func (c *recordingConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *recordingConn) errors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var reasons []string
	for _, m := range c.sent {
		if m["type"] == "error" {
			reasons = append(reasons, m["reason"].(string))
		}
	}
	return reasons
}

type RoomSuite struct {
	suite.Suite
	rdb        *redis.Client
	gameRepo   repository.GameRepository
	playerRepo repository.PlayerRepository
	room       *Room
	human      *player.Player
	conn       *recordingConn
}

func TestRoomSuite(t *testing.T) {
	suite.Run(t, new(RoomSuite))
}

func (s *RoomSuite) SetupTest() {
	mr := miniredis.RunT(s.T())
	s.rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.gameRepo = repository.NewGameRepository(s.rdb, time.Hour)
	s.playerRepo = repository.NewPlayerRepository(s.rdb, time.Hour)
	s.room = NewRoom("room-1", s.rdb, s.gameRepo, s.playerRepo, Config{})
	s.conn = newRecordingConn()
	s.human = player.NewPlayer("human", s.conn)
	s.room.AddPlayer(s.human)
}

func (s *RoomSuite) TearDownTest() {
	s.room.Close()
	s.rdb.Close()
}

func (s *RoomSuite) create(xID, oID string, mode game.Mode) {
	s.Require().NoError(s.gameRepo.Create(context.Background(), s.room.ID, repository.NewGameParams{
		PlayerXID:  xID,
		PlayerOID:  oID,
		Mode:       mode,
		Difficulty: "hard",
	}))
}

func (s *RoomSuite) send(p *player.Player, msg string) {
	s.room.HandleMessage(p, []byte(msg))
}

func (s *RoomSuite) state() *game.GameStateDTO {
	state, err := s.gameRepo.FindByID(context.Background(), s.room.ID)
	s.Require().NoError(err)
	return state
}

func (s *RoomSuite) TestMoveUpdatesStateAndPublishes() {
	s.create("human", "bot-1", game.ModeBot)
	sub := s.rdb.Subscribe(context.Background(), repository.RoomChannel(s.room.ID))
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	s.Require().NoError(err)

	s.send(s.human, `{"type":"move","position":4}`)

	msg, err := sub.ReceiveMessage(context.Background())
	s.Require().NoError(err)
	s.Equal("update", msg.Payload)
	s.Equal("____X____", s.state().Board.String())
	s.Equal(game.PlayerO, s.state().CurrentTurn)
}

func (s *RoomSuite) TestRejectedMovesReportReason() {
	s.create("bot-1", "human", game.ModeBot)

	s.send(s.human, `{"type":"move","position":0}`)
	s.send(s.human, `{"type":"move","position":9}`)
	s.send(s.human, `{"type":"move"}`)
	s.send(s.human, `{"type":"jump"}`)
	s.send(s.human, `not json`)

	s.Equal([]string{
		"not your turn",
		"invalid message",
		"move needs a position",
		"invalid message",
		"malformed message",
	}, s.conn.errors())
	s.Equal("_________", s.state().Board.String())
}

func (s *RoomSuite) TestStrangerCannotMove() {
	s.create("someone", "else", game.ModeBot)

	s.send(s.human, `{"type":"move","position":0}`)
	s.Equal("_________", s.state().Board.String())
}

func (s *RoomSuite) TestFinishedGamePublishesEvent() {
	s.create("human", "human", game.ModeLocal)
	sub := s.rdb.Subscribe(context.Background(), events.EventsChannel)
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	s.Require().NoError(err)

	for _, cell := range []string{"0", "3", "1", "4", "2"} {
		s.send(s.human, `{"type":"move","position":`+cell+`}`)
	}

	msg, err := sub.ReceiveMessage(context.Background())
	s.Require().NoError(err)
	var event events.Event
	s.Require().NoError(json.Unmarshal([]byte(msg.Payload), &event))
	s.Equal(events.GameFinished, event.Type)

	var payload events.GameFinishedPayload
	s.Require().NoError(json.Unmarshal(event.Payload, &payload))
	s.Equal("room-1", payload.RoomID)
	s.Equal([]string{"human"}, payload.PlayerIDs)
	s.Equal("XXXOO____", payload.Board)
	s.Equal("local", payload.Mode)

	s.send(s.human, `{"type":"move","position":8}`)
	s.Contains(s.conn.errors(), "game is already over")
}

func (s *RoomSuite) TestRematchSwapsMarksInBotMode() {
	s.create("human", "bot-1", game.ModeBot)

	s.send(s.human, `{"type":"rematch"}`)
	s.Equal([]string{"game is not over"}, s.conn.errors())

	for _, m := range []struct {
		mark  game.PlayerMark
		index int
	}{
		{game.PlayerX, 0}, {game.PlayerO, 3}, {game.PlayerX, 1}, {game.PlayerO, 4}, {game.PlayerX, 2},
	} {
		_, err := s.gameRepo.Update(context.Background(), s.room.ID, m.mark, m.index)
		s.Require().NoError(err)
	}

	s.send(s.human, `{"type":"rematch"}`)

	state := s.state()
	s.Equal("bot-1", state.PlayerXID)
	s.Equal("human", state.PlayerOID)
	s.Equal(game.Board{}, state.Board)
	s.Equal(game.PlayerX, state.CurrentTurn)
	s.Equal(game.StatusInProgress, state.Status)
}

func (s *RoomSuite) TestIgnoresDisconnectedPlayer() {
	s.create("human", "bot-1", game.ModeBot)
	s.human.SetStatus(player.StatusDisconnected)

	s.send(s.human, `{"type":"move","position":0}`)
	s.Equal("_________", s.state().Board.String())
}

func (s *RoomSuite) TestReadPumpMarksDisconnect() {
	s.Require().NoError(s.playerRepo.UpdateForMatch(context.Background(), "human", s.room.ID))
	done := make(chan struct{})
	go func() {
		s.room.ReadPump(s.human, s.conn)
		close(done)
	}()

	s.conn.Close()
	<-done

	s.Equal(player.StatusDisconnected, s.human.Status())
	session, err := s.playerRepo.Find(context.Background(), "human")
	s.Require().NoError(err)
	s.Equal(player.StatusDisconnected, session.ConnectionStatus)
}

func (s *RoomSuite) TestReattachIgnoresStaleReadPump() {
	done := make(chan struct{})
	go func() {
		s.room.ReadPump(s.human, s.conn)
		close(done)
	}()

	fresh := newRecordingConn()
	p, ok := s.room.Reattach("human", fresh)
	s.Require().True(ok)
	s.Same(s.human, p)
	<-done

	s.Equal(player.StatusConnected, s.human.Status())
	s.Same(player.Connection(fresh), s.human.Connection())

	_, ok = s.room.Reattach("nobody", newRecordingConn())
	s.False(ok)
	fresh.Close()
}

func TestRoom_RemovePlayerCountsHumans(t *testing.T) {
	r := NewRoom("r", nil, nil, nil, Config{})
	human := player.NewPlayer("h", nil)
	bot := player.NewPlayer("b", nil)
	bot.IsBot = true
	r.AddPlayer(human)
	r.AddPlayer(bot)

	assert.Equal(t, 1, r.RemovePlayer("nobody"))
	assert.Equal(t, 0, r.RemovePlayer("h"))
	require.Len(t, r.Players(), 1)
	assert.Nil(t, r.Player("h"))
	assert.Same(t, bot, r.Player("b"))
}

func TestRoom_GracePeriodUnregisters(t *testing.T) {
	r := NewRoom("r", nil, nil, nil, Config{HeartbeatInterval: 5 * time.Millisecond, ReconnectGrace: 10 * time.Millisecond})
	defer r.Close()
	p := player.NewPlayer("h", nil)
	p.SetStatus(player.StatusDisconnected)
	r.AddPlayer(p)

	unregister := make(chan *player.Player, 1)
	go r.run(unregister)

	select {
	case got := <-unregister:
		assert.Same(t, p, got)
	case <-time.After(time.Second):
		t.Fatal("player was not unregistered")
	}
}
