package player

import (
	"sync"
	"time"
)

type PlayerStatus string

const (
	StatusConnected    PlayerStatus = "connected"
	StatusDisconnected PlayerStatus = "disconnected"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player represents a player in a room.
type Player struct {
	ID    string
	Conn  Connection
	IsBot bool

	mu       sync.Mutex
	writeMu  sync.Mutex
	status   PlayerStatus
	lastSeen time.Time
}

func NewPlayer(id string, conn Connection) *Player {
	return &Player{
		ID:       id,
		Conn:     conn,
		status:   StatusConnected,
		lastSeen: time.Now(),
	}
}

// Send writes one message. Websocket connections allow a single writer at a
// time, so all writes go through here.
func (p *Player) Send(messageType int, data []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if p.Conn == nil {
		return nil
	}
	return p.Conn.WriteMessage(messageType, data)
}

func (p *Player) Status() PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SetStatus updates the status and stamps the time it changed.
func (p *Player) SetStatus(status PlayerStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.lastSeen = time.Now()
}

func (p *Player) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Connection returns the current connection.
func (p *Player) Connection() Connection {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.Conn
}

// Replace swaps in a new connection after a reconnect and returns the old one.
func (p *Player) Replace(conn Connection) Connection {
	p.writeMu.Lock()
	old := p.Conn
	p.Conn = conn
	p.writeMu.Unlock()
	p.SetStatus(StatusConnected)
	return old
}
