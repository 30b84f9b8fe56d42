package player

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingConn struct {
	mu     sync.Mutex
	writes int
}

func (c *countingConn) WriteMessage(int, []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	return nil
}

func (c *countingConn) ReadMessage() (int, []byte, error) { return 0, nil, nil }
func (c *countingConn) Close() error                      { return nil }

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("p1", nil)
	assert.Equal(t, "p1", p.ID)
	assert.False(t, p.IsBot)
	assert.Equal(t, StatusConnected, p.Status())
	assert.NoError(t, p.Send(1, []byte("dropped")))
}

func TestPlayer_SetStatusStampsTime(t *testing.T) {
	p := NewPlayer("p1", nil)
	before := p.LastSeen()
	time.Sleep(time.Millisecond)

	p.SetStatus(StatusDisconnected)
	assert.Equal(t, StatusDisconnected, p.Status())
	assert.True(t, p.LastSeen().After(before))
}

func TestPlayer_Replace(t *testing.T) {
	first := &countingConn{}
	second := &countingConn{}
	p := NewPlayer("p1", first)
	p.SetStatus(StatusDisconnected)

	old := p.Replace(second)
	assert.Same(t, first, old)
	assert.Equal(t, StatusConnected, p.Status())

	assert.NoError(t, p.Send(1, []byte("hi")))
	assert.Equal(t, 0, first.writes)
	assert.Equal(t, 1, second.writes)
}

func TestPlayer_ConcurrentSends(t *testing.T) {
	conn := &countingConn{}
	p := NewPlayer("p1", conn)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Send(1, []byte("x"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, conn.writes)
}
