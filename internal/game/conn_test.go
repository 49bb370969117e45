package game

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/lurkgo/internal/protocol"
)

// testConn records every frame sent to it.
type testConn struct {
	id       uint64
	failSend bool

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newTestConn(id uint64) *testConn {
	return &testConn{id: id}
}

func (c *testConn) ID() uint64 { return c.id }

func (c *testConn) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend {
		return errors.New("peer gone")
	}
	c.frames = append(c.frames, slices.Clone(frame))
	return nil
}

func (c *testConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *testConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *testConn) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

// decode parses every recorded frame in order.
func (c *testConn) decode(t *testing.T) []protocol.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []protocol.Message
	for _, frame := range c.frames {
		r := bytes.NewReader(frame)
		for {
			msg, err := protocol.Decode(r)
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			out = append(out, msg)
		}
	}
	return out
}
