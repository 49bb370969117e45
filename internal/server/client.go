package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Default write queue / timeout constants.
// Overridden by config values when available.
const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
)

// Client is one player's connection. Reads happen on the session
// goroutine; writes go through a buffered queue drained by a dedicated
// writer goroutine, so a slow client never stalls the game loop.
type Client struct {
	id   uint64
	conn net.Conn
	ip   string

	// Per-client write queue
	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration
}

// NewClient wraps an accepted connection. The caller must start
// writePump before the first Send.
func NewClient(id uint64, conn net.Conn, sendQueueSize int, writeTimeout time.Duration) *Client {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}
	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Client{
		id:           id,
		conn:         conn,
		ip:           host,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// ID returns the monotonically assigned connection id.
func (c *Client) ID() uint64 {
	return c.id
}

// IP returns the client's remote IP address.
func (c *Client) IP() string {
	return c.ip
}

// writePump is the dedicated writer goroutine for this client. It
// drains sendCh onto the socket, batching queued frames through
// net.Buffers. On close or cancellation it flushes whatever is queued,
// then closes the connection.
func (c *Client) writePump(ctx context.Context) {
	bufs := make(net.Buffers, 0, 64)

	for {
		select {
		case frame, ok := <-c.sendCh:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				slog.Warn("set write deadline failed", "client", c.ip, "error", err)
				_ = c.conn.Close()
				return
			}

			// Собираем всё накопившееся в один writev
			queued := len(c.sendCh)
			if queued == 0 {
				if _, err := c.conn.Write(frame); err != nil {
					slog.Warn("write failed", "client", c.ip, "error", err)
					_ = c.conn.Close()
					return
				}
				continue
			}

			bufs = bufs[:0]
			bufs = append(bufs, frame)
			for i := 0; i < queued; i++ {
				bufs = append(bufs, <-c.sendCh)
			}
			if _, err := bufs.WriteTo(c.conn); err != nil {
				slog.Warn("batch write failed", "client", c.ip, "error", err)
				_ = c.conn.Close()
				return
			}

		case <-c.closeCh:
			c.flush()
			_ = c.conn.Close()
			return

		case <-ctx.Done():
			c.flush()
			_ = c.conn.Close()
			return
		}
	}
}

// flush makes one last attempt to deliver queued frames.
func (c *Client) flush() {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return
	}
	for {
		select {
		case frame := <-c.sendCh:
			if _, err := c.conn.Write(frame); err != nil {
				return
			}
		default:
			return
		}
	}
}

// Send queues one frame for async delivery. Non-blocking: a full queue
// means a client that stopped reading, so the connection is dropped.
func (c *Client) Send(frame []byte) error {
	select {
	case <-c.closeCh:
		return fmt.Errorf("client closed")
	default:
	}
	select {
	case c.sendCh <- frame:
		return nil
	default:
		slog.Warn("send queue full, disconnecting slow client", "client", c.ip)
		_ = c.Close()
		return fmt.Errorf("send queue full")
	}
}

// Close signals the writePump to flush and close the connection.
// Safe to call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closeCh)
	})
	return nil
}

// CloseRead shuts the read side down, leaving queued writes to drain.
// Used after a protocol violation.
func (c *Client) CloseRead() {
	if tc, ok := c.conn.(*net.TCPConn); ok {
		_ = tc.CloseRead()
	}
}
