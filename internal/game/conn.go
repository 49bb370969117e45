// Package game owns all mutable game state: the character roster and
// the loaded world. A single loop goroutine consumes events from the
// connection handlers and is the only writer, so no state here is
// guarded by locks.
package game

// Conn is the connection handle shared between one reader goroutine and
// the game loop. Implementations must support concurrent Send and keep
// per-connection delivery in submission order.
type Conn interface {
	// ID is the monotonically assigned connection number.
	ID() uint64
	// Send enqueues one wire frame for delivery. An error means the
	// client is gone or too slow to keep.
	Send(frame []byte) error
	// Close shuts down both socket halves. Safe to call more than once.
	Close() error
}
