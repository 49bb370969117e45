package game

import (
	"github.com/udisondev/lurkgo/internal/protocol"
)

// Event is one unit of work for the game loop: a decoded message
// stamped with the connection it came from. Handlers also submit the
// connect-time VERSION and GAME greetings as events so that every
// outbound frame passes the same ordering point.
type Event struct {
	Conn Conn
	Msg  protocol.Message
}
