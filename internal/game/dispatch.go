package game

import (
	"log/slog"

	"github.com/udisondev/lurkgo/internal/protocol"
	"github.com/udisondev/lurkgo/internal/world"
)

// Outbound primitives. A failed write deactivates the character behind
// the connection and never aborts the loop.

// send writes one message to a raw connection handle.
func (l *Loop) send(conn Conn, m protocol.Message) bool {
	if err := conn.Send(protocol.Marshal(m)); err != nil {
		slog.Warn("write failed, dropping connection", "conn", conn.ID(), "type", m.Type(), "error", err)
		l.dropConn(conn)
		return false
	}
	return true
}

// sendTo writes one message to a character, skipping inactive ones.
func (l *Loop) sendTo(c *Character, m protocol.Message) bool {
	if !c.Active {
		return false
	}
	if err := c.Conn.Send(protocol.Marshal(m)); err != nil {
		slog.Warn("write failed, deactivating character", "name", c.Name, "type", m.Type(), "error", err)
		l.deactivate(c)
		return false
	}
	return true
}

func (l *Loop) sendError(c *Character, code protocol.ErrorCode, text string) {
	l.sendTo(c, &protocol.Error{Code: code, Text: text})
}

// sendRoomScene sends the room description followed by the sheet of
// every other character and every monster in it. Sheets of inactive
// residents go out too; their cleared flags tell the client they left.
func (l *Loop) sendRoomScene(c *Character, room *world.Room) {
	if !l.sendTo(c, &protocol.Room{Number: room.ID, Name: room.Name, Description: room.Description}) {
		return
	}
	for _, name := range room.Characters {
		if name == c.Name {
			continue
		}
		resident, ok := l.roster.ByName(name)
		if !ok {
			slog.Error("room lists unknown character", "room", room.Name, "name", name)
			continue
		}
		if !l.sendTo(c, resident.Sheet()) {
			return
		}
	}
	for _, name := range room.Monsters {
		m, ok := l.world.Monster(name)
		if !ok {
			slog.Error("room lists unknown monster", "room", room.Name, "name", name)
			continue
		}
		if !l.sendTo(c, m.Sheet()) {
			return
		}
	}
}

// sendConnections advertises every exit of the room.
func (l *Loop) sendConnections(c *Character, room *world.Room) {
	for _, exit := range l.world.ExitRooms(room) {
		msg := &protocol.Connection{Number: exit.ID, Name: exit.Name, Description: exit.Description}
		if !l.sendTo(c, msg) {
			return
		}
	}
}

// broadcastToRoom sends m to every active character in the room except
// the one named by skip (empty skips nobody).
func (l *Loop) broadcastToRoom(room *world.Room, m protocol.Message, skip string) {
	for _, name := range room.Characters {
		if name == skip {
			continue
		}
		resident, ok := l.roster.ByName(name)
		if !ok {
			slog.Error("room lists unknown character", "room", room.Name, "name", name)
			continue
		}
		l.sendTo(resident, m)
	}
}

// narrate sends server narration with the reference client's marker.
func (l *Loop) narrate(c *Character, text string) {
	l.sendTo(c, &protocol.TextMessage{
		Recipient: c.Name,
		Sender:    "Narrator",
		Narration: true,
		Text:      text,
	})
}

// deactivate takes a character out of play, keeping its roster entry.
func (l *Loop) deactivate(c *Character) {
	c.Active = false
	c.Flags = protocol.FlagsInactive
	_ = c.Conn.Close()
}

// dropConn handles a write failure on a connection that may not have a
// character yet.
func (l *Loop) dropConn(conn Conn) {
	if c, ok := l.roster.ByConn(conn.ID()); ok {
		l.deactivate(c)
		return
	}
	_ = conn.Close()
}
