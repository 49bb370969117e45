package game

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/udisondev/lurkgo/internal/protocol"
	"github.com/udisondev/lurkgo/internal/world"
)

// DefaultQueueSize bounds the event queue when no option overrides it.
const DefaultQueueSize = 64

// Revival notices shown when an existing character reconnects. The
// flavor follows the starting room's name.
const (
	revivalTemple  = "As you regain conciousness, you see a Wallmaster retreating into the darkness above."
	revivalGeneric = "You feel exhasted and groggy, you hear laughing and the sound of wood clacking together. A Skullkid must have dragged you back to the entrance."
)

// Loop is the single-consumer actor that owns the world and the
// character roster. Connection handlers submit events; the loop applies
// them one at a time, so every world mutation and every loop-emitted
// frame is totally ordered.
type Loop struct {
	world     *world.World
	roster    *Roster
	events    chan Event
	desc      string
	queueSize int
}

type LoopOption func(*Loop)

// WithDescription sets the text sent in the GAME greeting.
func WithDescription(desc string) LoopOption {
	return func(l *Loop) { l.desc = desc }
}

// WithQueueSize resizes the bounded event queue.
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

func NewLoop(w *world.World, opts ...LoopOption) *Loop {
	l := &Loop{
		world:     w,
		roster:    NewRoster(),
		desc:      "Welcome, adventurer.",
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.events = make(chan Event, l.queueSize)
	return l
}

// Submit queues one event, blocking while the queue is full. It fails
// only when ctx ends first.
func (l *Loop) Submit(ctx context.Context, ev Event) error {
	select {
	case l.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Greet queues the connect-time VERSION and GAME frames for conn.
func (l *Loop) Greet(ctx context.Context, conn Conn) error {
	version := &protocol.Version{Major: protocol.VersionMajor, Minor: protocol.VersionMinor}
	if err := l.Submit(ctx, Event{Conn: conn, Msg: version}); err != nil {
		return err
	}
	game := &protocol.Game{InitialPoints: InitialPoints, StatLimit: StatLimit, Description: l.desc}
	return l.Submit(ctx, Event{Conn: conn, Msg: game})
}

// Run consumes events until ctx is canceled, then closes every live
// connection. A closed event queue is fatal and also shuts every
// connection before returning.
func (l *Loop) Run(ctx context.Context) error {
	slog.Info("game loop running")
	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return nil
		case ev, ok := <-l.events:
			if !ok {
				l.shutdown()
				return errors.New("event queue closed")
			}
			l.dispatch(ev)
		}
	}
}

func (l *Loop) dispatch(ev Event) {
	switch msg := ev.Msg.(type) {
	case *protocol.TextMessage:
		l.handleMessage(ev.Conn, msg)
	case *protocol.ChangeRoom:
		l.handleChangeRoom(ev.Conn, msg)
	case *protocol.Fight:
		l.handleFight(ev.Conn)
	case *protocol.Loot:
		l.handleLoot(ev.Conn, msg)
	case *protocol.Start:
		l.handleStart(ev.Conn)
	case *protocol.Character:
		l.handleCharacter(ev.Conn, msg)
	case *protocol.Leave:
		l.handleLeave(ev.Conn)
	case *protocol.Version, *protocol.Game:
		l.send(ev.Conn, ev.Msg)
	default:
		slog.Warn("unsupported event", "type", ev.Msg.Type(), "conn", ev.Conn.ID())
	}
}

func (l *Loop) shutdown() {
	slog.Info("game loop stopping, closing connections")
	for _, c := range l.roster.All() {
		if c.Active {
			c.Active = false
			c.Flags = protocol.FlagsInactive
			_ = c.Conn.Close()
		}
	}
}

func (l *Loop) handleMessage(conn Conn, msg *protocol.TextMessage) {
	recipient, ok := l.roster.ByName(msg.Recipient)
	if !ok {
		slog.Info("message to unknown recipient", "recipient", msg.Recipient, "sender", msg.Sender)
		if c, found := l.roster.ByConn(conn.ID()); found {
			l.sendError(c, protocol.CodeNoTarget, "No such player to message!")
		}
		return
	}
	l.sendTo(recipient, msg)
}

func (l *Loop) handleChangeRoom(conn Conn, msg *protocol.ChangeRoom) {
	c, ok := l.roster.ByConn(conn.ID())
	if !ok {
		slog.Warn("change room from connection with no character", "conn", conn.ID())
		return
	}
	if c.Dead() {
		l.sendError(c, protocol.CodeOther, "Player is dead and cannot change rooms!")
		return
	}
	current, ok := l.world.RoomByID(c.CurrentRoom)
	if !ok {
		slog.Error("character in unknown room", "name", c.Name, "room", c.CurrentRoom)
		return
	}
	if !slices.Contains(l.world.ExitIDs(current), msg.RoomNumber) {
		l.sendError(c, protocol.CodeBadRoom, "Not a valid room or connection!")
		return
	}

	oldRoom := c.CurrentRoom
	l.world.MoveCharacter(c.Name, oldRoom, msg.RoomNumber)
	c.CurrentRoom = msg.RoomNumber
	dest, _ := l.world.RoomByID(msg.RoomNumber)
	slog.Info("character moved", "name", c.Name, "from", oldRoom, "to", dest.ID)

	l.sendRoomScene(c, dest)
	l.sendConnections(c, dest)

	// Обе комнаты узнают о перемещении
	l.broadcastToRoom(current, c.Sheet(), c.Name)
	l.broadcastToRoom(dest, c.Sheet(), c.Name)
}

func (l *Loop) handleStart(conn Conn) {
	c, ok := l.roster.ByConn(conn.ID())
	if !ok {
		slog.Warn("start from connection with no character", "conn", conn.ID())
		return
	}
	room, ok := l.world.RoomByID(StartingRoom)
	if !ok {
		slog.Error("starting room missing")
		return
	}
	slog.Info("character started", "name", c.Name)

	l.sendRoomScene(c, room)
	c.Flags = protocol.FlagsStartedCharacter
	l.broadcastToRoom(room, c.Sheet(), c.Name)
	l.sendConnections(c, room)
}

func (l *Loop) handleCharacter(conn Conn, msg *protocol.Character) {
	name := msg.Name
	if name == "" {
		name = "Default"
	}
	if existing, ok := l.roster.ByName(name); ok {
		if existing.Active {
			slog.Info("character name taken", "name", name, "conn", conn.ID())
			l.send(conn, &protocol.Error{Code: protocol.CodePlayerExists, Text: "Character already exists!"})
			return
		}
		l.revive(existing, conn, msg.RoomNumber)
		return
	}

	// Клиентские flags, gold и room игнорируем
	health := msg.Health
	if health == 0 {
		health = StartingHealth
	}
	c := &Character{
		Conn:        conn,
		Active:      true,
		Name:        name,
		Description: msg.Description,
		Flags:       protocol.FlagsNewCharacter,
		Attack:      msg.Attack,
		Defense:     msg.Defense,
		Regen:       msg.Regen,
		Health:      health,
		CurrentRoom: StartingRoom,
	}
	l.roster.Add(c)
	l.world.PlaceCharacter(c.Name, c.CurrentRoom)
	slog.Info("character accepted", "name", c.Name, "conn", conn.ID())

	if !l.sendTo(c, &protocol.Accept{Action: protocol.TypeCharacter}) {
		return
	}
	l.sendTo(c, c.Sheet())
}

// revive rebinds an inactive roster entry to a fresh connection. Stats,
// gold, and description survive death; health and flags are reset.
func (l *Loop) revive(c *Character, conn Conn, roomNum uint16) {
	if _, ok := l.world.RoomByID(roomNum); !ok {
		roomNum = c.CurrentRoom
	}
	l.world.MoveCharacter(c.Name, c.CurrentRoom, roomNum)
	c.Conn = conn
	c.Active = true
	c.Flags = protocol.FlagsNewCharacter
	c.Health = StartingHealth
	c.CurrentRoom = roomNum
	slog.Info("character revived", "name", c.Name, "room", roomNum, "conn", conn.ID())

	if !l.sendTo(c, &protocol.Accept{Action: protocol.TypeCharacter}) {
		return
	}
	if !l.sendTo(c, c.Sheet()) {
		return
	}
	l.narrate(c, l.revivalNotice())
}

func (l *Loop) revivalNotice() string {
	if start, ok := l.world.RoomByID(StartingRoom); ok && start.Name == "Temple Entrance" {
		return revivalTemple
	}
	return revivalGeneric
}

func (l *Loop) handleLeave(conn Conn) {
	c, ok := l.roster.ByConn(conn.ID())
	if !ok {
		_ = conn.Close()
		return
	}
	slog.Info("character left", "name", c.Name)
	l.deactivate(c)
}
