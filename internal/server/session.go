package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/udisondev/lurkgo/internal/game"
	"github.com/udisondev/lurkgo/internal/protocol"
)

// Session drives the read side of one connection: greet, decode one
// message at a time, gate it by phase, forward it to the game loop.
// Gameplay errors come back from the loop; gate and protocol errors are
// written directly from here.
type Session struct {
	client   *Client
	loop     *game.Loop
	phase    Phase
	violated bool
}

func NewSession(client *Client, loop *game.Loop) *Session {
	return &Session{client: client, loop: loop}
}

// Run reads until the client leaves, violates the protocol, or the
// socket dies. Except after a violation, the game loop always receives
// a final LEAVE for this connection.
func (s *Session) Run(ctx context.Context) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.client.Close()
		case <-done:
		}
	}()

	defer func() {
		s.phase = PhaseClosed
		slog.Debug("session closed", "client", s.client.IP(), "conn", s.client.ID())
	}()

	defer func() {
		if s.violated {
			return
		}
		if err := s.loop.Submit(ctx, game.Event{Conn: s.client, Msg: &protocol.Leave{}}); err != nil {
			slog.Debug("leave event dropped", "client", s.client.IP(), "error", err)
		}
	}()

	if err := s.loop.Greet(ctx, s.client); err != nil {
		slog.Warn("greeting failed", "client", s.client.IP(), "error", err)
		return
	}

	r := bufio.NewReader(s.client.conn)
	for {
		msg, err := protocol.Decode(r)
		if err != nil {
			if s.handleDecodeError(err) {
				continue
			}
			return
		}
		if !s.handle(ctx, msg) {
			return
		}
	}
}

// handle applies the phase gate and forwards legal messages. It reports
// whether the session should keep reading.
func (s *Session) handle(ctx context.Context, msg protocol.Message) bool {
	switch m := msg.(type) {
	case *protocol.Character:
		if int(m.Attack)+int(m.Defense)+int(m.Regen) > game.InitialPoints {
			slog.Info("character rejected, stats over budget", "client", s.client.IP(),
				"attack", m.Attack, "defense", m.Defense, "regen", m.Regen)
			s.sendError(protocol.CodeStatError, "Total points exceeds initial points")
			return true
		}
		if !s.forward(ctx, m) {
			return false
		}
		if s.phase == PhaseAwaitingCharacter {
			s.phase = PhaseAccepted
		}
		return true

	case *protocol.Start:
		switch s.phase {
		case PhaseAwaitingCharacter:
			s.sendError(protocol.CodeNotReady, "You must create a character first!")
			return true
		case PhaseStarted:
			s.sendError(protocol.CodeNotReady, "Character is already started!")
			return true
		}
		if !s.forward(ctx, m) {
			return false
		}
		s.phase = PhaseStarted
		return true

	case *protocol.TextMessage, *protocol.ChangeRoom, *protocol.Fight, *protocol.Loot:
		if s.phase != PhaseStarted {
			s.sendError(protocol.CodeNotReady, "You haven't started the game yet!")
			return true
		}
		return s.forward(ctx, msg)

	case *protocol.PVPFight:
		// Дуэли запрещены всегда, цель даже не проверяем
		s.sendError(protocol.CodeNoPlayerCombat, "Player PVP is not allowed!")
		return true

	case *protocol.Leave:
		return false

	default:
		return s.rejectServerOnly(msg.Type())
	}
}

// rejectServerOnly answers a client that sent a server-only type, then
// half-closes the read side and ends the session.
func (s *Session) rejectServerOnly(t protocol.Type) bool {
	var text string
	switch t {
	case protocol.TypeError:
		text = "I am the one who knocks, dont't try me!"
	case protocol.TypeAccept:
		text = "Accept this disconnect you heathen."
	case protocol.TypeRoom:
		text = "There isn't enough room here for the both of us pal."
	case protocol.TypeGame:
		text = "Hey! That's my job!"
	case protocol.TypeConnection:
		text = "Connect these hands, nice try!"
	case protocol.TypeVersion:
		text = "Sorry no time traveling allowed!"
	default:
		text = "Unknown Message Type"
	}
	slog.Warn("server-only message from client", "client", s.client.IP(), "type", t)
	s.sendError(protocol.CodeOther, text)
	s.violated = true
	s.client.CloseRead()
	return false
}

// handleDecodeError sorts decode failures into recoverable and fatal.
// Type 0 is tolerated because the reference client emits it on desync;
// anything past the known range ends the session.
func (s *Session) handleDecodeError(err error) bool {
	var typeErr *protocol.UnknownTypeError
	switch {
	case errors.As(err, &typeErr):
		s.sendError(protocol.CodeOther, "Unknown Message Type")
		if typeErr.Byte > 14 {
			slog.Warn("message type out of range, disconnecting", "client", s.client.IP(), "type", typeErr.Byte)
			s.violated = true
			s.client.CloseRead()
			return false
		}
		slog.Info("unknown message type", "client", s.client.IP(), "type", typeErr.Byte)
		return true
	case errors.Is(err, protocol.ErrBadText):
		slog.Warn("undecodable message", "client", s.client.IP(), "error", err)
		s.sendError(protocol.CodeOther, "Unable to decode message")
		s.violated = true
		s.client.CloseRead()
		return false
	case errors.Is(err, io.EOF):
		slog.Info("client disconnected", "client", s.client.IP())
		return false
	default:
		slog.Warn("read failed", "client", s.client.IP(), "error", err)
		return false
	}
}

func (s *Session) forward(ctx context.Context, msg protocol.Message) bool {
	if err := s.loop.Submit(ctx, game.Event{Conn: s.client, Msg: msg}); err != nil {
		slog.Warn("event queue unavailable", "client", s.client.IP(), "error", err)
		return false
	}
	return true
}

func (s *Session) sendError(code protocol.ErrorCode, text string) {
	if err := s.client.Send(protocol.Marshal(&protocol.Error{Code: code, Text: text})); err != nil {
		slog.Warn("error write failed", "client", s.client.IP(), "code", code, "error", err)
	}
}
