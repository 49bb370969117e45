package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/lurkgo/internal/config"
	"github.com/udisondev/lurkgo/internal/game"
	"github.com/udisondev/lurkgo/internal/protocol"
	"github.com/udisondev/lurkgo/internal/world"
)

// testPlayer is a scripted client over a real TCP connection.
type testPlayer struct {
	conn net.Conn
	r    *bufio.Reader
}

func dialPlayer(t *testing.T, addr string) *testPlayer {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testPlayer{conn: conn, r: bufio.NewReader(conn)}
}

func (p *testPlayer) read(t *testing.T) protocol.Message {
	t.Helper()
	require.NoError(t, p.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msg, err := protocol.Decode(p.r)
	require.NoError(t, err)
	return msg
}

func (p *testPlayer) write(t *testing.T, msg protocol.Message) {
	t.Helper()
	_, err := p.conn.Write(protocol.Marshal(msg))
	require.NoError(t, err)
}

// enter runs the client through greeting, creation, and START.
func (p *testPlayer) enter(t *testing.T, name string) {
	t.Helper()
	v, ok := p.read(t).(*protocol.Version)
	require.True(t, ok)
	require.Equal(t, byte(2), v.Major)
	_, ok = p.read(t).(*protocol.Game)
	require.True(t, ok)

	p.write(t, &protocol.Character{Name: name, Attack: 10, Defense: 10, Regen: 10, Description: "t"})
	_, ok = p.read(t).(*protocol.Accept)
	require.True(t, ok)
	sheet, ok := p.read(t).(*protocol.Character)
	require.True(t, ok)
	require.Equal(t, name, sheet.Name)

	p.write(t, &protocol.Start{})
	_, ok = p.read(t).(*protocol.Room)
	require.True(t, ok)
}

func TestServerEndToEnd(t *testing.T) {
	w, err := world.ParseMap([]byte(sessionMap))
	require.NoError(t, err)
	loop := game.NewLoop(w)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(config.DefaultServer(), loop)
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(ctx, ln) }()

	alice := dialPlayer(t, ln.Addr().String())
	alice.enter(t, "Alice")
	// Alone in the room: the exit follows the room frame directly
	exit, ok := alice.read(t).(*protocol.Connection)
	require.True(t, ok)
	require.Equal(t, uint16(1), exit.Number)

	bob := dialPlayer(t, ln.Addr().String())
	bob.enter(t, "Bob")
	// Bob's scene lists Alice before the exit
	resident, ok := bob.read(t).(*protocol.Character)
	require.True(t, ok)
	require.Equal(t, "Alice", resident.Name)
	_, ok = bob.read(t).(*protocol.Connection)
	require.True(t, ok)

	// Alice watches Bob start
	update, ok := alice.read(t).(*protocol.Character)
	require.True(t, ok)
	require.Equal(t, "Bob", update.Name)
	require.Equal(t, protocol.FlagsStartedCharacter, update.Flags)

	// Player-to-player mail goes through the loop
	alice.write(t, &protocol.TextMessage{Recipient: "Bob", Sender: "Alice", Text: "follow me"})
	mail, ok := bob.read(t).(*protocol.TextMessage)
	require.True(t, ok)
	require.Equal(t, "Alice", mail.Sender)
	require.Equal(t, "follow me", mail.Text)

	// LEAVE closes Alice's socket server-side
	alice.write(t, &protocol.Leave{})
	require.NoError(t, alice.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = alice.r.ReadByte()
	require.ErrorIs(t, err, io.EOF)

	cancel()
	select {
	case err := <-serveDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestServerRunRejectsBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := New(config.DefaultServer(), game.NewLoop(&world.World{}))
	err = srv.Run(context.Background(), ln.Addr().String())
	require.Error(t, err)
}

func TestServerCloseStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := New(config.DefaultServer(), game.NewLoop(&world.World{}))
	require.Nil(t, srv.Addr())

	runDone := make(chan error, 1)
	go func() { runDone <- srv.Run(ctx, "127.0.0.1:0") }()

	// Wait for the listener to come up
	deadline := time.Now().Add(2 * time.Second)
	for srv.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatalf("server never started listening")
		}
		time.Sleep(5 * time.Millisecond)
	}

	require.NoError(t, srv.Close())
	select {
	case err := <-runDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Close")
	}
}
