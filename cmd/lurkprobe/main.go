package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/udisondev/lurkgo/internal/protocol"
)

// lurkprobe is a scripted client for poking a running server:
// connect, create a character, optionally start/move/fight/loot,
// and dump every inbound frame along the way.
func main() {
	addr := flag.String("addr", "127.0.0.1:5005", "server address")
	name := flag.String("name", "Probe", "character name")
	attack := flag.Uint("attack", 20, "attack stat")
	defense := flag.Uint("defense", 10, "defense stat")
	regen := flag.Uint("regen", 10, "regen stat")
	start := flag.Bool("start", true, "send START after the character is accepted")
	room := flag.Int("room", -1, "CHANGEROOM target after starting (-1 to stay)")
	fight := flag.Bool("fight", false, "send FIGHT after starting")
	loot := flag.String("loot", "", "monster name to LOOT at the end")
	watch := flag.Duration("watch", 3*time.Second, "how long to keep dumping frames before LEAVE")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		slog.Error("failed to connect", "addr", *addr, "err", err)
		return
	}
	defer conn.Close()
	fmt.Printf("Connected to %s\n", *addr)

	r := bufio.NewReader(conn)

	// Greeting: VERSION then GAME
	for i := 0; i < 2; i++ {
		msg, err := readFrame(conn, r, 5*time.Second)
		if err != nil {
			slog.Error("greeting read failed", "err", err)
			return
		}
		dump(msg)
	}

	send := func(msg protocol.Message) bool {
		if err := protocol.Encode(conn, msg); err != nil {
			slog.Error("write failed", "err", err)
			return false
		}
		fmt.Printf(">> %s\n", msg.Type())
		return true
	}

	if !send(&protocol.Character{
		Name:        *name,
		Flags:       protocol.FlagsNewCharacter,
		Attack:      uint16(*attack),
		Defense:     uint16(*defense),
		Regen:       uint16(*regen),
		Description: "A probe droid.",
	}) {
		return
	}

	// Wait for the verdict before issuing anything else
	accepted := false
	for !accepted {
		msg, err := readFrame(conn, r, 5*time.Second)
		if err != nil {
			slog.Error("read failed", "err", err)
			return
		}
		dump(msg)
		switch m := msg.(type) {
		case *protocol.Accept:
			accepted = true
		case *protocol.Error:
			slog.Error("character rejected", "code", m.Code, "text", m.Text)
			return
		}
	}

	if *start {
		if !send(&protocol.Start{}) {
			return
		}
	}
	if *room >= 0 {
		if !send(&protocol.ChangeRoom{RoomNumber: uint16(*room)}) {
			return
		}
	}
	if *fight {
		if !send(&protocol.Fight{}) {
			return
		}
	}
	if *loot != "" {
		if !send(&protocol.Loot{Target: *loot}) {
			return
		}
	}

	// Dump whatever comes back until the watch window closes
	deadline := time.Now().Add(*watch)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		msg, err := readFrame(conn, r, remaining)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				break
			}
			slog.Error("read failed", "err", err)
			return
		}
		dump(msg)
	}

	send(&protocol.Leave{})
	fmt.Println("Done.")
}

func readFrame(conn net.Conn, r *bufio.Reader, timeout time.Duration) (protocol.Message, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	return protocol.Decode(r)
}

func dump(msg protocol.Message) {
	switch m := msg.(type) {
	case *protocol.Version:
		fmt.Printf("<< VERSION %d.%d\n", m.Major, m.Minor)
	case *protocol.Game:
		fmt.Printf("<< GAME initial_points=%d stat_limit=%d\n   %s\n", m.InitialPoints, m.StatLimit, m.Description)
	case *protocol.Accept:
		fmt.Printf("<< ACCEPT %s\n", m.Action)
	case *protocol.Error:
		fmt.Printf("<< ERROR [%s] %s\n", m.Code, m.Text)
	case *protocol.Room:
		fmt.Printf("<< ROOM %d %q: %s\n", m.Number, m.Name, m.Description)
	case *protocol.Connection:
		fmt.Printf("<< CONNECTION %d %q\n", m.Number, m.Name)
	case *protocol.Character:
		fmt.Printf("<< CHARACTER %q flags=0x%02X atk=%d def=%d regen=%d hp=%d gold=%d room=%d\n",
			m.Name, byte(m.Flags), m.Attack, m.Defense, m.Regen, m.Health, m.Gold, m.RoomNumber)
	case *protocol.TextMessage:
		marker := ""
		if m.Narration {
			marker = " (narration)"
		}
		fmt.Printf("<< MESSAGE from %q%s: %s\n", m.Sender, marker, m.Text)
	default:
		fmt.Printf("<< %s\n", msg.Type())
	}
}
