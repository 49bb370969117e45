// Package world holds the room graph and monster table loaded from a
// map file. The game loop is the only mutator after load; room exit and
// monster lists are fixed, only character lists change.
package world

import (
	"slices"

	"github.com/udisondev/lurkgo/internal/protocol"
)

// Room is one node of the world graph. Exits name other rooms; the
// character list tracks which player names are present.
type Room struct {
	ID          uint16
	Name        string
	Description string
	Exits       []string
	Characters  []string
	Monsters    []string
}

// Monster is a server-controlled combatant. It shares the CHARACTER
// wire shape; Flags carries the MONSTER bit from load on.
type Monster struct {
	Name        string
	Description string
	Flags       protocol.Flags
	Attack      uint16
	Defense     uint16
	Regen       uint16
	Health      int16
	Gold        uint16
	CurrentRoom uint16
}

// Sheet returns the monster as a CHARACTER wire message.
func (m *Monster) Sheet() *protocol.Character {
	return &protocol.Character{
		Name:        m.Name,
		Flags:       m.Flags,
		Attack:      m.Attack,
		Defense:     m.Defense,
		Regen:       m.Regen,
		Health:      m.Health,
		Gold:        m.Gold,
		RoomNumber:  m.CurrentRoom,
		Description: m.Description,
	}
}

// World is the loaded map. Room ids equal their position in the rooms
// array; ParseMap rejects files where they disagree.
type World struct {
	rooms       []*Room
	roomsByName map[string]*Room
	monsters    map[string]*Monster
}

// RoomByID returns the room with the given id.
func (w *World) RoomByID(id uint16) (*Room, bool) {
	if int(id) >= len(w.rooms) {
		return nil, false
	}
	return w.rooms[id], true
}

// RoomByName returns the room with the given display name.
func (w *World) RoomByName(name string) (*Room, bool) {
	r, ok := w.roomsByName[name]
	return r, ok
}

// Monster looks a monster up in the global table. Looting intentionally
// resolves against this table, not the current room.
func (w *World) Monster(name string) (*Monster, bool) {
	m, ok := w.monsters[name]
	return m, ok
}

// Rooms returns all rooms in map-file order.
func (w *World) Rooms() []*Room {
	return w.rooms
}

// ExitRooms resolves the exits of a room, in exit-list order.
func (w *World) ExitRooms(room *Room) []*Room {
	out := make([]*Room, 0, len(room.Exits))
	for _, name := range room.Exits {
		if r, ok := w.roomsByName[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// ExitIDs returns the ids reachable from a room.
func (w *World) ExitIDs(room *Room) []uint16 {
	rooms := w.ExitRooms(room)
	out := make([]uint16, len(rooms))
	for i, r := range rooms {
		out[i] = r.ID
	}
	return out
}

// MoveCharacter relocates name from one room's character list to
// another's.
func (w *World) MoveCharacter(name string, from, to uint16) {
	if from == to {
		return
	}
	if r, ok := w.RoomByID(from); ok {
		r.Characters = slices.DeleteFunc(r.Characters, func(n string) bool { return n == name })
	}
	w.PlaceCharacter(name, to)
}

// PlaceCharacter appends name to a room's character list if absent.
func (w *World) PlaceCharacter(name string, room uint16) {
	if r, ok := w.RoomByID(room); ok && !slices.Contains(r.Characters, name) {
		r.Characters = append(r.Characters, name)
	}
}
