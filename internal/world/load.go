package world

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/udisondev/lurkgo/internal/protocol"
)

// LoadMap reads and parses a map file.
func LoadMap(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	w, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("parsing map file %s: %w", path, err)
	}
	return w, nil
}

// ParseMap builds a World from a map document. Missing numeric fields
// default to zero. Monster flags are forced to the live-monster value
// no matter what the file says. The map is rejected when a room id
// disagrees with its array position, a name is duplicated, an exit or
// room-monster reference does not resolve, a monster's current_room
// disagrees with the room listing it, or room 0 is absent.
func ParseMap(data []byte) (*World, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	roomsVal := doc.Get("rooms")
	if !roomsVal.IsArray() {
		return nil, errors.New("missing rooms array")
	}

	w := &World{
		roomsByName: make(map[string]*Room),
		monsters:    make(map[string]*Monster),
	}

	for i, rv := range roomsVal.Array() {
		room := &Room{
			ID:          uint16(rv.Get("id").Uint()),
			Name:        rv.Get("name").String(),
			Description: rv.Get("description").String(),
		}
		for _, e := range rv.Get("exits").Array() {
			room.Exits = append(room.Exits, e.String())
		}
		for _, c := range rv.Get("characters").Array() {
			room.Characters = append(room.Characters, c.String())
		}
		for _, m := range rv.Get("monsters").Array() {
			room.Monsters = append(room.Monsters, m.String())
		}

		if int(room.ID) != i {
			return nil, fmt.Errorf("room %q: id %d does not match position %d", room.Name, room.ID, i)
		}
		if _, dup := w.roomsByName[room.Name]; dup {
			return nil, fmt.Errorf("duplicate room name %q", room.Name)
		}

		w.rooms = append(w.rooms, room)
		w.roomsByName[room.Name] = room
	}

	if len(w.rooms) == 0 {
		return nil, errors.New("map has no rooms; room 0 is the starting room")
	}

	for _, mv := range doc.Get("monsters").Array() {
		m := &Monster{
			Name:        mv.Get("name").String(),
			Description: mv.Get("description").String(),
			Flags:       protocol.FlagsMonster,
			Attack:      uint16(mv.Get("attack").Uint()),
			Defense:     uint16(mv.Get("defense").Uint()),
			Regen:       uint16(mv.Get("regen").Uint()),
			Health:      int16(mv.Get("health").Int()),
			Gold:        uint16(mv.Get("gold").Uint()),
			CurrentRoom: uint16(mv.Get("current_room").Uint()),
		}
		if _, dup := w.monsters[m.Name]; dup {
			return nil, fmt.Errorf("duplicate monster name %q", m.Name)
		}
		w.monsters[m.Name] = m
	}

	for _, room := range w.rooms {
		for _, exit := range room.Exits {
			if _, ok := w.roomsByName[exit]; !ok {
				return nil, fmt.Errorf("room %q: exit %q does not name a room", room.Name, exit)
			}
		}
		for _, name := range room.Monsters {
			m, ok := w.monsters[name]
			if !ok {
				return nil, fmt.Errorf("room %q: monster %q is not in the monster table", room.Name, name)
			}
			if m.CurrentRoom != room.ID {
				return nil, fmt.Errorf("monster %q: current_room %d but listed in room %d", name, m.CurrentRoom, room.ID)
			}
		}
	}

	return w, nil
}
