// Package protocol implements the LURK 2.3 wire protocol: a stream of
// length-delimited binary messages over TCP, little-endian throughout.
// Each message starts with a one-byte type followed by a type-specific
// layout; variable-length text carries its length in the fixed part.
package protocol

import "fmt"

// Type identifies a wire message.
type Type byte

const (
	TypeMessage    Type = 1  // player-to-player or server narration text
	TypeChangeRoom Type = 2  // client requests a move through an exit
	TypeFight      Type = 3  // client initiates monster combat
	TypePVPFight   Type = 4  // client requests player combat (always refused)
	TypeLoot       Type = 5  // client loots a dead monster
	TypeStart      Type = 6  // client enters the game world
	TypeError      Type = 7  // server reports a failure
	TypeAccept     Type = 8  // server acknowledges a client action
	TypeRoom       Type = 9  // server describes the current room
	TypeCharacter  Type = 10 // character sheet, client-sent or server-sent
	TypeGame       Type = 11 // server greeting with game rules
	TypeLeave      Type = 12 // client disconnects gracefully
	TypeConnection Type = 13 // server describes one exit of a room
	TypeVersion    Type = 14 // server protocol version announcement
)

// Protocol version announced in the VERSION greeting.
const (
	VersionMajor byte = 2
	VersionMinor byte = 3
)

func (t Type) String() string {
	switch t {
	case TypeMessage:
		return "MESSAGE"
	case TypeChangeRoom:
		return "CHANGEROOM"
	case TypeFight:
		return "FIGHT"
	case TypePVPFight:
		return "PVPFIGHT"
	case TypeLoot:
		return "LOOT"
	case TypeStart:
		return "START"
	case TypeError:
		return "ERROR"
	case TypeAccept:
		return "ACCEPT"
	case TypeRoom:
		return "ROOM"
	case TypeCharacter:
		return "CHARACTER"
	case TypeGame:
		return "GAME"
	case TypeLeave:
		return "LEAVE"
	case TypeConnection:
		return "CONNECTION"
	case TypeVersion:
		return "VERSION"
	default:
		return fmt.Sprintf("TYPE(%d)", byte(t))
	}
}

// NameLen is the size of every fixed name field. Shorter names are
// NUL-padded; decoding truncates at the first NUL.
const NameLen = 32

// Message is one decoded wire message.
type Message interface {
	Type() Type
}

// TextMessage carries chat between players or narration from the server.
// Narration marks the sender-field convention reference clients use to
// render server text without a player prefix (bytes 30,31 = 0x00,0x01).
type TextMessage struct {
	Recipient string
	Sender    string
	Narration bool
	Text      string
}

// ChangeRoom asks to move the character to an adjacent room.
type ChangeRoom struct {
	RoomNumber uint16
}

// Fight starts combat against the battle-joining monsters in the room.
type Fight struct{}

// PVPFight names another player as a combat target.
type PVPFight struct {
	Target string
}

// Loot claims the gold of a dead monster.
type Loot struct {
	Target string
}

// Start moves an accepted character into the game world.
type Start struct{}

// Error reports a failed action to the client.
type Error struct {
	Code ErrorCode
	Text string
}

// Accept acknowledges a successful client action; Action is the type of
// the message being accepted.
type Accept struct {
	Action Type
}

// Room describes the room a character occupies.
type Room struct {
	Number      uint16
	Name        string
	Description string
}

// Character is a character sheet. Clients send it to create or revive a
// character; the server sends it for players and monsters alike, with
// monsters carrying the MONSTER flag bit.
type Character struct {
	Name        string
	Flags       Flags
	Attack      uint16
	Defense     uint16
	Regen       uint16
	Health      int16
	Gold        uint16
	RoomNumber  uint16
	Description string
}

// Game is the connect-time greeting carrying the stat budget.
type Game struct {
	InitialPoints uint16
	StatLimit     uint16
	Description   string
}

// Leave is the graceful disconnect request.
type Leave struct{}

// Connection advertises one exit reachable from the current room.
type Connection struct {
	Number      uint16
	Name        string
	Description string
}

// Version announces the protocol version. Extensions is the raw
// extension block; this server always sends an empty one.
type Version struct {
	Major      byte
	Minor      byte
	Extensions []byte
}

func (*TextMessage) Type() Type { return TypeMessage }
func (*ChangeRoom) Type() Type  { return TypeChangeRoom }
func (*Fight) Type() Type       { return TypeFight }
func (*PVPFight) Type() Type    { return TypePVPFight }
func (*Loot) Type() Type        { return TypeLoot }
func (*Start) Type() Type       { return TypeStart }
func (*Error) Type() Type       { return TypeError }
func (*Accept) Type() Type      { return TypeAccept }
func (*Room) Type() Type        { return TypeRoom }
func (*Character) Type() Type   { return TypeCharacter }
func (*Game) Type() Type        { return TypeGame }
func (*Leave) Type() Type       { return TypeLeave }
func (*Connection) Type() Type  { return TypeConnection }
func (*Version) Type() Type     { return TypeVersion }
