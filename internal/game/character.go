package game

import (
	"github.com/udisondev/lurkgo/internal/protocol"
)

// Game rule constants advertised in the GAME greeting.
const (
	InitialPoints  = 40  // cap on attack + defense + regen at creation
	StatLimit      = 500 // absolute cap on any single stat
	StartingHealth = 20
	StartingRoom   = 0
)

// Character is a player's avatar. Entries stay in the roster for the
// whole server run; a disconnect only flips Active off. Fields are
// mutated exclusively by the game loop.
type Character struct {
	Conn        Conn
	Active      bool
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

// Dead reports whether the character can no longer act in the world.
func (c *Character) Dead() bool {
	return c.Health <= 0 || !c.Flags.Alive()
}

// Sheet returns the character as a CHARACTER wire message.
func (c *Character) Sheet() *protocol.Character {
	return &protocol.Character{
		Name:        c.Name,
		Flags:       c.Flags,
		Attack:      c.Attack,
		Defense:     c.Defense,
		Regen:       c.Regen,
		Health:      c.Health,
		Gold:        c.Gold,
		RoomNumber:  c.CurrentRoom,
		Description: c.Description,
	}
}
