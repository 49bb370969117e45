package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagComposites(t *testing.T) {
	assert.Equal(t, Flags(0xC8), FlagsNewCharacter)
	assert.Equal(t, Flags(0xD8), FlagsStartedCharacter)
	assert.Equal(t, Flags(0xF8), FlagsMonster)
	assert.Equal(t, Flags(0x38), FlagsDeadMonster)
	assert.Equal(t, Flags(0x18), FlagsDeadCharacter)
	assert.Equal(t, Flags(0x00), FlagsInactive)
}

func TestFlagPredicates(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		alive   bool
		joins   bool
		monster bool
		started bool
		ready   bool
	}{
		{"new character", FlagsNewCharacter, true, true, false, false, true},
		{"started character", FlagsStartedCharacter, true, true, false, true, true},
		{"monster", FlagsMonster, true, true, true, true, true},
		{"dead monster", FlagsDeadMonster, false, false, true, true, true},
		{"dead character", FlagsDeadCharacter, false, false, false, true, true},
		{"inactive", FlagsInactive, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.alive, tt.flags.Alive())
			assert.Equal(t, tt.joins, tt.flags.JoinsBattle())
			assert.Equal(t, tt.monster, tt.flags.IsMonster())
			assert.Equal(t, tt.started, tt.flags.Started())
			assert.Equal(t, tt.ready, tt.flags.Ready())
		})
	}
}

func TestFlagBitsPreserved(t *testing.T) {
	// The low three bits pass through the codec untouched.
	c := &Character{Name: "Odd", Flags: FlagsNewCharacter | 0x05}
	frame := Marshal(c)
	assert.Equal(t, byte(0xCD), frame[1+NameLen])
}
