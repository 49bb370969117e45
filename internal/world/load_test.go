package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/lurkgo/internal/protocol"
)

const sampleMap = `{
	"rooms": [
		{
			"id": 0,
			"name": "Temple Entrance",
			"description": "Torchlight flickers over cracked stone.",
			"exits": ["Collapsed Hallway"],
			"characters": [],
			"monsters": []
		},
		{
			"id": 1,
			"name": "Collapsed Hallway",
			"description": "Rubble everywhere. Something moved.",
			"exits": ["Temple Entrance", "Flooded Cellar"],
			"characters": [],
			"monsters": ["Moblin"]
		},
		{
			"id": 2,
			"name": "Flooded Cellar",
			"description": "Knee-deep water, smells of rot.",
			"exits": ["Collapsed Hallway"],
			"characters": [],
			"monsters": []
		}
	],
	"monsters": [
		{
			"name": "Moblin",
			"description": "A spear and a bad attitude.",
			"attack": 5,
			"defense": 2,
			"regen": 10,
			"health": 20,
			"gold": 50,
			"current_room": 1
		}
	]
}`

func TestParseMap(t *testing.T) {
	w, err := ParseMap([]byte(sampleMap))
	require.NoError(t, err)

	require.Len(t, w.Rooms(), 3)

	entrance, ok := w.RoomByID(0)
	require.True(t, ok)
	assert.Equal(t, "Temple Entrance", entrance.Name)
	assert.Equal(t, []string{"Collapsed Hallway"}, entrance.Exits)
	assert.Empty(t, entrance.Characters)

	hallway, ok := w.RoomByName("Collapsed Hallway")
	require.True(t, ok)
	assert.Equal(t, uint16(1), hallway.ID)
	assert.Equal(t, []uint16{0, 2}, w.ExitIDs(hallway))

	moblin, ok := w.Monster("Moblin")
	require.True(t, ok)
	assert.Equal(t, protocol.FlagsMonster, moblin.Flags)
	assert.Equal(t, uint16(5), moblin.Attack)
	assert.Equal(t, int16(20), moblin.Health)
	assert.Equal(t, uint16(50), moblin.Gold)
	assert.Equal(t, uint16(1), moblin.CurrentRoom)
}

func TestParseMapForcesMonsterFlags(t *testing.T) {
	// A flags field in the file is ignored.
	w, err := ParseMap([]byte(`{
		"rooms": [{"id": 0, "name": "Pit", "description": "", "exits": [], "characters": [], "monsters": ["Rat"]}],
		"monsters": [{"name": "Rat", "description": "", "flags": 0, "current_room": 0}]
	}`))
	require.NoError(t, err)

	rat, ok := w.Monster("Rat")
	require.True(t, ok)
	assert.Equal(t, protocol.FlagsMonster, rat.Flags)

	// Missing numeric fields default to zero
	assert.Zero(t, rat.Attack)
	assert.Zero(t, rat.Gold)
	assert.Zero(t, rat.Health)
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"missing rooms", `{"monsters": []}`},
		{"no rooms", `{"rooms": [], "monsters": []}`},
		{
			"id position mismatch",
			`{"rooms": [{"id": 5, "name": "A", "description": "", "exits": [], "characters": [], "monsters": []}], "monsters": []}`,
		},
		{
			"duplicate room name",
			`{"rooms": [
				{"id": 0, "name": "A", "description": "", "exits": [], "characters": [], "monsters": []},
				{"id": 1, "name": "A", "description": "", "exits": [], "characters": [], "monsters": []}
			], "monsters": []}`,
		},
		{
			"dangling exit",
			`{"rooms": [{"id": 0, "name": "A", "description": "", "exits": ["Nowhere"], "characters": [], "monsters": []}], "monsters": []}`,
		},
		{
			"unknown room monster",
			`{"rooms": [{"id": 0, "name": "A", "description": "", "exits": [], "characters": [], "monsters": ["Ghost"]}], "monsters": []}`,
		},
		{
			"monster room mismatch",
			`{"rooms": [
				{"id": 0, "name": "A", "description": "", "exits": [], "characters": [], "monsters": ["Rat"]},
				{"id": 1, "name": "B", "description": "", "exits": [], "characters": [], "monsters": []}
			], "monsters": [{"name": "Rat", "description": "", "current_room": 1}]}`,
		},
		{
			"duplicate monster name",
			`{"rooms": [{"id": 0, "name": "A", "description": "", "exits": [], "characters": [], "monsters": []}],
			"monsters": [
				{"name": "Rat", "description": "", "current_room": 0},
				{"name": "Rat", "description": "", "current_room": 0}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMap([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestMoveCharacter(t *testing.T) {
	w, err := ParseMap([]byte(sampleMap))
	require.NoError(t, err)

	w.PlaceCharacter("Link", 0)
	entrance, _ := w.RoomByID(0)
	assert.Equal(t, []string{"Link"}, entrance.Characters)

	// Placing twice does not duplicate
	w.PlaceCharacter("Link", 0)
	assert.Equal(t, []string{"Link"}, entrance.Characters)

	w.MoveCharacter("Link", 0, 1)
	hallway, _ := w.RoomByID(1)
	assert.Empty(t, entrance.Characters)
	assert.Equal(t, []string{"Link"}, hallway.Characters)

	// The name lives in exactly one room list
	total := 0
	for _, r := range w.Rooms() {
		for _, n := range r.Characters {
			if n == "Link" {
				total++
			}
		}
	}
	assert.Equal(t, 1, total)
}

func TestMonsterSheet(t *testing.T) {
	w, err := ParseMap([]byte(sampleMap))
	require.NoError(t, err)

	moblin, _ := w.Monster("Moblin")
	sheet := moblin.Sheet()
	assert.Equal(t, "Moblin", sheet.Name)
	assert.True(t, sheet.Flags.IsMonster())
	assert.Equal(t, uint16(1), sheet.RoomNumber)
	assert.Equal(t, moblin.Description, sheet.Description)
}
