package protocol

// Flags is the CHARACTER status bitfield. The low three bits are unused
// and preserved as sent.
type Flags byte

const (
	FlagAlive      Flags = 1 << 7
	FlagJoinBattle Flags = 1 << 6
	FlagMonster    Flags = 1 << 5
	FlagStarted    Flags = 1 << 4
	FlagReady      Flags = 1 << 3
)

// Composite values the server assigns at character lifecycle points.
const (
	FlagsNewCharacter     = FlagAlive | FlagJoinBattle | FlagReady // 0xC8: accepted or revived
	FlagsStartedCharacter = FlagsNewCharacter | FlagStarted        // 0xD8: in the game world
	FlagsMonster          = FlagsStartedCharacter | FlagMonster    // 0xF8: monster at map load
	FlagsDeadMonster      = FlagMonster | FlagStarted | FlagReady  // 0x38
	FlagsDeadCharacter    = FlagStarted | FlagReady                // 0x18
	FlagsInactive         = Flags(0)                               // after LEAVE
)

func (f Flags) Alive() bool       { return f&FlagAlive != 0 }
func (f Flags) JoinsBattle() bool { return f&FlagJoinBattle != 0 }
func (f Flags) IsMonster() bool   { return f&FlagMonster != 0 }
func (f Flags) Started() bool     { return f&FlagStarted != 0 }
func (f Flags) Ready() bool       { return f&FlagReady != 0 }
