package protocol

// ErrorCode is the failure category carried by an ERROR message.
type ErrorCode byte

const (
	CodeOther          ErrorCode = 0
	CodeBadRoom        ErrorCode = 1
	CodePlayerExists   ErrorCode = 2
	CodeBadMonster     ErrorCode = 3
	CodeStatError      ErrorCode = 4
	CodeNotReady       ErrorCode = 5
	CodeNoTarget       ErrorCode = 6
	CodeNoFight        ErrorCode = 7
	CodeNoPlayerCombat ErrorCode = 8
)

func (c ErrorCode) String() string {
	switch c {
	case CodeOther:
		return "Other"
	case CodeBadRoom:
		return "BadRoom"
	case CodePlayerExists:
		return "PlayerExists"
	case CodeBadMonster:
		return "BadMonster"
	case CodeStatError:
		return "StatError"
	case CodeNotReady:
		return "NotReady"
	case CodeNoTarget:
		return "NoTarget"
	case CodeNoFight:
		return "NoFight"
	case CodeNoPlayerCombat:
		return "NoPlayerCombat"
	default:
		return "Unknown"
	}
}
