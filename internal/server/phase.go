package server

// Phase represents the state machine for a client connection.
type Phase int

const (
	PhaseAwaitingCharacter Phase = iota // greeted, no character accepted yet
	PhaseAccepted                       // CHARACTER accepted, game not started
	PhaseStarted                        // START accepted, acting in the world
	PhaseClosed                         // session over: LEAVE, violation, or socket death
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingCharacter:
		return "AWAITING_CHARACTER"
	case PhaseAccepted:
		return "ACCEPTED"
	case PhaseStarted:
		return "STARTED"
	case PhaseClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
