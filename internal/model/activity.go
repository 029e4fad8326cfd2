package model

// ActivityState is the state-machine tag of an agent.
type ActivityState uint8

const (
	// StateIdle - resting state, eligible for re-evaluation
	StateIdle ActivityState = iota
	// StateMoving - following a path
	StateMoving
	// StateCommuting - following a path to work or school
	StateCommuting
	// StateWaiting - timed wait
	StateWaiting
	// StateEscorted - following a caregiver
	StateEscorted
	// StateInteracting - using a target, parameterized by Activity.Key
	StateInteracting
)

func (s ActivityState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMoving:
		return "moving"
	case StateCommuting:
		return "commuting"
	case StateWaiting:
		return "waiting"
	case StateEscorted:
		return "escorted"
	case StateInteracting:
		return "interacting"
	default:
		return "unknown"
	}
}

// interactingCodeBase offsets interaction keys in the published activity code.
const interactingCodeBase = 16

// Activity is the agent's current executing behavior and its private timer.
type Activity struct {
	State ActivityState
	Key   InteractionKey
	// Timer counts down in sim minutes for timed states.
	Timer  float64
	Target Target

	Path      []Point
	PathIndex int
	// Reserved is the furniture whose reservation must be released on exit.
	Reserved InteractableID
	// EscortedBy is set while StateEscorted.
	EscortedBy AgentID
}

// Code returns the integer activity code published in the hot-state table:
// idle 0, moving 1, commuting 2, waiting 3, escorted 4, interacting 16+key.
func (a Activity) Code() int32 {
	if a.State == StateInteracting {
		return interactingCodeBase + int32(a.Key)
	}
	return int32(a.State)
}

// Label is a short human-readable description (used in sync records).
func (a Activity) Label() string {
	if a.State == StateInteracting {
		return a.Key.String()
	}
	return a.State.String()
}

// Busy reports whether the state is long-running (not idle).
func (a Activity) Busy() bool {
	return a.State != StateIdle
}
