package model

import "fmt"

// TargetKind discriminates Target.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetFurniture
	TargetAgent
)

// Target is either a piece of furniture or another agent.
// Resolve it by switching on Kind, never by inspecting payload types.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   uint32     `json:"id"`
}

// FurnitureTarget targets an interactable.
func FurnitureTarget(id InteractableID) Target {
	return Target{Kind: TargetFurniture, ID: uint32(id)}
}

// AgentTarget targets another agent.
func AgentTarget(id AgentID) Target {
	return Target{Kind: TargetAgent, ID: uint32(id)}
}

// IsZero reports whether the target is empty.
func (t Target) IsZero() bool {
	return t.Kind == TargetNone
}

// Furniture returns the interactable id when Kind is TargetFurniture.
func (t Target) Furniture() (InteractableID, bool) {
	return InteractableID(t.ID), t.Kind == TargetFurniture
}

// Agent returns the agent id when Kind is TargetAgent.
func (t Target) Agent() (AgentID, bool) {
	return AgentID(t.ID), t.Kind == TargetAgent
}

func (t Target) String() string {
	switch t.Kind {
	case TargetFurniture:
		return fmt.Sprintf("furniture:%d", t.ID)
	case TargetAgent:
		return fmt.Sprintf("agent:%d", t.ID)
	default:
		return "none"
	}
}

// InteractionKey selects the interacting activity.
type InteractionKey uint8

const (
	KeyNone InteractionKey = iota
	KeyEat
	KeySleep
	KeyWork
	KeyStudy
	KeyTalk
	KeyUse
	KeyBathe
	KeyRelieve
	KeySit
	KeyPlay
	KeyHeal
	KeyEscort
)

var keyNames = [...]string{
	"none", "eat", "sleep", "work", "study", "talk", "use", "bathe", "relieve", "sit", "play", "heal", "escort",
}

func (k InteractionKey) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// ActionKind discriminates QueuedAction.
type ActionKind uint8

const (
	ActionWalk ActionKind = iota + 1
	ActionInteract
	ActionWait
)

func (k ActionKind) String() string {
	switch k {
	case ActionWalk:
		return "walk"
	case ActionInteract:
		return "interact"
	case ActionWait:
		return "wait"
	default:
		return "invalid"
	}
}

// QueuedAction is one step of a plan. Fields are unexported: a queued action
// is immutable and only built through Walk, WalkTo, Interact and Wait.
type QueuedAction struct {
	kind     ActionKind
	dest     Point
	target   Target
	key      InteractionKey
	duration float64
}

// Walk moves to a fixed point.
func Walk(dest Point) QueuedAction {
	return QueuedAction{kind: ActionWalk, dest: dest}
}

// WalkTo moves to a target's position, resolved at dispatch time.
func WalkTo(t Target) QueuedAction {
	return QueuedAction{kind: ActionWalk, target: t}
}

// Interact uses a target with the given key.
func Interact(t Target, key InteractionKey) QueuedAction {
	return QueuedAction{kind: ActionInteract, target: t, key: key}
}

// Wait idles for the given number of sim minutes.
func Wait(minutes float64) QueuedAction {
	return QueuedAction{kind: ActionWait, duration: minutes}
}

func (a QueuedAction) Kind() ActionKind       { return a.kind }
func (a QueuedAction) Dest() Point            { return a.dest }
func (a QueuedAction) Target() Target         { return a.target }
func (a QueuedAction) Key() InteractionKey    { return a.key }
func (a QueuedAction) Duration() float64      { return a.duration }
func (a QueuedAction) HasTarget() bool        { return !a.target.IsZero() }

func (a QueuedAction) String() string {
	switch a.kind {
	case ActionWalk:
		if a.HasTarget() {
			return "walk(" + a.target.String() + ")"
		}
		return fmt.Sprintf("walk(%.0f,%.0f)", a.dest.X, a.dest.Y)
	case ActionInteract:
		return "interact(" + a.target.String() + "," + a.key.String() + ")"
	case ActionWait:
		return fmt.Sprintf("wait(%.0f)", a.duration)
	default:
		return "invalid"
	}
}

// ActionQueue is the FIFO plan realizing an intent plus its context.
// Only the planner builds queues; only the executor consumes them.
type ActionQueue struct {
	actions []QueuedAction
	Context PlanContext
}

// NewActionQueue builds a queue from actions in execution order.
func NewActionQueue(ctx PlanContext, actions ...QueuedAction) ActionQueue {
	q := ActionQueue{Context: ctx}
	q.actions = append(q.actions, actions...)
	return q
}

// Len returns the number of pending actions.
func (q *ActionQueue) Len() int { return len(q.actions) }

// Empty reports whether no action is pending.
func (q *ActionQueue) Empty() bool { return len(q.actions) == 0 }

// Peek returns the head without consuming it.
func (q *ActionQueue) Peek() (QueuedAction, bool) {
	if len(q.actions) == 0 {
		return QueuedAction{}, false
	}
	return q.actions[0], true
}

// Pop consumes the head.
func (q *ActionQueue) Pop() (QueuedAction, bool) {
	if len(q.actions) == 0 {
		return QueuedAction{}, false
	}
	head := q.actions[0]
	q.actions[0] = QueuedAction{}
	q.actions = q.actions[1:]
	return head, true
}

// Actions returns a copy of the pending actions.
func (q *ActionQueue) Actions() []QueuedAction {
	out := make([]QueuedAction, len(q.actions))
	copy(out, q.actions)
	return out
}

// Clear drops every pending action and resets the context.
func (q *ActionQueue) Clear() {
	q.actions = nil
	q.Context = PlanContext{}
}

// References reports whether any pending action points at t.
func (q *ActionQueue) References(t Target) bool {
	for _, a := range q.actions {
		if a.target == t {
			return true
		}
	}
	return false
}
