package model

// Role classifies agents for access and scheduling rules.
type Role uint8

const (
	RoleAdult Role = iota
	RoleChild
	RoleElder
	// RoleHelper is an inanimate-ish NPC helper (caregiver); its needs never decay.
	RoleHelper
)

func (r Role) String() string {
	switch r {
	case RoleChild:
		return "child"
	case RoleElder:
		return "elder"
	case RoleHelper:
		return "helper"
	default:
		return "adult"
	}
}

// ParseRole resolves a name produced by String. Unknown names are adults.
func ParseRole(s string) Role {
	switch s {
	case "child":
		return RoleChild
	case "elder":
		return RoleElder
	case "helper":
		return RoleHelper
	default:
		return RoleAdult
	}
}

// Traits are personality modifiers in [0,1] unless noted.
type Traits struct {
	Frugality   float64
	Snobbery    float64
	Sociability float64
	Playfulness float64
	Diligence   float64
	// Affinity biases target choice per utility (roughly [-1,1]).
	Affinity map[Utility]float64
}

// RelationKind classifies a relationship.
type RelationKind uint8

const (
	RelationAcquaintance RelationKind = iota
	RelationFriend
	RelationFamily
	RelationPartner
)

func (k RelationKind) String() string {
	switch k {
	case RelationFriend:
		return "friend"
	case RelationFamily:
		return "family"
	case RelationPartner:
		return "partner"
	default:
		return "acquaintance"
	}
}

// ParseRelationKind resolves a name produced by String.
func ParseRelationKind(s string) RelationKind {
	switch s {
	case "friend":
		return RelationFriend
	case "family":
		return RelationFamily
	case "partner":
		return RelationPartner
	default:
		return RelationAcquaintance
	}
}

// Relationship is one directed edge of the social graph.
type Relationship struct {
	Kind     RelationKind
	Affinity float64 // -100..100
}

// Job ties an agent to a workplace.
type Job struct {
	WorkplaceID WorkplaceID
	Title       string
}

// Memory is a notable thing that happened to an agent.
type Memory struct {
	Minute float64 `json:"minute"`
	Text   string  `json:"text"`
}

// MaxMemories caps the per-agent memory list.
const MaxMemories = 20

// NoSlot marks an agent not mirrored into the hot-state table.
const NoSlot int32 = -1

// Agent is a simulated person. Owned by the simulation goroutine;
// nothing outside it mutates an Agent.
type Agent struct {
	ID       AgentID
	Name     string
	Age      int
	Role     Role
	FamilyID uint32

	Pos     Point
	Facing  Facing
	Visible bool

	Needs  Needs
	Health float64
	Mood   float64
	Buffs  []Buff

	Traits     Traits
	Metabolism Metabolism
	// NoDecay exempts the agent from need decay (helpers).
	NoDecay bool
	// MoveSpeed is in world units per sim minute.
	MoveSpeed float64

	Intent   Intent
	Queue    ActionQueue
	Activity Activity

	Relationships map[AgentID]*Relationship
	Partner       AgentID
	HomeID        HomeID
	Job           *Job
	InSchool      bool
	// LeaveUntilDay suppresses work/school while Day < LeaveUntilDay.
	LeaveUntilDay int
	// ScheduleOffset shifts schedule boundaries in sim minutes so agents
	// do not all leave the house at the same instant.
	ScheduleOffset float64

	Money         float64
	LonelyMinutes float64
	Memories      []Memory

	// DecisionCooldown is the number of ticks before the next re-evaluation.
	DecisionCooldown int
	// Slot is the hot-state slot, NoSlot when not mirrored.
	Slot int32
}

// NewAgent creates an agent with full needs and neutral modifiers.
func NewAgent(id AgentID, name string) *Agent {
	return &Agent{
		ID:            id,
		Name:          name,
		Age:           30,
		Visible:       true,
		Needs:         FullNeeds(),
		Health:        100,
		Mood:          100,
		Metabolism:    DefaultMetabolism(),
		MoveSpeed:     60,
		Relationships: make(map[AgentID]*Relationship),
		Slot:          NoSlot,
	}
}

// Relationship returns the edge towards other, creating an acquaintance edge on demand.
func (a *Agent) Relationship(other AgentID) *Relationship {
	if a.Relationships == nil {
		a.Relationships = make(map[AgentID]*Relationship)
	}
	r, ok := a.Relationships[other]
	if !ok {
		r = &Relationship{}
		a.Relationships[other] = r
	}
	return r
}

// Forget purges every reference to other (relationship, partner).
func (a *Agent) Forget(other AgentID) {
	delete(a.Relationships, other)
	if a.Partner == other {
		a.Partner = 0
	}
}

// Remember appends a memory, evicting the oldest beyond MaxMemories.
func (a *Agent) Remember(minute float64, text string) {
	a.Memories = append(a.Memories, Memory{Minute: minute, Text: text})
	if over := len(a.Memories) - MaxMemories; over > 0 {
		a.Memories = append(a.Memories[:0], a.Memories[over:]...)
	}
}

// IsAdult reports whether the agent counts as an adult for social triggers.
func (a *Agent) IsAdult() bool {
	return a.Role == RoleAdult || a.Role == RoleElder
}

// Employed reports whether the agent has a job.
func (a *Agent) Employed() bool {
	return a.Job != nil && a.Job.WorkplaceID != 0
}
