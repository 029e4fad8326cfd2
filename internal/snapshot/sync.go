package snapshot

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/world"
)

// AgentSummary is the abbreviated per-agent sync record.
type AgentSummary struct {
	ID       uint32  `json:"id"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Activity string  `json:"activity"`
	Intent   string  `json:"intent"`
	Mood     float64 `json:"mood"`
	Health   float64 `json:"health"`
	Slot     int32   `json:"slot"`
}

// AgentDetail is the expanded record sent only for the focused agent.
type AgentDetail struct {
	AgentSummary
	Age           int                  `json:"age"`
	Role          string               `json:"role"`
	Needs         map[string]float64   `json:"needs"`
	Buffs         []model.Buff         `json:"buffs,omitempty"`
	Relationships []RelationshipRecord `json:"relationships,omitempty"`
	Memories      []model.Memory       `json:"memories,omitempty"`
	Job           *JobRecord           `json:"job,omitempty"`
	HomeID        uint32               `json:"home_id,omitempty"`
	Money         float64              `json:"money"`
	Reason        string               `json:"reason,omitempty"`
	Queue         []string             `json:"queue,omitempty"`
}

// Sync is the periodic structured snapshot.
type Sync struct {
	Tick    uint64         `json:"tick"`
	Clock   float64        `json:"clock"`
	Label   string         `json:"label"`
	Agents  []AgentSummary `json:"agents"`
	Focused *AgentDetail   `json:"focused,omitempty"`
}

// BuildSync summarizes every agent and expands the focused one (0 = none).
func BuildSync(w *world.World, focused model.AgentID) Sync {
	s := Sync{
		Tick:   w.Tick(),
		Clock:  w.Clock(),
		Label:  policy.FormatClock(w.Clock()),
		Agents: make([]AgentSummary, 0, w.AgentCount()),
	}
	for _, a := range w.Agents() {
		s.Agents = append(s.Agents, summarize(a))
	}
	if a, ok := w.Agent(focused); ok && focused != 0 {
		d := detail(a)
		s.Focused = &d
	}
	return s
}

func summarize(a *model.Agent) AgentSummary {
	return AgentSummary{
		ID:       uint32(a.ID),
		Name:     a.Name,
		X:        a.Pos.X,
		Y:        a.Pos.Y,
		Activity: a.Activity.Label(),
		Intent:   a.Intent.String(),
		Mood:     a.Mood,
		Health:   a.Health,
		Slot:     a.Slot,
	}
}

func detail(a *model.Agent) AgentDetail {
	d := AgentDetail{
		AgentSummary:  summarize(a),
		Age:           a.Age,
		Role:          a.Role.String(),
		Needs:         needsMap(a.Needs),
		Buffs:         append([]model.Buff(nil), a.Buffs...),
		Relationships: relationshipRecords(a),
		Memories:      append([]model.Memory(nil), a.Memories...),
		HomeID:        uint32(a.HomeID),
		Money:         a.Money,
		Reason:        a.Queue.Context.Reason,
	}
	if a.Job != nil {
		d.Job = &JobRecord{WorkplaceID: uint32(a.Job.WorkplaceID), Title: a.Job.Title}
	}
	for _, act := range a.Queue.Actions() {
		d.Queue = append(d.Queue, act.String())
	}
	return d
}
