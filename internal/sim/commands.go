package sim

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/snapshot"
)

// Command is a request from the presentation side. Commands are applied in
// arrival order at the next tick boundary. Commands naming unknown ids are
// no-ops.
type Command interface {
	apply(s *Simulation)
}

// AgentConfig describes an agent to spawn. Zero fields get defaults.
type AgentConfig struct {
	Name        string                 `json:"name"`
	Age         int                    `json:"age,omitempty"`
	Role        string                 `json:"role,omitempty"`
	Pos         *model.Point           `json:"pos,omitempty"`
	HomeID      model.HomeID           `json:"home_id,omitempty"`
	WorkplaceID model.WorkplaceID      `json:"workplace_id,omitempty"`
	JobTitle    string                 `json:"job_title,omitempty"`
	Money       *float64               `json:"money,omitempty"`
	Traits      *snapshot.TraitsRecord `json:"traits,omitempty"`
}

// SpawnAgent adds one agent.
type SpawnAgent struct {
	Config AgentConfig
}

// SpawnFamily adds a household. Members share a family id and home; the
// first two adults become partners.
type SpawnFamily struct {
	HomeID  model.HomeID
	Members []AgentConfig
}

// SelectAgent focuses an agent for expanded sync. Zero clears the focus.
type SelectAgent struct {
	ID model.AgentID
}

// SetSpeed scales sim minutes per tick. Zero pauses.
type SetSpeed struct {
	Multiplier float64
}

// RemoveAgent deletes an agent and every reference to it.
type RemoveAgent struct {
	ID model.AgentID
}

// AssignHome moves an agent into a home. A zero HomeID picks the first vacant one.
type AssignHome struct {
	ID     model.AgentID
	HomeID model.HomeID
}

// RequestCaregiver summons a helper for the home to take care of TargetID.
type RequestCaregiver struct {
	HomeID   model.HomeID
	Task     model.CaregiverTask
	TargetID model.AgentID
}

// ApplyMapEdit replaces layout, rooms and furniture wholesale.
type ApplyMapEdit struct {
	Map snapshot.Map
}

// SaveRequest captures the world and publishes EventSaveReady.
type SaveRequest struct {
	Slot string
}

// LoadRequest replaces the world with Save, or publishes EventLoadFailed.
type LoadRequest struct {
	Save *snapshot.Save
}

func (c SpawnAgent) apply(s *Simulation)       { s.spawnAgent(c.Config) }
func (c SpawnFamily) apply(s *Simulation)      { s.spawnFamily(c.HomeID, c.Members) }
func (c SelectAgent) apply(s *Simulation)      { s.selectAgent(c.ID) }
func (c SetSpeed) apply(s *Simulation)         { s.setSpeed(c.Multiplier) }
func (c RemoveAgent) apply(s *Simulation)      { s.removeAgent(c.ID) }
func (c AssignHome) apply(s *Simulation)       { s.assignHome(c.ID, c.HomeID) }
func (c RequestCaregiver) apply(s *Simulation) { s.requestCaregiver(c.HomeID, c.Task, c.TargetID) }
func (c ApplyMapEdit) apply(s *Simulation)     { s.applyMapEdit(c.Map) }
func (c SaveRequest) apply(s *Simulation)      { s.save(c.Slot) }
func (c LoadRequest) apply(s *Simulation)      { s.load(c.Save) }
