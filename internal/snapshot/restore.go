package snapshot

import (
	"fmt"
	"math"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/world"
)

// RestoreOptions carries runtime settings that are not part of a save.
type RestoreOptions struct {
	Tables        policy.Tables
	MaxExpansions int
}

// Restore builds a fresh world from s. The caller swaps it in only on
// success, so a refused save never touches the running world.
// Restored agents start idle with an empty plan.
func (s *Save) Restore(opts RestoreOptions) (*world.World, error) {
	if s.World.Width <= 0 || s.World.Height <= 0 {
		return nil, fmt.Errorf("%w: world layout %vx%v", ErrInvalidSnapshot, s.World.Width, s.World.Height)
	}
	if s.Clock < 0 || math.IsNaN(s.Clock) {
		return nil, fmt.Errorf("%w: clock %v", ErrInvalidSnapshot, s.Clock)
	}
	seen := make(map[uint32]struct{}, len(s.Agents))
	for _, r := range s.Agents {
		if r.ID == 0 {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate agent id %d", ErrInvalidSnapshot, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	w := world.New(world.Options{
		Layout:        s.ModelLayout(),
		Rooms:         s.ModelRooms(),
		Interactables: s.ModelInteractables(),
		Tables:        opts.Tables,
		MaxExpansions: opts.MaxExpansions,
		StartMinute:   s.Clock,
	})
	w.SetLog(s.Log)
	for _, r := range s.Agents {
		w.AddAgent(r.Agent())
	}

	// Drop edges towards agents that are not part of the save.
	for _, a := range w.Agents() {
		for id := range a.Relationships {
			if _, ok := w.Agent(id); !ok {
				a.Forget(id)
			}
		}
		if _, ok := w.Agent(a.Partner); !ok {
			a.Partner = 0
		}
	}
	return w, nil
}

// ModelLayout converts the world record.
func (m Map) ModelLayout() model.Layout {
	return model.Layout{
		Width:    m.World.Width,
		Height:   m.World.Height,
		CellSize: m.World.CellSize,
		Walls:    append([]model.Rect(nil), m.World.Walls...),
	}
}

// ModelRooms converts the room records.
func (m Map) ModelRooms() []model.Room {
	out := make([]model.Room, 0, len(m.Rooms))
	for _, r := range m.Rooms {
		out = append(out, model.Room{
			ID:          model.RoomID(r.ID),
			Name:        r.Name,
			Kind:        model.ParseRoomKind(r.Kind),
			Bounds:      r.Bounds,
			HomeID:      model.HomeID(r.HomeID),
			WorkplaceID: model.WorkplaceID(r.WorkplaceID),
		})
	}
	return out
}

// ModelInteractables converts the furniture records. Unknown utilities
// become decor; a missing capacity means single occupant.
func (m Map) ModelInteractables() []*model.Interactable {
	out := make([]*model.Interactable, 0, len(m.Interactables))
	for _, r := range m.Interactables {
		u, _ := model.ParseUtility(r.Utility)
		out = append(out, &model.Interactable{
			ID:          model.InteractableID(r.ID),
			Kind:        r.Kind,
			Bounds:      r.Bounds,
			Utility:     u,
			Capacity:    max(r.Capacity, 1),
			HomeID:      model.HomeID(r.HomeID),
			WorkplaceID: model.WorkplaceID(r.WorkplaceID),
			Cost:        r.Cost,
			PriceTier:   min(max(r.PriceTier, 0), 3),
			Passable:    r.Passable,
			MinAge:      r.MinAge,
			OpenHour:    r.OpenHour,
			CloseHour:   r.CloseHour,
		})
	}
	return out
}

// Agent converts the record, substituting defaults for absent fields.
func (r AgentRecord) Agent() *model.Agent {
	a := model.NewAgent(model.AgentID(r.ID), r.Name)
	if r.Age != nil {
		a.Age = *r.Age
	}
	a.Role = model.ParseRole(r.Role)
	a.FamilyID = r.FamilyID
	a.Pos = model.Pt(r.X, r.Y)
	a.Facing = model.Facing(r.Facing % 8)
	a.Visible = !r.Hidden

	for name, v := range r.Needs {
		if k, ok := model.ParseNeed(name); ok {
			a.Needs.Set(k, v)
		}
	}
	if r.Health != nil {
		a.Health = model.ClampNeed(*r.Health)
	}
	if r.Mood != nil {
		a.Mood = model.ClampNeed(*r.Mood)
	}
	for _, b := range r.Buffs {
		if b.Remaining > 0 {
			a.Buffs = append(a.Buffs, b)
		}
	}
	a.Traits = model.Traits{
		Frugality:   r.Traits.Frugality,
		Snobbery:    r.Traits.Snobbery,
		Sociability: r.Traits.Sociability,
		Playfulness: r.Traits.Playfulness,
		Diligence:   r.Traits.Diligence,
	}
	for name, v := range r.Traits.Affinity {
		if u, ok := model.ParseUtility(name); ok {
			if a.Traits.Affinity == nil {
				a.Traits.Affinity = make(map[model.Utility]float64)
			}
			a.Traits.Affinity[u] = v
		}
	}
	for name, v := range r.Metabolism {
		if k, ok := model.ParseNeed(name); ok && v >= 0 {
			a.Metabolism[k] = v
		}
	}
	a.NoDecay = r.NoDecay
	if r.MoveSpeed > 0 {
		a.MoveSpeed = r.MoveSpeed
	}

	for _, rel := range r.Relationships {
		if rel.Other == 0 || rel.Other == r.ID {
			continue
		}
		edge := a.Relationship(model.AgentID(rel.Other))
		edge.Kind = model.ParseRelationKind(rel.Kind)
		edge.Affinity = max(min(rel.Affinity, 100), -100)
	}
	a.Partner = model.AgentID(r.Partner)
	a.HomeID = model.HomeID(r.HomeID)
	if r.Job != nil && r.Job.WorkplaceID != 0 {
		a.Job = &model.Job{WorkplaceID: model.WorkplaceID(r.Job.WorkplaceID), Title: r.Job.Title}
	}
	a.InSchool = r.InSchool
	a.LeaveUntilDay = r.LeaveUntilDay
	a.ScheduleOffset = r.ScheduleOffset
	a.Money = r.Money
	a.LonelyMinutes = max(r.LonelyMinutes, 0)
	for _, m := range r.Memories {
		a.Remember(m.Minute, m.Text)
	}
	return a
}
