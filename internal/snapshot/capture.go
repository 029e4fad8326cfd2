package snapshot

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Capture copies the persistent state of w into a new save.
// Plans, activities and reservations are transient and not captured.
func Capture(w *world.World) *Save {
	s := &Save{
		Version:    Version,
		SnapshotID: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Clock:      w.Clock(),
		Tick:       w.Tick(),
		Log:        w.Log(),
		Map:        CaptureMap(w),
	}
	s.Agents = make([]AgentRecord, 0, w.AgentCount())
	for _, a := range w.Agents() {
		s.Agents = append(s.Agents, NewAgentRecord(a))
	}
	return s
}

// CaptureMap copies the layout, rooms and furniture of w.
func CaptureMap(w *world.World) Map {
	return NewMap(w.Layout(), w.Rooms(), w.Interactables())
}

// NewMap converts model values into a Map.
func NewMap(layout model.Layout, rooms []model.Room, items []*model.Interactable) Map {
	m := Map{
		World: WorldRecord{
			Width:    layout.Width,
			Height:   layout.Height,
			CellSize: layout.CellSize,
			Walls:    slices.Clone(layout.Walls),
		},
	}
	for _, r := range rooms {
		m.Rooms = append(m.Rooms, RoomRecord{
			ID:          uint32(r.ID),
			Name:        r.Name,
			Kind:        r.Kind.String(),
			Bounds:      r.Bounds,
			HomeID:      uint32(r.HomeID),
			WorkplaceID: uint32(r.WorkplaceID),
		})
	}
	for _, it := range items {
		m.Interactables = append(m.Interactables, InteractableRecord{
			ID:          uint32(it.ID),
			Kind:        it.Kind,
			Utility:     it.Utility.String(),
			Bounds:      it.Bounds,
			Capacity:    it.Capacity,
			HomeID:      uint32(it.HomeID),
			WorkplaceID: uint32(it.WorkplaceID),
			Cost:        it.Cost,
			PriceTier:   it.PriceTier,
			Passable:    it.Passable,
			MinAge:      it.MinAge,
			OpenHour:    it.OpenHour,
			CloseHour:   it.CloseHour,
		})
	}
	return m
}

// NewAgentRecord converts a into its persisted form.
func NewAgentRecord(a *model.Agent) AgentRecord {
	age, health, mood := a.Age, a.Health, a.Mood
	r := AgentRecord{
		ID:             uint32(a.ID),
		Name:           a.Name,
		Age:            &age,
		Role:           a.Role.String(),
		FamilyID:       a.FamilyID,
		X:              a.Pos.X,
		Y:              a.Pos.Y,
		Facing:         uint8(a.Facing),
		Hidden:         !a.Visible,
		Needs:          needsMap(a.Needs),
		Health:         &health,
		Mood:           &mood,
		Buffs:          slices.Clone(a.Buffs),
		Traits:         traitsRecord(a.Traits),
		Metabolism:     make(map[string]float64, model.NeedCount),
		NoDecay:        a.NoDecay,
		MoveSpeed:      a.MoveSpeed,
		Intent:         a.Intent.String(),
		Relationships:  relationshipRecords(a),
		Partner:        uint32(a.Partner),
		HomeID:         uint32(a.HomeID),
		InSchool:       a.InSchool,
		LeaveUntilDay:  a.LeaveUntilDay,
		ScheduleOffset: a.ScheduleOffset,
		Money:          a.Money,
		LonelyMinutes:  a.LonelyMinutes,
		Memories:       slices.Clone(a.Memories),
	}
	for _, k := range model.AllNeeds() {
		r.Metabolism[k.String()] = a.Metabolism[k]
	}
	if a.Job != nil {
		r.Job = &JobRecord{WorkplaceID: uint32(a.Job.WorkplaceID), Title: a.Job.Title}
	}
	return r
}

func needsMap(n model.Needs) map[string]float64 {
	out := make(map[string]float64, model.NeedCount)
	for _, k := range model.AllNeeds() {
		out[k.String()] = n.Get(k)
	}
	return out
}

func traitsRecord(t model.Traits) TraitsRecord {
	r := TraitsRecord{
		Frugality:   t.Frugality,
		Snobbery:    t.Snobbery,
		Sociability: t.Sociability,
		Playfulness: t.Playfulness,
		Diligence:   t.Diligence,
	}
	if len(t.Affinity) > 0 {
		r.Affinity = make(map[string]float64, len(t.Affinity))
		for u, v := range t.Affinity {
			r.Affinity[u.String()] = v
		}
	}
	return r
}

// relationshipRecords lists a's edges sorted by the other agent's id.
func relationshipRecords(a *model.Agent) []RelationshipRecord {
	out := make([]RelationshipRecord, 0, len(a.Relationships))
	for id, rel := range a.Relationships {
		out = append(out, RelationshipRecord{Other: uint32(id), Kind: rel.Kind.String(), Affinity: rel.Affinity})
	}
	slices.SortFunc(out, func(x, y RelationshipRecord) int { return cmp.Compare(x.Other, y.Other) })
	return out
}
