package world

import (
	"github.com/udisondev/hearth/internal/model"
)

// Interactable returns the object with id.
func (w *World) Interactable(id model.InteractableID) (*model.Interactable, bool) {
	it, ok := w.items[id]
	return it, ok
}

// Interactables returns every object sorted by id. The slice is shared; do not modify it.
func (w *World) Interactables() []*model.Interactable {
	return w.itemOrder
}

// AddInteractable places a new object and rebuilds the grid.
func (w *World) AddInteractable(it *model.Interactable) model.InteractableID {
	items := append(w.cloneItems(), it)
	w.ReplaceMap(w.layout, w.rooms, items)
	if it.ID != 0 {
		return it.ID
	}
	return w.itemOrder[len(w.itemOrder)-1].ID
}

// RemoveInteractable deletes an object and rebuilds the grid. Unknown ids are a no-op.
func (w *World) RemoveInteractable(id model.InteractableID) bool {
	if _, ok := w.items[id]; !ok {
		return false
	}
	items := make([]*model.Interactable, 0, len(w.itemOrder))
	for _, it := range w.itemOrder {
		if it.ID != id {
			items = append(items, it)
		}
	}
	w.ReplaceMap(w.layout, w.rooms, items)
	return true
}

// cloneItems returns the object set in id order without copying reservations
// (ReplaceMap carries them over by id).
func (w *World) cloneItems() []*model.Interactable {
	out := make([]*model.Interactable, len(w.itemOrder))
	copy(out, w.itemOrder)
	return out
}

// Reserve claims it for agent. Exactly one agent wins a single-occupant object
// within a tick; later callers see it as unavailable.
func (w *World) Reserve(id model.InteractableID, agent model.AgentID) bool {
	it, ok := w.items[id]
	if !ok {
		return false
	}
	return it.Reserve(agent)
}

// Release drops agent's reservation on id.
func (w *World) Release(id model.InteractableID, agent model.AgentID) {
	if it, ok := w.items[id]; ok {
		it.Release(agent)
	}
}

// ReleaseAll drops every reservation held by agent.
func (w *World) ReleaseAll(agent model.AgentID) {
	for _, it := range w.itemOrder {
		it.Release(agent)
	}
}

// Rooms returns the room list. Do not modify.
func (w *World) Rooms() []model.Room {
	return w.rooms
}

// RoomAt returns the first room containing p.
func (w *World) RoomAt(p model.Point) (model.Room, bool) {
	for _, r := range w.rooms {
		if r.Bounds.Contains(p) {
			return r, true
		}
	}
	return model.Room{}, false
}

// HomeRoom returns the room of a home.
func (w *World) HomeRoom(home model.HomeID) (model.Room, bool) {
	for _, r := range w.rooms {
		if r.Kind == model.RoomHome && r.HomeID == home && home != 0 {
			return r, true
		}
	}
	return model.Room{}, false
}

// HomeIDs lists every home defined by rooms, in room order, without duplicates.
func (w *World) HomeIDs() []model.HomeID {
	var out []model.HomeID
	seen := make(map[model.HomeID]bool)
	for _, r := range w.rooms {
		if r.Kind == model.RoomHome && r.HomeID != 0 && !seen[r.HomeID] {
			seen[r.HomeID] = true
			out = append(out, r.HomeID)
		}
	}
	return out
}

// WorkRoom returns the room of a workplace.
func (w *World) WorkRoom(id model.WorkplaceID) (model.Room, bool) {
	for _, r := range w.rooms {
		if r.Kind == model.RoomWork && r.WorkplaceID == id && id != 0 {
			return r, true
		}
	}
	return model.Room{}, false
}

// SchoolRoom returns the first school room.
func (w *World) SchoolRoom() (model.Room, bool) {
	for _, r := range w.rooms {
		if r.Kind == model.RoomSchool {
			return r, true
		}
	}
	return model.Room{}, false
}

// Walkable returns the nearest walkable point to p.
func (w *World) Walkable(p model.Point) model.Point {
	if w.grid.WalkableAt(p) {
		return p
	}
	if q, ok := w.grid.NearestWalkablePoint(p); ok {
		return q
	}
	return p
}
