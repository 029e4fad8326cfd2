package world

import (
	"cmp"
	"slices"

	"github.com/udisondev/hearth/internal/model"
)

// AddAgent registers a. A zero id is replaced by a freshly generated one.
// Returns the agent id.
func (w *World) AddAgent(a *model.Agent) model.AgentID {
	if a.ID == 0 {
		a.ID = model.AgentID(w.ids.NextAgentID())
	}
	w.ids.ObserveAgent(uint32(a.ID))
	if _, exists := w.agents[a.ID]; !exists {
		i, _ := slices.BinarySearchFunc(w.agentOrder, a.ID, func(x *model.Agent, id model.AgentID) int {
			return cmp.Compare(x.ID, id)
		})
		w.agentOrder = slices.Insert(w.agentOrder, i, a)
	} else {
		for i, x := range w.agentOrder {
			if x.ID == a.ID {
				w.agentOrder[i] = a
			}
		}
	}
	w.agents[a.ID] = a
	return a.ID
}

// Agent returns the agent with id.
func (w *World) Agent(id model.AgentID) (*model.Agent, bool) {
	a, ok := w.agents[id]
	return a, ok
}

// Agents returns every agent sorted by id. The slice is shared; do not modify it.
func (w *World) Agents() []*model.Agent {
	return w.agentOrder
}

// AgentCount returns the population size.
func (w *World) AgentCount() int {
	return len(w.agentOrder)
}

// RemoveAgent deletes the agent and purges every reference to it: relationship
// edges, partner links, escorts and reservations. Unknown ids are a no-op.
// Returns the removed agent so the caller can free its hot-state slot.
func (w *World) RemoveAgent(id model.AgentID) (*model.Agent, bool) {
	a, ok := w.agents[id]
	if !ok {
		return nil, false
	}
	delete(w.agents, id)
	w.agentOrder = slices.DeleteFunc(w.agentOrder, func(x *model.Agent) bool { return x.ID == id })
	w.ReleaseAll(id)

	for _, other := range w.agentOrder {
		other.Forget(id)
		if other.Activity.EscortedBy == id {
			other.Activity.EscortedBy = 0
			other.Activity.State = model.StateIdle
			other.Activity.Path = nil
			other.DecisionCooldown = 0
		}
	}
	return a, true
}

// ReindexAgents refreshes the neighbourhood buckets from current positions.
func (w *World) ReindexAgents() {
	w.regions.rebuild(w.agentOrder)
}

// AgentsNear returns agents within radius of p, sorted by id, excluding except.
// It relies on the index built by the last ReindexAgents call.
func (w *World) AgentsNear(p model.Point, radius float64, except model.AgentID) []*model.Agent {
	r2 := radius * radius
	var out []*model.Agent
	for _, id := range w.regions.surrounding(p, radius) {
		if id == except {
			continue
		}
		a, ok := w.agents[id]
		if !ok || a.Pos.DistanceSquared(p) > r2 {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Household returns the agents living in home, sorted by id.
func (w *World) Household(home model.HomeID) []*model.Agent {
	if home == 0 {
		return nil
	}
	var out []*model.Agent
	for _, a := range w.agentOrder {
		if a.HomeID == home {
			out = append(out, a)
		}
	}
	return out
}
