package world

import "testing"

func TestIDGeneratorRanges(t *testing.T) {
	g := NewIDGenerator()

	if id := g.NextAgentID(); id != agentIDBase+1 {
		t.Errorf("NextAgentID() = %#x, want %#x", id, agentIDBase+1)
	}
	if id := g.NextInteractableID(); id != interactableIDBase+1 {
		t.Errorf("NextInteractableID() = %#x, want %#x", id, interactableIDBase+1)
	}
	if id := g.NextRoomID(); id != roomIDBase+1 {
		t.Errorf("NextRoomID() = %#x, want %#x", id, roomIDBase+1)
	}
}

func TestIDGeneratorObserve(t *testing.T) {
	g := NewIDGenerator()

	g.ObserveAgent(agentIDBase + 50)
	g.ObserveAgent(7) // outside runtime range, ignored
	g.ObserveAgent(agentIDBase + 10)

	if id := g.NextAgentID(); id != agentIDBase+51 {
		t.Errorf("NextAgentID() after Observe = %#x, want %#x", id, agentIDBase+51)
	}
}
