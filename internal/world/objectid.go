package world

import "sync/atomic"

// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: ids chosen by map files and saves
//	0x10000000 - 0x1FFFFFFF: agents spawned at runtime
//	0x20000000 - 0x2FFFFFFF: interactables placed at runtime
//	0x30000000 - 0x3FFFFFFF: rooms placed at runtime
const (
	agentIDBase        = 0x10000000
	interactableIDBase = 0x20000000
	roomIDBase         = 0x30000000
)

// IDGenerator hands out unique ids per entity kind.
// Ids restored from a save are fed back through Observe so new ids never collide.
type IDGenerator struct {
	nextAgent        atomic.Uint32
	nextInteractable atomic.Uint32
	nextRoom         atomic.Uint32
}

// NewIDGenerator creates a generator positioned at the start of every range.
func NewIDGenerator() *IDGenerator {
	g := &IDGenerator{}
	g.nextAgent.Store(agentIDBase)
	g.nextInteractable.Store(interactableIDBase)
	g.nextRoom.Store(roomIDBase)
	return g
}

// NextAgentID generates the next agent id.
func (g *IDGenerator) NextAgentID() uint32 {
	return g.nextAgent.Add(1)
}

// NextInteractableID generates the next interactable id.
func (g *IDGenerator) NextInteractableID() uint32 {
	return g.nextInteractable.Add(1)
}

// NextRoomID generates the next room id.
func (g *IDGenerator) NextRoomID() uint32 {
	return g.nextRoom.Add(1)
}

// ObserveAgent advances the agent counter past id if id lies in the runtime range.
func (g *IDGenerator) ObserveAgent(id uint32) {
	observe(&g.nextAgent, id, agentIDBase)
}

// ObserveInteractable advances the interactable counter past id.
func (g *IDGenerator) ObserveInteractable(id uint32) {
	observe(&g.nextInteractable, id, interactableIDBase)
}

// ObserveRoom advances the room counter past id.
func (g *IDGenerator) ObserveRoom(id uint32) {
	observe(&g.nextRoom, id, roomIDBase)
}

func observe(counter *atomic.Uint32, id, base uint32) {
	if id < base || id >= base+0x10000000 {
		return
	}
	for {
		cur := counter.Load()
		if id <= cur || counter.CompareAndSwap(cur, id) {
			return
		}
	}
}
