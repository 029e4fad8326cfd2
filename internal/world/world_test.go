package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
)

func newTestWorld(items ...*model.Interactable) *World {
	return New(Options{
		Layout:        model.Layout{Width: 400, Height: 400, CellSize: 20},
		Interactables: items,
		Tables:        policy.DefaultTables(),
	})
}

func TestNewBuildsGridFromInteractables(t *testing.T) {
	w := newTestWorld(
		&model.Interactable{ID: 1, Bounds: model.Rect{X: 40, Y: 40, W: 20, H: 20}},
		&model.Interactable{ID: 2, Bounds: model.Rect{X: 100, Y: 100, W: 40, H: 40}, Passable: true},
	)

	assert.False(t, w.Grid().WalkableAt(model.Pt(50, 50)))
	assert.True(t, w.Grid().WalkableAt(model.Pt(110, 110)), "passable surfaces never block")
	assert.Equal(t, 1, w.Grid().BlockedCount())
}

func TestRemoveInteractableSwapsGrid(t *testing.T) {
	w := newTestWorld(&model.Interactable{ID: 1, Bounds: model.Rect{X: 40, Y: 40, W: 20, H: 20}})
	before := w.Grid()
	version := w.GridVersion()

	require.True(t, w.RemoveInteractable(1))

	assert.NotSame(t, before, w.Grid())
	assert.Greater(t, w.GridVersion(), version)
	assert.False(t, before.WalkableAt(model.Pt(50, 50)), "old grid is untouched")
	assert.True(t, w.Grid().WalkableAt(model.Pt(50, 50)))
	assert.False(t, w.RemoveInteractable(1))
}

func TestAddInteractableAssignsRuntimeID(t *testing.T) {
	w := newTestWorld()

	id := w.AddInteractable(&model.Interactable{Bounds: model.Rect{X: 0, Y: 0, W: 20, H: 20}})

	assert.Greater(t, uint32(id), uint32(interactableIDBase))
	_, ok := w.Interactable(id)
	assert.True(t, ok)
}

func TestReserveSingleOccupantRace(t *testing.T) {
	w := newTestWorld(&model.Interactable{ID: 5, Capacity: 1})

	assert.True(t, w.Reserve(5, 1))
	assert.False(t, w.Reserve(5, 2))

	it, _ := w.Interactable(5)
	assert.False(t, it.Available(2))
	assert.False(t, w.Reserve(99, 1), "unknown object")
}

func TestReplaceMapKeepsReservationsByID(t *testing.T) {
	w := newTestWorld(&model.Interactable{ID: 5, Capacity: 1}, &model.Interactable{ID: 6})
	w.Reserve(5, 1)

	w.ReplaceMap(w.Layout(), nil, []*model.Interactable{{ID: 5, Capacity: 1}})

	it, ok := w.Interactable(5)
	require.True(t, ok)
	assert.True(t, it.ReservedBy(1))
	_, ok = w.Interactable(6)
	assert.False(t, ok)
}

func TestAgentsSortedByID(t *testing.T) {
	w := newTestWorld()
	w.AddAgent(model.NewAgent(30, "C"))
	w.AddAgent(model.NewAgent(10, "A"))
	w.AddAgent(model.NewAgent(20, "B"))

	var ids []model.AgentID
	for _, a := range w.Agents() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []model.AgentID{10, 20, 30}, ids)
}

func TestAddAgentGeneratesID(t *testing.T) {
	w := newTestWorld()

	id1 := w.AddAgent(model.NewAgent(0, "A"))
	id2 := w.AddAgent(model.NewAgent(0, "B"))

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, w.AgentCount())
}

func TestRemoveAgentPurgesReferences(t *testing.T) {
	w := newTestWorld(&model.Interactable{ID: 5, Capacity: 1})
	a := model.NewAgent(1, "A")
	b := model.NewAgent(2, "B")
	kid := model.NewAgent(3, "K")
	w.AddAgent(a)
	w.AddAgent(b)
	w.AddAgent(kid)

	b.Relationship(1).Affinity = 50
	b.Partner = 1
	kid.Activity.State = model.StateEscorted
	kid.Activity.EscortedBy = 1
	w.Reserve(5, 1)

	removed, ok := w.RemoveAgent(1)
	require.True(t, ok)
	assert.Equal(t, a, removed)

	_, ok = w.Agent(1)
	assert.False(t, ok)
	assert.NotContains(t, b.Relationships, model.AgentID(1))
	assert.Zero(t, b.Partner)
	assert.Equal(t, model.StateIdle, kid.Activity.State)
	assert.Zero(t, kid.Activity.EscortedBy)

	it, _ := w.Interactable(5)
	assert.Empty(t, it.Reservations())

	_, ok = w.RemoveAgent(1)
	assert.False(t, ok, "second removal is a no-op")
}

func TestAgentsNear(t *testing.T) {
	w := newTestWorld()
	for i, p := range []model.Point{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 300, Y: 300}, {X: 170, Y: 10}} {
		a := model.NewAgent(model.AgentID(i+1), "x")
		a.Pos = p
		w.AddAgent(a)
	}
	w.ReindexAgents()

	near := w.AgentsNear(model.Pt(10, 10), 200, 1)

	var ids []model.AgentID
	for _, a := range near {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []model.AgentID{2, 4}, ids)
}

func TestLogCapped(t *testing.T) {
	w := newTestWorld()
	for i := range MaxLogEntries + 10 {
		w.Logf("entry %d", i)
	}

	log := w.Log()
	require.Len(t, log, MaxLogEntries)
	assert.Equal(t, "entry 10", log[0].Text)
}

func TestAdvance(t *testing.T) {
	w := New(Options{Layout: model.Layout{Width: 100, Height: 100}, StartMinute: 60 * 23})

	w.Advance(90)

	assert.Equal(t, 1, w.Day())
	assert.Equal(t, 0, w.Hour())
	assert.Equal(t, uint64(1), w.Tick())
}

func TestHomeLookup(t *testing.T) {
	w := New(Options{
		Layout: model.Layout{Width: 400, Height: 400},
		Rooms: []model.Room{
			{ID: 1, Kind: model.RoomHome, HomeID: 7, Bounds: model.Rect{X: 0, Y: 0, W: 100, H: 100}},
			{ID: 2, Kind: model.RoomWork, WorkplaceID: 3, Bounds: model.Rect{X: 200, Y: 0, W: 100, H: 100}},
		},
	})

	r, ok := w.HomeRoom(7)
	require.True(t, ok)
	assert.Equal(t, model.RoomID(1), r.ID)
	assert.Equal(t, []model.HomeID{7}, w.HomeIDs())

	_, ok = w.WorkRoom(3)
	assert.True(t, ok)

	r, ok = w.RoomAt(model.Pt(250, 50))
	require.True(t, ok)
	assert.Equal(t, model.RoomWork, r.Kind)
}

func TestReindexDropsEmptyRegions(t *testing.T) {
	w := newTestWorld()
	a := model.NewAgent(1, "Ada")
	w.AddAgent(a)

	for i := range 20 {
		a.Pos = model.Pt(float64(i)*RegionSize, 10)
		w.ReindexAgents()
	}

	assert.Len(t, w.regions.buckets, 1)
	assert.Equal(t, []model.AgentID{1}, w.regions.buckets[regionOf(a.Pos)])
	require.Len(t, w.AgentsNear(a.Pos, 10, 0), 1)
}
