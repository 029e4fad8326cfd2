package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/udisondev/hearth/internal/hotstate"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/snapshot"
	"github.com/udisondev/hearth/internal/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const lunchtime = policy.MinutesPerDay + 13*policy.MinutesPerHour

func fridge(id model.InteractableID, home model.HomeID, x, y float64) *model.Interactable {
	return &model.Interactable{
		ID: id, Kind: "fridge", Utility: model.UtilityFood, Capacity: 1, HomeID: home,
		Bounds: model.Rect{X: x, Y: y, W: 20, H: 20},
	}
}

func testWorld(items ...*model.Interactable) *world.World {
	return world.New(world.Options{
		Layout: model.Layout{Width: 600, Height: 600, CellSize: 20},
		Rooms: []model.Room{
			{ID: 1, Name: "Home", Kind: model.RoomHome, HomeID: 1, Bounds: model.Rect{W: 200, H: 200}},
			{ID: 2, Name: "Flat", Kind: model.RoomHome, HomeID: 2, Bounds: model.Rect{X: 400, W: 200, H: 200}},
			{ID: 3, Name: "School", Kind: model.RoomSchool, Bounds: model.Rect{X: 200, Y: 400, W: 200, H: 200}},
		},
		Interactables: items,
		Tables:        policy.DefaultTables(),
		StartMinute:   lunchtime,
	})
}

func newTestSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	if opts.World == nil {
		opts.World = testWorld()
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	def := DefaultOptions()
	opts.Brain = def.Brain
	opts.Rates = def.Rates
	opts.Tables = def.Tables
	return New(opts)
}

func at(x, y float64) *model.Point {
	p := model.Pt(x, y)
	return &p
}

func lastAgent(s *Simulation) *model.Agent {
	agents := s.World().Agents()
	return agents[len(agents)-1]
}

// drain collects every event already buffered on ch.
func drain(ch <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestSpawnAllocatesHotSlot(t *testing.T) {
	s := newTestSim(t, Options{})

	s.Apply(SpawnAgent{Config: AgentConfig{Name: "Ann", HomeID: 1, Pos: at(50, 60)}})
	s.Step()

	a := lastAgent(s)
	require.NotEqual(t, model.NoSlot, a.Slot)
	rec := s.HotState().Read(hotstate.Slot(a.Slot))
	assert.Equal(t, uint32(a.ID), rec.ID)
	assert.True(t, rec.Occupied)
	assert.True(t, rec.Visible)
	assert.InDelta(t, a.Pos.X, float64(rec.X), 0.01)
	assert.Equal(t, a.Activity.Code(), rec.Code)
	assert.Equal(t, uint64(1), s.HotState().Sequence())
	assert.Equal(t, model.HomeID(1), a.HomeID)
}

func TestHotCapacityExhausted(t *testing.T) {
	s := newTestSim(t, Options{HotCapacity: 1})

	s.Apply(SpawnAgent{Config: AgentConfig{Name: "A", Pos: at(50, 50)}})
	first := lastAgent(s)
	s.Step()
	before := s.HotState().Read(hotstate.Slot(first.Slot))

	s.Apply(SpawnAgent{Config: AgentConfig{Name: "B", Pos: at(300, 300)}})
	second := lastAgent(s)

	assert.Equal(t, 2, s.World().AgentCount(), "the agent still exists")
	assert.Equal(t, model.NoSlot, second.Slot)
	assert.Equal(t, before, s.HotState().Read(hotstate.Slot(first.Slot)))

	s.Apply(RemoveAgent{ID: first.ID})
	s.Step()

	assert.NotEqual(t, model.NoSlot, second.Slot, "mirrored once a slot frees up")
	assert.Equal(t, uint32(second.ID), s.HotState().Read(hotstate.Slot(second.Slot)).ID)
}

func TestRemoveAgent(t *testing.T) {
	s := newTestSim(t, Options{})
	s.Apply(
		SpawnAgent{Config: AgentConfig{Name: "A", Pos: at(50, 50)}},
		SpawnAgent{Config: AgentConfig{Name: "B", Pos: at(80, 50)}},
	)
	agents := s.World().Agents()
	a, b := agents[0], agents[1]
	b.Relationship(a.ID).Affinity = 40
	slot := hotstate.Slot(a.Slot)

	s.Apply(SelectAgent{ID: a.ID}, RemoveAgent{ID: a.ID})

	assert.Zero(t, s.Focused())
	assert.True(t, s.HotState().Read(slot).IsZero())
	assert.NotContains(t, b.Relationships, a.ID)
	assert.Equal(t, 1, s.World().AgentCount())
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := newTestSim(t, Options{})
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "A", HomeID: 1}})
	a := lastAgent(s)
	s.Apply(SelectAgent{ID: a.ID})

	s.Apply(
		SelectAgent{ID: 999},
		RemoveAgent{ID: 999},
		AssignHome{ID: 999, HomeID: 2},
		AssignHome{ID: a.ID, HomeID: 77},
		RequestCaregiver{HomeID: 1, Task: model.TaskBabysit, TargetID: 999},
	)

	assert.Equal(t, a.ID, s.Focused())
	assert.Equal(t, 1, s.World().AgentCount())
	assert.Equal(t, model.HomeID(1), a.HomeID)
}

func TestAssignHomePicksVacant(t *testing.T) {
	s := newTestSim(t, Options{})
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "A", HomeID: 1}}, SpawnAgent{Config: AgentConfig{Name: "B"}})
	b := lastAgent(s)

	s.Apply(AssignHome{ID: b.ID})

	assert.Equal(t, model.HomeID(2), b.HomeID)
}

func TestSpawnFamily(t *testing.T) {
	s := newTestSim(t, Options{})

	s.Apply(SpawnFamily{Members: []AgentConfig{
		{Name: "Mum"}, {Name: "Dad"}, {Name: "Kid", Role: "child"},
	}})

	agents := s.World().Agents()
	require.Len(t, agents, 3)
	mum, dad, kid := agents[0], agents[1], agents[2]
	for _, a := range agents {
		assert.Equal(t, model.HomeID(1), a.HomeID)
		assert.Equal(t, uint32(1), a.FamilyID)
	}
	assert.Equal(t, dad.ID, mum.Partner)
	assert.Equal(t, mum.ID, dad.Partner)
	assert.Equal(t, model.RelationPartner, mum.Relationships[dad.ID].Kind)
	assert.Equal(t, model.RelationFamily, kid.Relationships[mum.ID].Kind)
	assert.True(t, kid.InSchool)
	assert.Equal(t, 9, kid.Age)
}

func TestSetSpeed(t *testing.T) {
	s := newTestSim(t, Options{})
	clock := s.World().Clock()

	s.Apply(SetSpeed{Multiplier: 0})
	s.Step()
	assert.Equal(t, clock, s.World().Clock(), "paused")

	s.Apply(SetSpeed{Multiplier: 1000})
	assert.Equal(t, MaxSpeed, s.Speed())

	s.Apply(SetSpeed{Multiplier: 2})
	s.Step()
	assert.InDelta(t, clock+0.2, s.World().Clock(), 1e-9)
}

func TestStaleInteractAfterMapEditReplans(t *testing.T) {
	s := newTestSim(t, Options{World: testWorld(fridge(10, 1, 100, 100))})
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "Hungry", HomeID: 1, Pos: at(70, 110)}})
	a := lastAgent(s)
	a.Needs.Set(model.NeedHunger, 10)

	for range 500 {
		s.Step()
		if a.Activity.State == model.StateInteracting {
			break
		}
	}
	require.Equal(t, model.StateInteracting, a.Activity.State)
	require.Equal(t, model.FurnitureTarget(10), a.Activity.Target)

	edited := snapshot.CaptureMap(s.World())
	edited.Interactables = nil
	s.Apply(ApplyMapEdit{Map: edited})
	s.Step()

	assert.NotEqual(t, model.StateInteracting, a.Activity.State)
	assert.False(t, a.Queue.Empty(), "the agent replanned")
	assert.False(t, a.Queue.References(model.FurnitureTarget(10)))
}

func TestSameTickReservationRace(t *testing.T) {
	s := newTestSim(t, Options{World: testWorld(fridge(10, 0, 300, 300))})
	s.Apply(
		SpawnAgent{Config: AgentConfig{Name: "A", Pos: at(260, 300)}},
		SpawnAgent{Config: AgentConfig{Name: "B", Pos: at(340, 300)}},
	)
	for _, a := range s.World().Agents() {
		a.Needs.Set(model.NeedHunger, 10)
	}

	s.Step()

	var holders int
	for _, a := range s.World().Agents() {
		if a.Queue.References(model.FurnitureTarget(10)) {
			holders++
		}
	}
	assert.Equal(t, 1, holders)
	it, _ := s.World().Interactable(10)
	assert.Len(t, it.Reservations(), 1)
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestSim(t, Options{World: testWorld(fridge(10, 1, 100, 100))})
	events, cancel := s.Subscribe(16)
	defer cancel()
	s.Apply(
		SpawnAgent{Config: AgentConfig{Name: "A", HomeID: 1}},
		SpawnAgent{Config: AgentConfig{Name: "B", HomeID: 1}},
	)

	s.Apply(SaveRequest{Slot: "one"})
	got := drain(events)
	require.Len(t, got, 1)
	ready, ok := got[0].(EventSaveReady)
	require.True(t, ok)
	assert.Equal(t, "one", ready.Slot)
	require.Len(t, ready.Save.Agents, 2)

	s.Apply(RemoveAgent{ID: lastAgent(s).ID})
	require.Equal(t, 1, s.World().AgentCount())

	s.Apply(LoadRequest{Save: ready.Save})

	assert.Equal(t, 2, s.World().AgentCount())
	assert.Equal(t, 2, s.HotState().InUse())
	for _, a := range s.World().Agents() {
		assert.NotEqual(t, model.NoSlot, a.Slot)
	}
	got = drain(events)
	require.Len(t, got, 2)
	assert.Equal(t, EventLoaded{SnapshotID: ready.Save.SnapshotID, Agents: 2}, got[0])
	assert.IsType(t, EventMapInitialized{}, got[1])
}

func TestLoadRefusalKeepsState(t *testing.T) {
	s := newTestSim(t, Options{})
	events, cancel := s.Subscribe(16)
	defer cancel()
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "A"}}, SpawnAgent{Config: AgentConfig{Name: "B"}})
	w := s.World()
	a := lastAgent(s)
	s.Step()
	frame := s.HotState().AppendFrame(nil)

	broken := &snapshot.Save{Agents: []snapshot.AgentRecord{{ID: 1}}}
	s.Apply(LoadRequest{Save: broken}, LoadRequest{})

	assert.Same(t, w, s.World())
	assert.Equal(t, 2, w.AgentCount())
	assert.Equal(t, frame, s.HotState().AppendFrame(nil))
	assert.NotEqual(t, model.NoSlot, a.Slot)

	got := drain(events)
	require.Len(t, got, 2)
	for _, ev := range got {
		failed, ok := ev.(EventLoadFailed)
		require.True(t, ok)
		assert.ErrorIs(t, failed.Err, snapshot.ErrInvalidSnapshot)
	}
}

func TestRequestCaregiverEscortsToSchool(t *testing.T) {
	s := newTestSim(t, Options{})
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "Kid", Role: "child", HomeID: 1}})
	kid := lastAgent(s)

	s.Apply(RequestCaregiver{HomeID: 1, Task: model.TaskEscortSchool, TargetID: kid.ID})

	require.Equal(t, 2, s.World().AgentCount())
	helper := lastAgent(s)
	assert.Equal(t, model.RoleHelper, helper.Role)
	assert.True(t, helper.NoDecay)
	assert.Equal(t, model.IntentEscort, helper.Intent)
	assert.Equal(t, kid.ID, helper.Queue.Context.Partner)
	assert.Equal(t, model.TaskEscortSchool, helper.Queue.Context.Task)

	// The first helper is busy escorting, so another one is hired.
	s.Apply(RequestCaregiver{HomeID: 1, Task: model.TaskBabysit, TargetID: kid.ID})
	assert.Equal(t, 3, s.World().AgentCount())
}

func TestSyncFocusAndDrops(t *testing.T) {
	s := newTestSim(t, Options{SyncEvery: 1})
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "A"}}, SpawnAgent{Config: AgentConfig{Name: "B"}})
	first := s.World().Agents()[0]
	s.Apply(SelectAgent{ID: first.ID})

	events, cancel := s.Subscribe(1)
	defer cancel()
	for range 5 {
		s.Step() // never blocks on the full buffer
	}

	got := drain(events)
	require.Len(t, got, 1)
	sync, ok := got[0].(EventSync)
	require.True(t, ok)
	assert.Len(t, sync.Sync.Agents, 2)
	require.NotNil(t, sync.Sync.Focused)
	assert.Equal(t, uint32(first.ID), sync.Sync.Focused.ID)
}

func TestSyncCadenceWhilePaused(t *testing.T) {
	s := newTestSim(t, Options{SyncEvery: 10})
	s.Apply(SpawnAgent{Config: AgentConfig{Name: "A"}}, SpawnAgent{Config: AgentConfig{Name: "B"}})
	for range 3 {
		s.Step()
	}
	s.Apply(SetSpeed{Multiplier: 0})
	tick := s.World().Tick()

	events, cancel := s.Subscribe(256)
	defer cancel()

	for range 100 {
		s.Step()
	}
	assert.Len(t, drain(events), 10)
	assert.Equal(t, tick, s.World().Tick())

	second := s.World().Agents()[1]
	s.Apply(SelectAgent{ID: second.ID})
	for range 10 {
		s.Step()
	}
	got := drain(events)
	require.Len(t, got, 1)
	sync, ok := got[0].(EventSync)
	require.True(t, ok)
	require.NotNil(t, sync.Sync.Focused)
	assert.Equal(t, uint32(second.ID), sync.Sync.Focused.ID)
}

func TestStalledSubscriberIsDropped(t *testing.T) {
	s := newTestSim(t, Options{DeliveryTimeout: 20 * time.Millisecond})
	stalled, cancelStalled := s.Subscribe(0)
	defer cancelStalled()
	live, cancelLive := s.Subscribe(4)
	defer cancelLive()

	s.Apply(SaveRequest{Slot: "one"})
	s.Apply(SaveRequest{Slot: "two"})

	_, ok := <-stalled
	assert.False(t, ok, "a consumer that never reads is unsubscribed")

	got := drain(live)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[1].(EventSaveReady).Slot)
}

func TestRunAppliesSubmittedCommands(t *testing.T) {
	s := newTestSim(t, Options{TickRate: 200, SyncEvery: 1})
	events, cancel := s.Subscribe(64)
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.NoError(t, s.Submit(ctx, SpawnAgent{Config: AgentConfig{Name: "Runner"}}))

	deadline := time.After(5 * time.Second)
	var sawMap bool
wait:
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case EventMapInitialized:
				sawMap = true
			case EventSync:
				if len(ev.Sync.Agents) == 1 {
					break wait
				}
			}
		case <-deadline:
			t.Fatal("spawn never showed up in sync")
		}
	}
	assert.True(t, sawMap)

	stop()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop")
	}

	assert.ErrorIs(t, s.Submit(context.Background(), SelectAgent{}), ErrStopped)
	for range events {
		// drained until closed by Run
	}
}
