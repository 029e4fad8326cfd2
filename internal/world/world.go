// Package world holds the canonical simulation state: clock, agents,
// interactables, rooms and the spatial grid. A World is owned by exactly one
// goroutine (the simulation authority) and is passed explicitly into every
// subsystem; nothing in it is safe for concurrent use.
package world

import (
	"cmp"
	"slices"

	"github.com/udisondev/hearth/internal/game/geo"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
)

// Options configures a new World.
type Options struct {
	Layout        model.Layout
	Rooms         []model.Room
	Interactables []*model.Interactable
	Tables        policy.Tables
	MaxExpansions int
	StartMinute   float64
}

// World is the simulation context object.
type World struct {
	clock float64 // sim minutes since day 0
	tick  uint64

	layout        model.Layout
	maxExpansions int
	grid          *geo.Grid
	gridVersion   uint64

	agents     map[model.AgentID]*model.Agent
	agentOrder []*model.Agent // sorted by id

	items     map[model.InteractableID]*model.Interactable
	itemOrder []*model.Interactable // sorted by id

	rooms []model.Room

	schedule *policy.Schedule
	ids      *IDGenerator
	regions  *regionIndex
	log      []LogEntry
}

// New creates a world and builds its spatial grid.
func New(opts Options) *World {
	w := &World{
		clock:         opts.StartMinute,
		maxExpansions: opts.MaxExpansions,
		agents:        make(map[model.AgentID]*model.Agent),
		items:         make(map[model.InteractableID]*model.Interactable),
		schedule:      policy.NewSchedule(opts.Tables),
		ids:           NewIDGenerator(),
		regions:       newRegionIndex(),
	}
	w.ReplaceMap(opts.Layout, opts.Rooms, opts.Interactables)
	return w
}

// Clock returns the simulation time in sim minutes.
func (w *World) Clock() float64 { return w.clock }

// SetClock moves the clock (used when loading a save).
func (w *World) SetClock(minute float64) { w.clock = minute }

// Tick returns the number of completed ticks.
func (w *World) Tick() uint64 { return w.tick }

// Advance moves the clock forward by dt sim minutes and counts a tick.
func (w *World) Advance(dt float64) {
	if dt > 0 {
		w.clock += dt
	}
	w.tick++
}

// Hour returns the current hour of day.
func (w *World) Hour() int { return policy.Hour(w.clock) }

// Day returns the current day number.
func (w *World) Day() int { return policy.Day(w.clock) }

// Schedule returns the policy rule tables bound to this world.
func (w *World) Schedule() *policy.Schedule { return w.schedule }

// IDs returns the id generator.
func (w *World) IDs() *IDGenerator { return w.ids }

// Layout returns the static map layout.
func (w *World) Layout() model.Layout { return w.layout }

// Grid returns the current spatial grid. The returned grid is immutable and
// stays valid even after the world swaps in a new one.
func (w *World) Grid() *geo.Grid { return w.grid }

// GridVersion increments every time the grid is rebuilt.
func (w *World) GridVersion() uint64 { return w.gridVersion }

// ReplaceMap swaps layout, rooms and interactables wholesale and rebuilds the grid.
// Reservations held on interactables that survive the edit (same id) are kept.
func (w *World) ReplaceMap(layout model.Layout, rooms []model.Room, items []*model.Interactable) {
	if layout.CellSize <= 0 {
		layout.CellSize = geo.DefaultCellSize
	}
	old := w.items

	w.layout = layout
	w.rooms = slices.Clone(rooms)
	for _, r := range w.rooms {
		w.ids.ObserveRoom(uint32(r.ID))
	}

	w.items = make(map[model.InteractableID]*model.Interactable, len(items))
	w.itemOrder = w.itemOrder[:0]
	for _, src := range items {
		it := src.Clone()
		if it.ID == 0 {
			it.ID = model.InteractableID(w.ids.NextInteractableID())
		}
		w.ids.ObserveInteractable(uint32(it.ID))
		if prev, ok := old[it.ID]; ok {
			for _, holder := range prev.Reservations() {
				it.Reserve(holder)
			}
		}
		w.items[it.ID] = it
		w.itemOrder = append(w.itemOrder, it)
	}
	slices.SortFunc(w.itemOrder, func(a, b *model.Interactable) int { return cmp.Compare(a.ID, b.ID) })
	w.rebuildGrid()
}

// rebuildGrid rasterizes walls and every non-passable interactable into a new grid.
func (w *World) rebuildGrid() {
	obstacles := make([]model.Rect, 0, len(w.layout.Walls)+len(w.itemOrder))
	obstacles = append(obstacles, w.layout.Walls...)
	for _, it := range w.itemOrder {
		if !it.Passable {
			obstacles = append(obstacles, it.Bounds)
		}
	}
	w.grid = geo.BuildGrid(geo.GridConfig{
		Width:         w.layout.Width,
		Height:        w.layout.Height,
		CellSize:      w.layout.CellSize,
		MaxExpansions: w.maxExpansions,
	}, obstacles)
	w.gridVersion++
}
