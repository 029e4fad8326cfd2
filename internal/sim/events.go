package sim

import (
	"github.com/udisondev/hearth/internal/snapshot"
)

// Event is published by the simulation to subscribers.
type Event interface {
	// Kind is the stable wire name of the event.
	Kind() string
}

// EventSync is the periodic structured snapshot. Slow subscribers miss
// sync events instead of stalling the tick loop.
type EventSync struct {
	Sync snapshot.Sync
}

// EventMapInitialized carries the full map after startup, a map edit or a load.
type EventMapInitialized struct {
	Map snapshot.Map
}

// EventSaveReady carries a captured save for persistence.
type EventSaveReady struct {
	Slot string
	Save *snapshot.Save
}

// EventLoadFailed reports a refused load. The running world is untouched.
type EventLoadFailed struct {
	Err error
}

// EventLoaded reports a successful load.
type EventLoaded struct {
	SnapshotID string
	Agents     int
}

func (EventSync) Kind() string           { return "sync" }
func (EventMapInitialized) Kind() string { return "map_initialized" }
func (EventSaveReady) Kind() string      { return "save_ready" }
func (EventLoadFailed) Kind() string     { return "load_failed" }
func (EventLoaded) Kind() string         { return "loaded" }
