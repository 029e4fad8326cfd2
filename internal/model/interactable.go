package model

import "fmt"

// Identity types.
type (
	AgentID        uint32
	InteractableID uint32
	HomeID         uint32
	WorkplaceID    uint32
	RoomID         uint32
)

// Utility tags what an interactable is good for.
type Utility uint8

const (
	UtilityNone Utility = iota // decor, walls, counters
	UtilityFood
	UtilityBed
	UtilityToilet
	UtilityShower
	UtilitySeat
	UtilityFun
	UtilitySocial
	UtilityWork
	UtilitySchool
	UtilityMedical
)

var utilityNames = [...]string{
	"none", "food", "bed", "toilet", "shower", "seat", "fun", "social", "work", "school", "medical",
}

func (u Utility) String() string {
	if int(u) < len(utilityNames) {
		return utilityNames[u]
	}
	return fmt.Sprintf("utility(%d)", uint8(u))
}

// ParseUtility resolves a name produced by String.
func ParseUtility(s string) (Utility, bool) {
	for i, name := range utilityNames {
		if name == s {
			return Utility(i), true
		}
	}
	return UtilityNone, false
}

// MarshalText implements encoding.TextMarshaler.
func (u Utility) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to UtilityNone.
func (u *Utility) UnmarshalText(b []byte) error {
	v, _ := ParseUtility(string(b))
	*u = v
	return nil
}

// Interactable is a world object agents can use.
// Mutated only by the simulation goroutine.
type Interactable struct {
	ID          InteractableID
	Kind        string // "fridge", "bed", "desk"...
	Bounds      Rect
	Utility     Utility
	Capacity    int // 1 = single occupant
	HomeID      HomeID
	WorkplaceID WorkplaceID
	Cost        float64
	PriceTier   int // 0 (cheap) .. 3 (luxury)
	// Passable surfaces (rugs, floor mats) never block the spatial grid.
	Passable bool
	MinAge   int
	// OpenHour == CloseHour means always open.
	OpenHour  int
	CloseHour int

	reservations []AgentID
}

// Center returns the use point of the interactable.
func (it *Interactable) Center() Point {
	return it.Bounds.Center()
}

// IsOpen reports whether the object is usable at hour h (0-23).
func (it *Interactable) IsOpen(h int) bool {
	if it.OpenHour == it.CloseHour {
		return true
	}
	if it.OpenHour < it.CloseHour {
		return h >= it.OpenHour && h < it.CloseHour
	}
	// Wraps past midnight.
	return h >= it.OpenHour || h < it.CloseHour
}

// capacity returns the effective capacity (at least 1).
func (it *Interactable) capacity() int {
	if it.Capacity < 1 {
		return 1
	}
	return it.Capacity
}

// ReservedBy reports whether agent holds a reservation.
func (it *Interactable) ReservedBy(agent AgentID) bool {
	for _, id := range it.reservations {
		if id == agent {
			return true
		}
	}
	return false
}

// Available reports whether agent could reserve the object now.
func (it *Interactable) Available(agent AgentID) bool {
	return it.ReservedBy(agent) || len(it.reservations) < it.capacity()
}

// Reserve claims a place for agent. Returns false when full.
// Reserving twice for the same agent is a no-op success.
func (it *Interactable) Reserve(agent AgentID) bool {
	if it.ReservedBy(agent) {
		return true
	}
	if len(it.reservations) >= it.capacity() {
		return false
	}
	it.reservations = append(it.reservations, agent)
	return true
}

// Release drops agent's reservation if any.
func (it *Interactable) Release(agent AgentID) {
	for i, id := range it.reservations {
		if id == agent {
			it.reservations = append(it.reservations[:i], it.reservations[i+1:]...)
			return
		}
	}
}

// Reservations returns a copy of the current holders.
func (it *Interactable) Reservations() []AgentID {
	out := make([]AgentID, len(it.reservations))
	copy(out, it.reservations)
	return out
}

// Clone returns a copy without reservations (used by map edits and saves).
func (it *Interactable) Clone() *Interactable {
	c := *it
	c.reservations = nil
	return &c
}

// RoomKind classifies rooms.
type RoomKind uint8

const (
	RoomPublic RoomKind = iota
	RoomHome
	RoomWork
	RoomSchool
)

func (k RoomKind) String() string {
	switch k {
	case RoomHome:
		return "home"
	case RoomWork:
		return "work"
	case RoomSchool:
		return "school"
	default:
		return "public"
	}
}

// ParseRoomKind resolves a name produced by String. Unknown names are public.
func ParseRoomKind(s string) RoomKind {
	switch s {
	case "home":
		return RoomHome
	case "work":
		return RoomWork
	case "school":
		return RoomSchool
	default:
		return RoomPublic
	}
}

// Room is a named area of the map.
type Room struct {
	ID          RoomID
	Name        string
	Kind        RoomKind
	Bounds      Rect
	HomeID      HomeID
	WorkplaceID WorkplaceID
}

// Layout is the static part of the map.
type Layout struct {
	Width    float64
	Height   float64
	CellSize float64
	Walls    []Rect
}
