// Package snapshot defines the persisted save format and the structured sync
// payloads published alongside the hot-state table.
package snapshot

import (
	"errors"
	"time"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Version is the save format written by this build.
const Version = 1

var (
	// ErrInvalidSnapshot marks data that is corrupted or misses required fields.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrUnsupportedVersion marks saves written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Save is a complete, version-tagged simulation snapshot.
type Save struct {
	Version    int       `json:"version"`
	SnapshotID string    `json:"snapshot_id"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	Clock      float64   `json:"clock"`
	Tick       uint64    `json:"tick,omitempty"`

	Log    []world.LogEntry `json:"log,omitempty"`
	Agents []AgentRecord    `json:"agents"`

	Map
}

// Map is the editable part of the world: layout, rooms and furniture.
// It is shared by saves, map files and map-initialized events.
type Map struct {
	World         WorldRecord          `json:"world" yaml:"world"`
	Rooms         []RoomRecord         `json:"rooms,omitempty" yaml:"rooms"`
	Interactables []InteractableRecord `json:"interactables,omitempty" yaml:"interactables"`
}

// WorldRecord is the static layout.
type WorldRecord struct {
	Width    float64      `json:"width" yaml:"width"`
	Height   float64      `json:"height" yaml:"height"`
	CellSize float64      `json:"cell_size,omitempty" yaml:"cell_size"`
	Walls    []model.Rect `json:"walls,omitempty" yaml:"walls"`
}

// RoomRecord is a persisted room.
type RoomRecord struct {
	ID          uint32     `json:"id" yaml:"id"`
	Name        string     `json:"name,omitempty" yaml:"name"`
	Kind        string     `json:"kind,omitempty" yaml:"kind"`
	Bounds      model.Rect `json:"bounds" yaml:"bounds"`
	HomeID      uint32     `json:"home_id,omitempty" yaml:"home_id"`
	WorkplaceID uint32     `json:"workplace_id,omitempty" yaml:"workplace_id"`
}

// InteractableRecord is a persisted piece of furniture.
type InteractableRecord struct {
	ID          uint32     `json:"id" yaml:"id"`
	Kind        string     `json:"kind,omitempty" yaml:"kind"`
	Utility     string     `json:"utility,omitempty" yaml:"utility"`
	Bounds      model.Rect `json:"bounds" yaml:"bounds"`
	Capacity    int        `json:"capacity,omitempty" yaml:"capacity"`
	HomeID      uint32     `json:"home_id,omitempty" yaml:"home_id"`
	WorkplaceID uint32     `json:"workplace_id,omitempty" yaml:"workplace_id"`
	Cost        float64    `json:"cost,omitempty" yaml:"cost"`
	PriceTier   int        `json:"price_tier,omitempty" yaml:"price_tier"`
	Passable    bool       `json:"passable,omitempty" yaml:"passable"`
	MinAge      int        `json:"min_age,omitempty" yaml:"min_age"`
	OpenHour    int        `json:"open_hour,omitempty" yaml:"open_hour"`
	CloseHour   int        `json:"close_hour,omitempty" yaml:"close_hour"`
}

// AgentRecord is a full persisted agent. Pointer fields are optional and
// fall back to defaults when absent.
type AgentRecord struct {
	ID       uint32  `json:"id"`
	Name     string  `json:"name,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Role     string  `json:"role,omitempty"`
	FamilyID uint32  `json:"family_id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Facing   uint8   `json:"facing,omitempty"`
	Hidden   bool    `json:"hidden,omitempty"`

	Needs      map[string]float64 `json:"needs,omitempty"`
	Health     *float64           `json:"health,omitempty"`
	Mood       *float64           `json:"mood,omitempty"`
	Buffs      []model.Buff       `json:"buffs,omitempty"`
	Traits     TraitsRecord       `json:"traits,omitzero"`
	Metabolism map[string]float64 `json:"metabolism,omitempty"`
	NoDecay    bool               `json:"no_decay,omitempty"`
	MoveSpeed  float64            `json:"move_speed,omitempty"`
	Intent     string             `json:"intent,omitempty"`

	Relationships  []RelationshipRecord `json:"relationships,omitempty"`
	Partner        uint32               `json:"partner,omitempty"`
	HomeID         uint32               `json:"home_id,omitempty"`
	Job            *JobRecord           `json:"job,omitempty"`
	InSchool       bool                 `json:"in_school,omitempty"`
	LeaveUntilDay  int                  `json:"leave_until_day,omitempty"`
	ScheduleOffset float64              `json:"schedule_offset,omitempty"`
	Money          float64              `json:"money,omitempty"`
	LonelyMinutes  float64              `json:"lonely_minutes,omitempty"`
	Memories       []model.Memory       `json:"memories,omitempty"`
}

// TraitsRecord mirrors model.Traits with stable field names.
type TraitsRecord struct {
	Frugality   float64            `json:"frugality,omitempty"`
	Snobbery    float64            `json:"snobbery,omitempty"`
	Sociability float64            `json:"sociability,omitempty"`
	Playfulness float64            `json:"playfulness,omitempty"`
	Diligence   float64            `json:"diligence,omitempty"`
	Affinity    map[string]float64 `json:"affinity,omitempty"`
}

// RelationshipRecord is one directed social edge.
type RelationshipRecord struct {
	Other    uint32  `json:"other"`
	Kind     string  `json:"kind,omitempty"`
	Affinity float64 `json:"affinity"`
}

// JobRecord is a persisted employment reference.
type JobRecord struct {
	WorkplaceID uint32 `json:"workplace_id"`
	Title       string `json:"title,omitempty"`
}
