// Package saves persists simulation snapshots into named slots and feeds
// them back into the simulation.
package saves

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/hearth/internal/snapshot"
)

// AutosaveSlot is the slot written by the autosave loop.
const AutosaveSlot = "autosave"

var (
	// ErrSlotNotFound is returned when a slot holds no save.
	ErrSlotNotFound = errors.New("save slot not found")
	// ErrInvalidSlot is returned for slot names outside [A-Za-z0-9_-]{1,64}.
	ErrInvalidSlot = errors.New("invalid save slot name")
)

var slotPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateSlot checks a slot name.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}

// SlotInfo describes a stored save without decoding it.
type SlotInfo struct {
	Slot       string    `json:"slot" db:"slot"`
	SnapshotID uuid.UUID `json:"snapshot_id" db:"snapshot_id"`
	Version    int       `json:"version" db:"version"`
	Clock      float64   `json:"clock" db:"clock"`
	Agents     int       `json:"agents" db:"agents"`
	Size       int       `json:"size" db:"size"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Record is what a store persists: encoded save bytes plus the indexed
// columns taken from the save.
type Record struct {
	SlotInfo
	Data []byte `db:"data"`
}

// NewRecord encodes s for slot.
func NewRecord(slot string, s *snapshot.Save) (Record, error) {
	if err := ValidateSlot(slot); err != nil {
		return Record{}, err
	}
	data, err := snapshot.Encode(s)
	if err != nil {
		return Record{}, fmt.Errorf("encoding save for slot %q: %w", slot, err)
	}
	id, err := uuid.Parse(s.SnapshotID)
	if err != nil {
		id = uuid.New()
	}
	return Record{
		SlotInfo: SlotInfo{
			Slot:       slot,
			SnapshotID: id,
			Version:    s.Version,
			Clock:      s.Clock,
			Agents:     len(s.Agents),
			Size:       len(data),
			UpdatedAt:  time.Now().UTC(),
		},
		Data: data,
	}, nil
}

// Decode validates and decodes the stored bytes.
func (r Record) Decode() (*snapshot.Save, error) {
	s, err := snapshot.Decode(r.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding slot %q: %w", r.Slot, err)
	}
	return s, nil
}

// Store is a save slot backend.
type Store interface {
	Put(ctx context.Context, rec Record) error
	// Get returns ErrSlotNotFound for empty slots.
	Get(ctx context.Context, slot string) (Record, error)
	List(ctx context.Context) ([]SlotInfo, error)
	// Delete returns ErrSlotNotFound for empty slots.
	Delete(ctx context.Context, slot string) error
	Close() error
}

// Save encodes s and writes it to slot.
func Save(ctx context.Context, st Store, slot string, s *snapshot.Save) error {
	rec, err := NewRecord(slot, s)
	if err != nil {
		return err
	}
	return st.Put(ctx, rec)
}

// Load reads and decodes slot.
func Load(ctx context.Context, st Store, slot string) (*snapshot.Save, error) {
	if err := ValidateSlot(slot); err != nil {
		return nil, err
	}
	rec, err := st.Get(ctx, slot)
	if err != nil {
		return nil, err
	}
	return rec.Decode()
}
