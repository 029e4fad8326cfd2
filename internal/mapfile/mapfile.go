// Package mapfile reads and writes YAML map files and watches them for edits.
package mapfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/hearth/internal/snapshot"
)

// ErrInvalidMap is returned for map files that parse but cannot be used.
var ErrInvalidMap = errors.New("invalid map")

// Load reads a map file. Unknown keys are rejected so typos surface early.
func Load(path string) (snapshot.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Map{}, fmt.Errorf("reading map file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML map data.
func Parse(data []byte) (snapshot.Map, error) {
	var m snapshot.Map
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return snapshot.Map{}, fmt.Errorf("parsing map file: %w", err)
	}
	if err := Validate(m); err != nil {
		return snapshot.Map{}, err
	}
	return m, nil
}

// Validate checks the layout size and id uniqueness.
func Validate(m snapshot.Map) error {
	if m.World.Width <= 0 || m.World.Height <= 0 {
		return fmt.Errorf("%w: world size %vx%v", ErrInvalidMap, m.World.Width, m.World.Height)
	}
	rooms := make(map[uint32]struct{}, len(m.Rooms))
	for _, r := range m.Rooms {
		if _, dup := rooms[r.ID]; dup && r.ID != 0 {
			return fmt.Errorf("%w: duplicate room id %d", ErrInvalidMap, r.ID)
		}
		rooms[r.ID] = struct{}{}
	}
	items := make(map[uint32]struct{}, len(m.Interactables))
	for _, it := range m.Interactables {
		if _, dup := items[it.ID]; dup && it.ID != 0 {
			return fmt.Errorf("%w: duplicate interactable id %d", ErrInvalidMap, it.ID)
		}
		items[it.ID] = struct{}{}
	}
	return nil
}

// Write stores m as YAML.
func Write(path string, m snapshot.Map) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing map file: %w", err)
	}
	return nil
}
