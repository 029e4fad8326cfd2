package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/udisondev/hearth/internal/mapfile"
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/sim"
	"github.com/udisondev/hearth/internal/snapshot"
)

// Client message types.
const (
	TypeSpawnAgent       = "spawn_agent"
	TypeSpawnFamily      = "spawn_family"
	TypeSelectAgent      = "select_agent"
	TypeSetSpeed         = "set_speed"
	TypeRemoveAgent      = "remove_agent"
	TypeAssignHome       = "assign_home"
	TypeRequestCaregiver = "request_caregiver"
	TypeApplyMapEdit     = "apply_map_edit"
	TypeSave             = "save"
	TypeLoad             = "load"
	TypeListSaves        = "list_saves"
)

// Server-only message types. Simulation events use their Kind.
const (
	TypeError = "error"
	TypeSaves = "saves"
)

var (
	// ErrUnknownType is returned for message types the gateway does not handle.
	ErrUnknownType = errors.New("unknown message type")
	// ErrBadPayload is returned when a payload does not decode.
	ErrBadPayload = errors.New("bad payload")
)

// Envelope is every JSON text message in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type spawnFamilyPayload struct {
	HomeID  model.HomeID      `json:"home_id"`
	Members []sim.AgentConfig `json:"members"`
}

type agentPayload struct {
	ID     model.AgentID `json:"id"`
	HomeID model.HomeID  `json:"home_id,omitempty"`
}

type speedPayload struct {
	Multiplier float64 `json:"multiplier"`
}

type caregiverPayload struct {
	HomeID   model.HomeID  `json:"home_id"`
	Task     string        `json:"task"`
	TargetID model.AgentID `json:"target_id"`
}

// SlotPayload names a save slot.
type SlotPayload struct {
	Slot string `json:"slot"`
}

// LoadPayload loads either a stored slot or an inline save.
type LoadPayload struct {
	Slot string          `json:"slot,omitempty"`
	Save json.RawMessage `json:"save,omitempty"`
}

// ErrorPayload answers a message that could not be applied.
type ErrorPayload struct {
	Request string `json:"request,omitempty"`
	Error   string `json:"error"`
}

// SaveReadyPayload announces a captured save. The save itself goes to the store.
type SaveReadyPayload struct {
	Slot       string `json:"slot"`
	SnapshotID string `json:"snapshot_id"`
	Agents     int    `json:"agents"`
}

// LoadedPayload announces a completed load.
type LoadedPayload struct {
	SnapshotID string `json:"snapshot_id"`
	Agents     int    `json:"agents"`
}

func decodePayload(env Envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%w: %s needs a payload", ErrBadPayload, env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBadPayload, env.Type, err)
	}
	return nil
}

// DecodeCommand converts a client message into a simulation command.
// Loads by slot and save listings need a store and are handled by the server.
func DecodeCommand(env Envelope) (sim.Command, error) {
	switch env.Type {
	case TypeSpawnAgent:
		var cfg sim.AgentConfig
		if err := decodePayload(env, &cfg); err != nil {
			return nil, err
		}
		return sim.SpawnAgent{Config: cfg}, nil

	case TypeSpawnFamily:
		var p spawnFamilyPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return sim.SpawnFamily{HomeID: p.HomeID, Members: p.Members}, nil

	case TypeSelectAgent:
		var p agentPayload
		if len(env.Payload) > 0 {
			if err := decodePayload(env, &p); err != nil {
				return nil, err
			}
		}
		return sim.SelectAgent{ID: p.ID}, nil

	case TypeSetSpeed:
		var p speedPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return sim.SetSpeed{Multiplier: p.Multiplier}, nil

	case TypeRemoveAgent:
		var p agentPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return sim.RemoveAgent{ID: p.ID}, nil

	case TypeAssignHome:
		var p agentPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return sim.AssignHome{ID: p.ID, HomeID: p.HomeID}, nil

	case TypeRequestCaregiver:
		var p caregiverPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		task, ok := model.ParseCaregiverTask(p.Task)
		if !ok {
			return nil, fmt.Errorf("%w: unknown caregiver task %q", ErrBadPayload, p.Task)
		}
		return sim.RequestCaregiver{HomeID: p.HomeID, Task: task, TargetID: p.TargetID}, nil

	case TypeApplyMapEdit:
		var m snapshot.Map
		if err := decodePayload(env, &m); err != nil {
			return nil, err
		}
		if err := mapfile.Validate(m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		return sim.ApplyMapEdit{Map: m}, nil

	case TypeSave:
		var p SlotPayload
		if len(env.Payload) > 0 {
			if err := decodePayload(env, &p); err != nil {
				return nil, err
			}
		}
		return sim.SaveRequest{Slot: p.Slot}, nil

	case TypeLoad:
		var p LoadPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		if len(p.Save) == 0 {
			return nil, fmt.Errorf("%w: load needs an inline save here", ErrBadPayload)
		}
		s, err := snapshot.Decode(p.Save)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadPayload, err)
		}
		return sim.LoadRequest{Save: s}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// EncodeEvent renders a simulation event as a text message. Saves are
// announced, not shipped: clients fetch them through the store.
func EncodeEvent(ev sim.Event) ([]byte, error) {
	var payload any
	switch ev := ev.(type) {
	case sim.EventSync:
		payload = ev.Sync
	case sim.EventMapInitialized:
		payload = ev.Map
	case sim.EventSaveReady:
		p := SaveReadyPayload{Slot: ev.Slot}
		if ev.Save != nil {
			p.SnapshotID = ev.Save.SnapshotID
			p.Agents = len(ev.Save.Agents)
		}
		payload = p
	case sim.EventLoadFailed:
		p := ErrorPayload{Request: TypeLoad}
		if ev.Err != nil {
			p.Error = ev.Err.Error()
		}
		payload = p
	case sim.EventLoaded:
		payload = LoadedPayload{SnapshotID: ev.SnapshotID, Agents: ev.Agents}
	default:
		return nil, fmt.Errorf("%w: event %q", ErrUnknownType, ev.Kind())
	}
	return encode(ev.Kind(), payload)
}

func encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	b, err := json.Marshal(Envelope{Type: typ, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", typ, err)
	}
	return b, nil
}
