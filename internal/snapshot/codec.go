package snapshot

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/save.schema.json
var saveSchemaJSON string

// maxDecodedSize caps decompressed saves.
const maxDecodedSize = 256 << 20

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	saveSchema = sync.OnceValue(func() *jsonschema.Schema {
		return jsonschema.MustCompileString("save.schema.json", saveSchemaJSON)
	})
	encoder = sync.OnceValue(func() *zstd.Encoder {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("zstd encoder: %v", err))
		}
		return enc
	})
	decoder = sync.OnceValue(func() *zstd.Decoder {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
		if err != nil {
			panic(fmt.Sprintf("zstd decoder: %v", err))
		}
		return dec
	})
)

// Schema returns the embedded JSON schema of the save format.
func Schema() string {
	return saveSchemaJSON
}

// Encode serializes s as zstd-compressed JSON.
func Encode(s *Save) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal save: %w", err)
	}
	return encoder().EncodeAll(raw, make([]byte, 0, len(raw)/4)), nil
}

// EncodeJSON serializes s as indented, uncompressed JSON.
func EncodeJSON(s *Save) ([]byte, error) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal save: %w", err)
	}
	return raw, nil
}

// Decode parses a save produced by Encode. Plain JSON is accepted too.
// Structurally incomplete data is rejected with ErrInvalidSnapshot;
// missing optional fields get defaults.
func Decode(data []byte) (*Save, error) {
	raw, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}

	var s Save
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if s.Version > Version {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrUnsupportedVersion, s.Version, Version)
	}
	s.applyDefaults()
	return &s, nil
}

// Decompress returns the JSON payload of data, inflating it when it is zstd framed.
func Decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	raw, err := decoder().DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrInvalidSnapshot, err)
	}
	return raw, nil
}

// Validate checks raw JSON against the save schema.
func Validate(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := saveSchema().Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return nil
}

func (s *Save) applyDefaults() {
	if s.Version == 0 {
		s.Version = Version
	}
	if s.SnapshotID == "" {
		s.SnapshotID = uuid.NewString()
	}
}

// WriteFile encodes s into path, creating parent directories.
func WriteFile(path string, s *Save) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating save dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing save %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes the save stored at path.
func ReadFile(path string) (*Save, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding save %s: %w", path, err)
	}
	return s, nil
}
