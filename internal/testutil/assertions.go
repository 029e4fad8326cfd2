package testutil

import (
	"encoding/binary"
	"testing"

	"github.com/udisondev/hearth/internal/hotstate"
)

// AssertUint32LE checks a little-endian uint32 at offset.
func AssertUint32LE(t testing.TB, expected uint32, buf []byte, offset int) {
	t.Helper()

	if len(buf) < offset+4 {
		t.Fatalf("buffer too short: need %d bytes for uint32 at offset %d, got %d",
			offset+4, offset, len(buf))
	}

	actual := binary.LittleEndian.Uint32(buf[offset:])
	if actual != expected {
		t.Fatalf("uint32 mismatch at offset %d: expected %d, got %d", offset, expected, actual)
	}
}

// AssertFrame checks a hot-state frame header and its length, and returns
// the decoded records.
func AssertFrame(t testing.TB, frame []byte, wantCount int) []hotstate.Record {
	t.Helper()

	want := hotstate.FrameHeaderSize + wantCount*hotstate.RecordSize
	if len(frame) != want {
		t.Fatalf("frame length mismatch: expected %d, got %d", want, len(frame))
	}
	AssertUint32LE(t, uint32(wantCount), frame, 8)

	_, records, err := hotstate.DecodeFrame(frame)
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	return records
}
