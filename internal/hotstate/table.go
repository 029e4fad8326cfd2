// Package hotstate is the fixed-layout, lock-free per-agent record table the
// simulation writes every tick and presentation readers poll every frame.
//
// Each record is 8 little-endian uint32 words (32 bytes):
//
//	off  0  id            agent id
//	off  4  x             float32 bits
//	off  8  y             float32 bits
//	off 12  activity code idle 0, moving 1, commuting 2, waiting 3, escorted 4, interacting 16+key
//	off 16  facing        0..7, 0 = north, clockwise
//	off 20  flags         bit0 occupied, bit1 visible
//	off 24  tick          low 32 bits of the tick that wrote the record
//	off 28  reserved      always 0
//
// There is exactly one writer (the simulation goroutine). Readers never lock;
// they may observe a record mid-update (new x, old code) for one frame, but
// never a record belonging to two agents: slots are zeroed before reuse.
package hotstate

import (
	"encoding/binary"
	"errors"
	"math"
	"sync/atomic"
)

// Layout constants.
const (
	WordsPerRecord = 8
	RecordSize     = WordsPerRecord * 4
	// FrameHeaderSize is u64 sequence + u32 record count.
	FrameHeaderSize = 12
)

// Word offsets inside a record.
const (
	wordID = iota
	wordX
	wordY
	wordCode
	wordFacing
	wordFlags
	wordTick
	wordReserved
)

// Flag bits.
const (
	FlagOccupied uint32 = 1 << 0
	FlagVisible  uint32 = 1 << 1
)

// ErrCapacityExhausted is returned by Allocate when every slot is in use.
var ErrCapacityExhausted = errors.New("hot-state capacity exhausted")

// Slot is an index handle into the table.
type Slot int32

// Record is the decoded form of one slot.
type Record struct {
	ID       uint32
	X, Y     float32
	Code     int32
	Facing   uint8
	Occupied bool
	Visible  bool
	Tick     uint32
}

// IsZero reports whether every field is zero.
func (r Record) IsZero() bool {
	return r == Record{}
}

// Table is the shared record arena. Allocate, Free, Write and Publish belong
// to the single writer; Read, Snapshot, AppendFrame and Sequence are safe
// from any goroutine.
type Table struct {
	words []atomic.Uint32
	seq   atomic.Uint64
	inUse atomic.Int32

	// writer-only
	free []Slot
}

// New creates a table with a fixed capacity.
func New(capacity int) *Table {
	capacity = max(capacity, 0)
	t := &Table{
		words: make([]atomic.Uint32, capacity*WordsPerRecord),
		free:  make([]Slot, capacity),
	}
	// Stack of free slots, lowest index on top.
	for i := range capacity {
		t.free[i] = Slot(capacity - 1 - i)
	}
	return t
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int {
	return len(t.words) / WordsPerRecord
}

// InUse returns the number of allocated slots.
func (t *Table) InUse() int {
	return int(t.inUse.Load())
}

// Allocate reserves a slot for agent id and marks it occupied.
// When no slot is free it returns ErrCapacityExhausted and touches nothing.
func (t *Table) Allocate(id uint32) (Slot, error) {
	n := len(t.free)
	if n == 0 {
		return -1, ErrCapacityExhausted
	}
	s := t.free[n-1]
	t.free = t.free[:n-1]

	base := t.base(s)
	t.words[base+wordID].Store(id)
	t.words[base+wordFlags].Store(FlagOccupied)
	t.inUse.Add(1)
	return s, nil
}

// Free zeroes the record and returns the slot to the free list.
// Freeing an out-of-range or unoccupied slot is a no-op.
func (t *Table) Free(s Slot) {
	if !t.valid(s) {
		return
	}
	base := t.base(s)
	if t.words[base+wordFlags].Load()&FlagOccupied == 0 {
		return
	}
	// Clear occupancy first so readers drop the record before its fields vanish.
	t.words[base+wordFlags].Store(0)
	for i := range WordsPerRecord {
		t.words[base+i].Store(0)
	}
	t.free = append(t.free, s)
	t.inUse.Add(-1)
}

// Write stores r into slot s. The occupied flag is forced on; writes to
// unallocated slots are ignored.
func (t *Table) Write(s Slot, r Record) {
	if !t.valid(s) {
		return
	}
	base := t.base(s)
	if t.words[base+wordFlags].Load()&FlagOccupied == 0 {
		return
	}
	flags := FlagOccupied
	if r.Visible {
		flags |= FlagVisible
	}
	t.words[base+wordX].Store(math.Float32bits(r.X))
	t.words[base+wordY].Store(math.Float32bits(r.Y))
	t.words[base+wordCode].Store(uint32(r.Code))
	t.words[base+wordFacing].Store(uint32(r.Facing))
	t.words[base+wordTick].Store(r.Tick)
	t.words[base+wordFlags].Store(flags)
}

// Publish marks the end of a tick's writes.
func (t *Table) Publish() uint64 {
	return t.seq.Add(1)
}

// Sequence returns the number of published ticks.
func (t *Table) Sequence() uint64 {
	return t.seq.Load()
}

// Read decodes slot s. Out-of-range slots read as zero.
func (t *Table) Read(s Slot) Record {
	if !t.valid(s) {
		return Record{}
	}
	base := t.base(s)
	flags := t.words[base+wordFlags].Load()
	return Record{
		ID:       t.words[base+wordID].Load(),
		X:        math.Float32frombits(t.words[base+wordX].Load()),
		Y:        math.Float32frombits(t.words[base+wordY].Load()),
		Code:     int32(t.words[base+wordCode].Load()),
		Facing:   uint8(t.words[base+wordFacing].Load()),
		Occupied: flags&FlagOccupied != 0,
		Visible:  flags&FlagVisible != 0,
		Tick:     t.words[base+wordTick].Load(),
	}
}

// Snapshot returns every occupied record in slot order.
func (t *Table) Snapshot() []Record {
	out := make([]Record, 0, t.InUse())
	for s := range t.Capacity() {
		if r := t.Read(Slot(s)); r.Occupied {
			out = append(out, r)
		}
	}
	return out
}

// AppendFrame appends a binary frame to buf:
// u64 sequence | u32 count | count × 32-byte occupied records, all little-endian.
func (t *Table) AppendFrame(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, t.Sequence())
	countAt := len(buf)
	buf = binary.LittleEndian.AppendUint32(buf, 0)

	var count uint32
	var rec [WordsPerRecord]uint32
	for s := range t.Capacity() {
		base := s * WordsPerRecord
		for i := range rec {
			rec[i] = t.words[base+i].Load()
		}
		if rec[wordFlags]&FlagOccupied == 0 {
			continue
		}
		for _, w := range rec {
			buf = binary.LittleEndian.AppendUint32(buf, w)
		}
		count++
	}
	binary.LittleEndian.PutUint32(buf[countAt:], count)
	return buf
}

// DecodeFrame parses a frame produced by AppendFrame.
func DecodeFrame(frame []byte) (seq uint64, records []Record, err error) {
	if len(frame) < FrameHeaderSize {
		return 0, nil, errors.New("frame too short")
	}
	seq = binary.LittleEndian.Uint64(frame)
	count := int(binary.LittleEndian.Uint32(frame[8:]))
	body := frame[FrameHeaderSize:]
	if len(body) != count*RecordSize {
		return 0, nil, errors.New("frame length does not match record count")
	}
	records = make([]Record, count)
	for i := range records {
		rec := body[i*RecordSize:]
		word := func(off int) uint32 { return binary.LittleEndian.Uint32(rec[off*4:]) }
		flags := word(wordFlags)
		records[i] = Record{
			ID:       word(wordID),
			X:        math.Float32frombits(word(wordX)),
			Y:        math.Float32frombits(word(wordY)),
			Code:     int32(word(wordCode)),
			Facing:   uint8(word(wordFacing)),
			Occupied: flags&FlagOccupied != 0,
			Visible:  flags&FlagVisible != 0,
			Tick:     word(wordTick),
		}
	}
	return seq, records, nil
}

func (t *Table) valid(s Slot) bool {
	return s >= 0 && int(s) < t.Capacity()
}

func (t *Table) base(s Slot) int {
	return int(s) * WordsPerRecord
}
