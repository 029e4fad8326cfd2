// Package local stores save slots in a SQLite file for single-machine runs.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/udisondev/hearth/internal/saves"
)

// Store implements saves.Store on SQLite.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating save directory: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		slot TEXT PRIMARY KEY,
		snapshot_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		clock REAL NOT NULL,
		agents INTEGER NOT NULL,
		size INTEGER NOT NULL,
		data BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_save_slots_updated_at ON save_slots(updated_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Put writes or replaces a slot.
func (s *Store) Put(ctx context.Context, rec saves.Record) error {
	if err := saves.ValidateSlot(rec.Slot); err != nil {
		return err
	}
	_, err := s.conn.NamedExecContext(ctx, `
		INSERT INTO save_slots (slot, snapshot_id, version, clock, agents, size, data, updated_at)
		VALUES (:slot, :snapshot_id, :version, :clock, :agents, :size, :data, :updated_at)
		ON CONFLICT(slot) DO UPDATE SET
			snapshot_id = excluded.snapshot_id,
			version = excluded.version,
			clock = excluded.clock,
			agents = excluded.agents,
			size = excluded.size,
			data = excluded.data,
			updated_at = excluded.updated_at`, rec)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", rec.Slot, err)
	}
	return nil
}

// Get loads a slot.
func (s *Store) Get(ctx context.Context, slot string) (saves.Record, error) {
	var rec saves.Record
	err := s.conn.GetContext(ctx, &rec, `
		SELECT slot, snapshot_id, version, clock, agents, size, updated_at, data
		FROM save_slots WHERE slot = ?`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return saves.Record{}, saves.ErrSlotNotFound
	}
	if err != nil {
		return saves.Record{}, fmt.Errorf("reading slot %q: %w", slot, err)
	}
	return rec, nil
}

// List returns every slot, most recently written first.
func (s *Store) List(ctx context.Context) ([]saves.SlotInfo, error) {
	var out []saves.SlotInfo
	err := s.conn.SelectContext(ctx, &out, `
		SELECT slot, snapshot_id, version, clock, agents, size, updated_at
		FROM save_slots ORDER BY updated_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return out, nil
}

// Delete removes a slot.
func (s *Store) Delete(ctx context.Context, slot string) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM save_slots WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	if n == 0 {
		return saves.ErrSlotNotFound
	}
	return nil
}
