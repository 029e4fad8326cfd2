package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/hearth/internal/saves"
)

// historyLimit is how many snapshot ids are kept per slot in save_history.
const historyLimit = 20

// SaveRepository implements saves.Store on PostgreSQL.
type SaveRepository struct {
	db    *pgxpool.Pool
	owner *DB
}

// NewSaveRepository creates a repository over an existing pool. The caller
// keeps ownership of the pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Put upserts the slot and records the snapshot in save_history, in one transaction.
func (r *SaveRepository) Put(ctx context.Context, rec saves.Record) error {
	if err := saves.ValidateSlot(rec.Slot); err != nil {
		return err
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for slot %q: %w", rec.Slot, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "slot", rec.Slot, "error", err)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO save_slots (slot, snapshot_id, version, clock, agents, size, data, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slot) DO UPDATE SET
			snapshot_id = EXCLUDED.snapshot_id,
			version     = EXCLUDED.version,
			clock       = EXCLUDED.clock,
			agents      = EXCLUDED.agents,
			size        = EXCLUDED.size,
			data        = EXCLUDED.data,
			updated_at  = EXCLUDED.updated_at`,
		rec.Slot, rec.SnapshotID, rec.Version, rec.Clock, rec.Agents, rec.Size, rec.Data, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", rec.Slot, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO save_history (snapshot_id, slot, clock, agents, saved_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (snapshot_id) DO NOTHING`,
		rec.SnapshotID, rec.Slot, rec.Clock, rec.Agents, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording history for slot %q: %w", rec.Slot, err)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM save_history
		WHERE slot = $1 AND snapshot_id NOT IN (
			SELECT snapshot_id FROM save_history WHERE slot = $1
			ORDER BY saved_at DESC LIMIT $2
		)`, rec.Slot, historyLimit)
	if err != nil {
		return fmt.Errorf("trimming history for slot %q: %w", rec.Slot, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit slot %q: %w", rec.Slot, err)
	}
	return nil
}

// Get loads a slot.
func (r *SaveRepository) Get(ctx context.Context, slot string) (saves.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot, snapshot_id, version, clock, agents, size, updated_at, data
		FROM save_slots WHERE slot = $1`, slot)
	if err != nil {
		return saves.Record{}, fmt.Errorf("querying slot %q: %w", slot, err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[saves.Record])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return saves.Record{}, saves.ErrSlotNotFound
		}
		return saves.Record{}, fmt.Errorf("scanning slot %q: %w", slot, err)
	}
	return rec, nil
}

// List returns every slot, most recently written first.
func (r *SaveRepository) List(ctx context.Context) ([]saves.SlotInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT slot, snapshot_id, version, clock, agents, size, updated_at
		FROM save_slots ORDER BY updated_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[saves.SlotInfo])
	if err != nil {
		return nil, fmt.Errorf("scanning slots: %w", err)
	}
	return out, nil
}

// History returns the snapshot ids recently written to slot, newest first.
func (r *SaveRepository) History(ctx context.Context, slot string) ([]saves.SlotInfo, error) {
	rows, err := r.db.Query(ctx, `
		SELECT snapshot_id, slot, clock, agents, saved_at
		FROM save_history WHERE slot = $1
		ORDER BY saved_at DESC`, slot)
	if err != nil {
		return nil, fmt.Errorf("querying history for slot %q: %w", slot, err)
	}
	defer rows.Close()

	result := make([]saves.SlotInfo, 0, historyLimit)
	for rows.Next() {
		var info saves.SlotInfo
		if err := rows.Scan(&info.SnapshotID, &info.Slot, &info.Clock, &info.Agents, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history rows: %w", err)
	}
	return result, nil
}

// Delete removes a slot. Its history stays.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM save_slots WHERE slot = $1`, slot)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slot, err)
	}
	if tag.RowsAffected() == 0 {
		return saves.ErrSlotNotFound
	}
	return nil
}

// Close closes the pool when the repository was created by Open.
func (r *SaveRepository) Close() error {
	if r.owner != nil {
		r.owner.Close()
	}
	return nil
}
