package local

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/hearth/internal/saves"
	"github.com/udisondev/hearth/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "saves", "hearth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	save := testutil.SampleSave(t)

	require.NoError(t, saves.Save(ctx, st, "one", save))

	got, err := saves.Load(ctx, st, "one")
	require.NoError(t, err)
	assert.Equal(t, save.SnapshotID, got.SnapshotID)
	assert.Equal(t, save.Map, got.Map)
	assert.Len(t, got.Agents, len(save.Agents))
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	save := testutil.SampleSave(t)
	require.NoError(t, saves.Save(ctx, st, "one", save))

	later := *save
	later.Clock += 120
	require.NoError(t, saves.Save(ctx, st, "one", &later))

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, later.Clock, list[0].Clock, 1e-9)
	assert.Equal(t, save.SnapshotID, list[0].SnapshotID.String())
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	save := testutil.SampleSave(t)

	for _, slot := range []string{"a", "b", "c"} {
		require.NoError(t, saves.Save(ctx, st, slot, save))
		time.Sleep(5 * time.Millisecond)
	}

	list, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].Slot, list[1].Slot, list[2].Slot})
	assert.False(t, list[0].UpdatedAt.IsZero())
}

func TestMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	_, err := st.Get(ctx, "nope")
	assert.ErrorIs(t, err, saves.ErrSlotNotFound)
	assert.ErrorIs(t, st.Delete(ctx, "nope"), saves.ErrSlotNotFound)

	require.NoError(t, saves.Save(ctx, st, "x", testutil.SampleSave(t)))
	require.NoError(t, st.Delete(ctx, "x"))
	_, err = st.Get(ctx, "x")
	assert.ErrorIs(t, err, saves.ErrSlotNotFound)
}

func TestReopenKeepsSlots(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hearth.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, saves.Save(ctx, st, "kept", testutil.SampleSave(t)))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Get(ctx, "kept")
	assert.NoError(t, err)
}
