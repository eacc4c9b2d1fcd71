package history

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/coincidence/pkg/codec"
	"github.com/ssargent/coincidence/pkg/frequency"
	"github.com/ssargent/coincidence/pkg/language"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func recordFor(source, text string) *codec.Record {
	return codec.NewRecord(source, uint64(len(text)), frequency.Count([]byte(text)))
}

func TestStore_PutGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	put, err := store.Put(ctx, recordFor("stdin", "aaaa"))
	require.NoError(t, err)
	assert.False(t, put.ID.IsNil())
	assert.Equal(t, language.German, put.Language)

	got, err := store.Get(ctx, put.ID)
	require.NoError(t, err)
	assert.Equal(t, put.ID, got.ID)
	assert.Equal(t, "stdin", got.Source)
	assert.Equal(t, uint64(4), got.Analysis.InputSize)
	assert.Equal(t, uint64(4), got.Analysis.Letters)
	assert.Equal(t, 26.0, got.Analysis.Index)
	assert.Equal(t, 1.0, got.Analysis.Kappa)
	assert.Equal(t, put.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())
}

func TestStore_DegenerateAnalysis(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	put, err := store.Put(ctx, recordFor("stdin", "NO LOWERCASE"))
	require.NoError(t, err)

	got, err := store.Get(ctx, put.ID)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.Analysis.Index))
	assert.Equal(t, language.German, got.Language)
}

func TestStore_GetNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), ksuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Now()
	var ids []ksuid.KSUID
	for i, text := range []string{"first", "second", "third"} {
		r := recordFor("stdin", text)
		r.Timestamp = uint64(base.Add(time.Duration(i) * time.Millisecond).UnixNano())
		entry, err := store.Put(ctx, r)
		require.NoError(t, err)
		ids = append(ids, entry.ID)
	}

	t.Run("all entries newest first", func(t *testing.T) {
		entries, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, ids[2], entries[0].ID)
		assert.Equal(t, ids[1], entries[1].ID)
		assert.Equal(t, ids[0], entries[2].ID)
	})

	t.Run("limit", func(t *testing.T) {
		entries, err := store.List(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, ids[2], entries[0].ID)
	})

	t.Run("empty store", func(t *testing.T) {
		entries, err := openTestStore(t).List(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entry, err := store.Put(ctx, recordFor("stdin", "delete me"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, entry.ID))

	_, err = store.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, entry.ID), ErrNotFound)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	entry, err := store.Put(ctx, recordFor("stdin", "persistent"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.Analysis, got.Analysis)
}

func TestStore_Closed(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.Put(context.Background(), recordFor("stdin", "text"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_CancelledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseID(t *testing.T) {
	id := ksuid.New()

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-a-ksuid")
	assert.ErrorIs(t, err, ErrInvalidID)
}
