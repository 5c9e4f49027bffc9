package selection

import (
	"encoding/json"
	"testing"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/pos/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vipTable() entity.Table {
	return entity.Table{
		ID:          5,
		Name:        "Tonio",
		TableNumber: "V1",
		PartySize:   4,
		Status:      "reserved",
		Price:       500,
	}
}

func TestStore_SelectPersistsAndBroadcasts(t *testing.T) {
	sess := session.NewMemoryStore()
	store := NewStore(sess, session.EntrySoft)

	var got []PriceChange
	store.Subscribe(func(pc PriceChange) { got = append(got, pc) })

	store.Select(vipTable())

	require.Len(t, got, 1)
	assert.Equal(t, 500.0, got[0].Price)
	require.NotNil(t, got[0].Table)
	assert.Equal(t, int64(5), got[0].Table.ID)

	raw, ok := sess.Get(StorageKey)
	require.True(t, ok, "selection must be persisted before Select returns")
	var persisted entity.Table
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, "V1", persisted.TableNumber)

	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "Tonio", cur.Name)
}

func TestStore_SelectOverwritesPrevious(t *testing.T) {
	sess := session.NewMemoryStore()
	store := NewStore(sess, session.EntrySoft)

	store.Select(vipTable())
	second := vipTable()
	second.ID = 7
	second.Price = 1500
	store.Select(second)

	cur := store.Current()
	require.NotNil(t, cur)
	assert.Equal(t, int64(7), cur.ID)

	raw, _ := sess.Get(StorageKey)
	var persisted entity.Table
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, int64(7), persisted.ID)
}

func TestStore_ClearBroadcastsZeroOnce(t *testing.T) {
	sess := session.NewMemoryStore()
	store := NewStore(sess, session.EntrySoft)
	store.Select(vipTable())

	var got []PriceChange
	store.Subscribe(func(pc PriceChange) { got = append(got, pc) })

	store.Clear()
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Price)
	assert.Nil(t, got[0].Table)
	assert.Nil(t, store.Current())
	_, ok := sess.Get(StorageKey)
	assert.False(t, ok)

	// clearing again is a no-op: no second broadcast
	store.Clear()
	assert.Len(t, got, 1)
}

func TestStore_ReloadDiscardsPersistedSelection(t *testing.T) {
	sess := session.NewMemoryStore()
	first := NewStore(sess, session.EntrySoft)
	first.Select(vipTable())

	// hard reload: the persisted value must not be readable afterwards
	second := NewStore(sess, session.EntryReload)
	assert.Nil(t, second.Restore())
	assert.Nil(t, second.Current())
	_, ok := sess.Get(StorageKey)
	assert.False(t, ok)
}

func TestStore_RestoreAfterSoftTransition(t *testing.T) {
	sess := session.NewMemoryStore()
	first := NewStore(sess, session.EntrySoft)
	first.Select(vipTable())

	second := NewStore(sess, session.EntrySoft)
	var got []PriceChange
	second.Subscribe(func(pc PriceChange) { got = append(got, pc) })

	restored := second.Restore()
	require.NotNil(t, restored)
	assert.Equal(t, int64(5), restored.ID)
	require.Len(t, got, 1, "restore must rebroadcast the price")
	assert.Equal(t, 500.0, got[0].Price)
}

func TestStore_RestoreDropsCorruptValue(t *testing.T) {
	sess := session.NewMemoryStore()
	sess.Set(StorageKey, "{not json")
	store := NewStore(sess, session.EntrySoft)

	assert.Nil(t, store.Restore())
	_, ok := sess.Get(StorageKey)
	assert.False(t, ok, "unparsable persisted value should be deleted")
}

func TestStore_RebroadcastWithoutSelection(t *testing.T) {
	store := NewStore(session.NewMemoryStore(), session.EntrySoft)

	var got []PriceChange
	store.Subscribe(func(pc PriceChange) { got = append(got, pc) })

	store.Rebroadcast()
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Price)
	assert.Nil(t, got[0].Table)
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	store := NewStore(session.NewMemoryStore(), session.EntrySoft)
	store.Select(vipTable())

	cur := store.Current()
	cur.Price = 9999

	again := store.Current()
	assert.Equal(t, 500.0, again.Price, "mutating the returned table must not affect the store")
}
