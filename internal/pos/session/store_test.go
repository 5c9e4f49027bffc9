package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Set("k", "v")
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	s.Set("k", "v2")
	got, _ = s.Get("k")
	assert.Equal(t, "v2", got)

	s.Delete("k")
	_, ok = s.Get("k")
	assert.False(t, ok)

	// deleting a missing key is a no-op
	s.Delete("k")
}

func TestEntryKind_String(t *testing.T) {
	assert.Equal(t, "soft", EntrySoft.String())
	assert.Equal(t, "reload", EntryReload.String())
}
