package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
)

func TestStoreStartsLoadingAndEmpty(t *testing.T) {
	s := NewStore()
	require.True(t, s.Loading())
	require.NotNil(t, s.Get())
	require.Empty(t, s.Get())
	require.Equal(t, 0, s.Len())
	require.Equal(t, uint64(0), s.Version())
}

func TestStoreReplaceRemovesOmittedConversations(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.ReplaceWith(snapshot("A", "B")))
	require.ElementsMatch(t, []string{"A", "B"}, storeIDs(s))

	require.NoError(t, s.ReplaceWith(snapshot("A")))
	require.Equal(t, []string{"A"}, storeIDs(s))
	_, ok := s.Lookup("B")
	require.False(t, ok)
	require.Equal(t, uint64(2), s.Version())
}

func TestStoreRejectsMalformedSnapshotWhole(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.ReplaceWith(snapshot("A", "B")))

	bad := snapshot("C", "D")
	bad[1].UnreadCount = -1
	require.Error(t, s.ReplaceWith(bad))

	dup := snapshot("E", "E")
	err := s.ReplaceWith(dup)
	require.ErrorIs(t, err, data.ErrMalformedSnapshot)

	require.ElementsMatch(t, []string{"A", "B"}, storeIDs(s))
	require.Equal(t, uint64(1), s.Version())
}

func TestStoreReadersGetIsolatedCopies(t *testing.T) {
	s := NewStore()
	list := snapshot("A")
	preview := "hello"
	list[0].LastMessagePreview = &preview
	require.NoError(t, s.ReplaceWith(list))

	list[0].ID = "mutated"
	preview = "changed"

	got := s.Get()
	require.Equal(t, "A", got[0].ID)
	require.Equal(t, "hello", got[0].Preview())

	got[0].Participants[0] = "someone"
	again, ok := s.Lookup("A")
	require.True(t, ok)
	require.Equal(t, "me", again.Participants[0])
}

func TestStoreIDsUniqueAndUnreadTotal(t *testing.T) {
	s := NewStore()
	list := snapshot("A", "B", "C")
	list[0].UnreadCount = 3
	list[2].UnreadCount = 120
	now := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	list[1].LastMessageAt = &now
	require.NoError(t, s.ReplaceWith(list))

	seen := map[string]bool{}
	for _, c := range s.Get() {
		require.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	require.Equal(t, 123, s.UnreadTotal())
	require.Equal(t, 3, s.Len())
}

func TestStoreMarkSettled(t *testing.T) {
	s := NewStore()
	s.MarkSettled()
	require.False(t, s.Loading())
	require.Empty(t, s.Get())
}
