package present

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
)

func ptrTime(t time.Time) *time.Time { return &t }

func ptrString(s string) *string { return &s }

func conv(id, name string, last *time.Time, preview string, unread int, created time.Time) data.Conversation {
	c := data.Conversation{
		ID:            id,
		Participants:  []string{"me", name},
		LastMessageAt: last,
		UnreadCount:   unread,
		CreatedAt:     created,
		OtherUser:     data.Participant{ID: strings.ToLower(name), Name: name},
	}
	if preview != "" {
		c.LastMessagePreview = ptrString(preview)
	}
	return c
}

func ids(list []data.Conversation) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].ID
	}
	return out
}

func TestSortNewestFirstNullsLast(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	list := []data.Conversation{
		conv("empty-old", "Olga", nil, "", 0, base.Add(-72*time.Hour)),
		conv("mid", "Mia", ptrTime(base.Add(-2*time.Hour)), "x", 0, base.Add(-100*time.Hour)),
		conv("empty-new", "Nils", nil, "", 0, base.Add(-time.Hour)),
		conv("top", "Tom", ptrTime(base), "y", 0, base.Add(-200*time.Hour)),
		conv("tie-b", "Bea", ptrTime(base.Add(-3*time.Hour)), "", 0, base.Add(-10*time.Hour)),
		conv("tie-a", "Ada", ptrTime(base.Add(-3*time.Hour)), "", 0, base.Add(-5*time.Hour)),
	}

	sorted := Sort(list)
	require.Equal(t, []string{"top", "mid", "tie-a", "tie-b", "empty-new", "empty-old"}, ids(sorted))
	require.Equal(t, "empty-old", list[0].ID, "input must not be reordered")

	seenNull := false
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if !cur.HasMessages() {
			seenNull = true
			continue
		}
		require.False(t, seenNull, "non-null after null at %d", i)
		require.False(t, cur.LastMessageAt.After(*prev.LastMessageAt))
	}
}

func TestFilterIsCaseInsensitiveSubsetAndPure(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	list := []data.Conversation{
		conv("a", "Alice", ptrTime(base), "Invoice attached", 0, base),
		conv("b", "Bob", ptrTime(base.Add(-time.Hour)), "see you at the DEMO", 0, base),
		conv("c", "Carol Demos", nil, "", 0, base),
	}
	snapshot := data.CloneConversations(list)

	for _, q := range []string{"demo", "DeMo", "  demo  ", "ali", "zzz", "invoice"} {
		got := Filter(list, q)
		needle := strings.ToLower(strings.TrimSpace(q))
		for _, c := range got {
			hay := strings.ToLower(c.OtherUser.Name + "\n" + c.Preview())
			require.Contains(t, hay, needle)
		}
		require.LessOrEqual(t, len(got), len(list))
	}
	require.Equal(t, []string{"b", "c"}, ids(Filter(list, "demo")))
	require.Equal(t, []string{"a", "b", "c"}, ids(Filter(list, "")))
	require.Equal(t, []string{"a", "b", "c"}, ids(Filter(list, "   ")))
	require.Empty(t, Filter(list, "zzz"))
	require.Equal(t, snapshot, list)
}

func TestFilterMatchesDisplayedName(t *testing.T) {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	nameless := conv("n", "", ptrTime(base), "hello", 0, base)
	nameless.OtherUser = data.Participant{ID: "u-42"}
	anonymous := conv("x", "", nil, "", 0, base)
	anonymous.OtherUser = data.Participant{}
	list := []data.Conversation{nameless, anonymous, conv("a", "Alice", nil, "", 0, base)}

	require.Equal(t, "u-42", nameless.DisplayName())
	require.Equal(t, []string{"n"}, ids(Filter(list, "U-42")))
	require.Equal(t, []string{"x"}, ids(Filter(list, "unknown")))
	require.Equal(t, []string{"a"}, ids(Filter(list, "alice")))
}

func TestTimeLabel(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2026, 2, 12, 10, 30, 0, 0, loc) // Thursday

	cases := []struct {
		name string
		ts   *time.Time
		want string
	}{
		{"nil", nil, ""},
		{"same day", ptrTime(time.Date(2026, 2, 12, 0, 5, 0, 0, loc)), "00:05"},
		{"same day other zone", ptrTime(time.Date(2026, 2, 12, 8, 0, 0, 0, time.UTC)), "09:00"},
		{"yesterday late", ptrTime(time.Date(2026, 2, 11, 23, 59, 0, 0, loc)), "Yesterday"},
		{"yesterday early", ptrTime(time.Date(2026, 2, 11, 0, 1, 0, 0, loc)), "Yesterday"},
		{"two days", ptrTime(time.Date(2026, 2, 10, 12, 0, 0, 0, loc)), "Tue"},
		{"six days", ptrTime(time.Date(2026, 2, 6, 12, 0, 0, 0, loc)), "Fri"},
		{"seven days", ptrTime(time.Date(2026, 2, 5, 12, 0, 0, 0, loc)), "Feb 5"},
		{"last year", ptrTime(time.Date(2025, 12, 24, 12, 0, 0, 0, loc)), "Dec 24"},
		{"tomorrow", ptrTime(time.Date(2026, 2, 13, 9, 0, 0, 0, loc)), "Feb 13"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, TimeLabel(now, tc.ts))
		})
	}
}

func TestTimeLabelAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.Equal(t, "Yesterday", TimeLabel(now, ptrTime(time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC))))
	require.Equal(t, "Wed", TimeLabel(now, ptrTime(time.Date(2026, 2, 25, 20, 0, 0, 0, time.UTC))))
}

func TestBadge(t *testing.T) {
	require.Equal(t, "", Badge(0))
	require.Equal(t, "", Badge(-3))
	for n := 1; n <= 99; n++ {
		require.Equal(t, fmt.Sprint(n), Badge(n))
	}
	require.Equal(t, "99+", Badge(100))
	require.Equal(t, "99+", Badge(12345))
}

func TestAvatarGlyph(t *testing.T) {
	require.Equal(t, "A", AvatarGlyph("alice"))
	require.Equal(t, "É", AvatarGlyph("  émile"))
	require.Equal(t, "B", AvatarGlyph("@bob"))
	require.Equal(t, "?", AvatarGlyph(""))
	require.Equal(t, "?", AvatarGlyph("   "))
}

func TestScenarioTodayAndYesterday(t *testing.T) {
	now := time.Date(2026, 2, 9, 15, 0, 0, 0, time.UTC)
	a := conv("A", "Anna", ptrTime(time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)), "meeting notes", 3, now.Add(-48*time.Hour))
	b := conv("B", "Ben", ptrTime(time.Date(2026, 2, 8, 18, 0, 0, 0, time.UTC)), "the logo draft", 0, now.Add(-48*time.Hour))

	visible := Visible([]data.Conversation{b, a}, "")
	require.Equal(t, []string{"A", "B"}, ids(visible))
	require.Equal(t, "3", Badge(visible[0].UnreadCount))
	require.Equal(t, "", Badge(visible[1].UnreadCount))
	require.Equal(t, "09:00", TimeLabel(now, visible[0].LastMessageAt))
	require.Equal(t, "Yesterday", TimeLabel(now, visible[1].LastMessageAt))

	onlyB := Visible([]data.Conversation{a, b}, "LOGO")
	require.Equal(t, []string{"B"}, ids(onlyB))
}

func TestSelectionFor(t *testing.T) {
	c := data.Conversation{
		ID:           "c1",
		Participants: []string{"me", "u2"},
		OtherUser:    data.Participant{Name: "Uma", Image: "https://cdn.test/u2.png"},
	}
	sel := SelectionFor(c, "me")
	require.Equal(t, Selection{
		ConversationID: "c1",
		OtherUserID:    "u2",
		OtherUserName:  "Uma",
		OtherUserImage: "https://cdn.test/u2.png",
	}, sel)
}
