// Package present turns the store's conversation list into what the inbox renders.
// Everything here is pure: inputs are never mutated.
package present

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
)

const badgeCeiling = 99

// Sort returns a copy ordered by last message time, newest first. Conversations
// without messages sink to the bottom, newest created first.
func Sort(conversations []data.Conversation) []data.Conversation {
	sorted := append([]data.Conversation(nil), conversations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})
	return sorted
}

func less(a, b *data.Conversation) bool {
	aHas, bHas := a.HasMessages(), b.HasMessages()
	if aHas != bHas {
		return aHas
	}
	if aHas && !a.LastMessageAt.Equal(*b.LastMessageAt) {
		return a.LastMessageAt.After(*b.LastMessageAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Filter keeps conversations whose counterpart display name or preview contains query,
// case-insensitively. An empty query keeps everything. Order is preserved.
func Filter(conversations []data.Conversation, query string) []data.Conversation {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return append([]data.Conversation(nil), conversations...)
	}
	out := make([]data.Conversation, 0, len(conversations))
	for i := range conversations {
		if Matches(&conversations[i], needle) {
			out = append(out, conversations[i])
		}
	}
	return out
}

// Matches reports whether conv matches an already lower-cased, trimmed needle.
// The name checked is the one rows show, DisplayName.
func Matches(conv *data.Conversation, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(conv.DisplayName()), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(conv.Preview()), needle)
}

// Visible is the render pipeline: sort, then filter.
func Visible(conversations []data.Conversation, query string) []data.Conversation {
	return Filter(Sort(conversations), query)
}

// TimeLabel renders ts relative to now, in now's location:
// same day "15:04", previous day "Yesterday", the five days before that a
// weekday, anything older (or later than today) "Jan 2". nil renders "".
func TimeLabel(now time.Time, ts *time.Time) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	local := ts.In(now.Location())
	switch days := calendarDaysBetween(local, now); {
	case days == 0:
		return local.Format("15:04")
	case days == 1:
		return "Yesterday"
	case days > 1 && days < 7:
		return local.Format("Mon")
	default:
		return local.Format("Jan 2")
	}
}

// calendarDaysBetween counts calendar days from a to b, ignoring clock time
// and DST shifts.
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// Badge renders an unread count: nothing for zero, the count up to 99, "99+" beyond.
func Badge(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > badgeCeiling:
		return strconv.Itoa(badgeCeiling) + "+"
	default:
		return strconv.Itoa(unread)
	}
}

// AvatarGlyph is the single upper-cased letter shown in place of an avatar image.
func AvatarGlyph(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(unicode.ToUpper(r))
		}
	}
	if r, _ := utf8.DecodeRuneInString(trimmed); r != utf8.RuneError {
		return string(r)
	}
	return "?"
}
