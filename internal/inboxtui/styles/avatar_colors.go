package styles

import (
	"hash/fnv"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// AvatarColorPalette is an ANSI-256 palette for counterpart avatar glyphs.
// Red and green are left out so they stay free for sync status.
var AvatarColorPalette = []string{
	"33", "39", "45", "69", "75", "81", "87", "99",
	"111", "117", "123", "147", "153", "159", "183", "189",
}

// AvatarColorMapper gives every counterpart a stable color, keyed by user id.
type AvatarColorMapper struct {
	palette []string

	mu    sync.RWMutex
	cache map[string]lipgloss.Style
}

func NewAvatarColorMapper() *AvatarColorMapper {
	return NewAvatarColorMapperWithPalette(nil)
}

// NewAvatarColorMapperWithPalette falls back to AvatarColorPalette when palette is empty.
func NewAvatarColorMapperWithPalette(palette []string) *AvatarColorMapper {
	if len(palette) == 0 {
		palette = AvatarColorPalette
	}
	return &AvatarColorMapper{
		palette: append([]string(nil), palette...),
		cache:   make(map[string]lipgloss.Style, 64),
	}
}

// Glyph returns the background style for a counterpart's avatar glyph.
func (m *AvatarColorMapper) Glyph(userID string) lipgloss.Style {
	key := normalizeKey(userID)

	m.mu.RLock()
	if style, ok := m.cache[key]; ok {
		m.mu.RUnlock()
		return style
	}
	m.mu.RUnlock()

	code := m.ColorCode(key)
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(contrastingTextColor(code))).
		Background(lipgloss.Color(code)).
		Bold(true)

	m.mu.Lock()
	m.cache[key] = style
	m.mu.Unlock()
	return style
}

// ColorCode returns the ANSI-256 code assigned to userID.
func (m *AvatarColorMapper) ColorCode(userID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalizeKey(userID)))
	return m.palette[int(h.Sum32()%uint32(len(m.palette)))]
}

func normalizeKey(id string) string {
	key := strings.ToLower(strings.TrimSpace(id))
	if key == "" {
		return "unknown"
	}
	return key
}

func contrastingTextColor(code string) string {
	index, err := strconv.Atoi(code)
	if err != nil {
		return "231"
	}
	r, g, b := ansi256ToRGB(index)
	if (299*r+587*g+114*b)/1000 >= 150 {
		return "16"
	}
	return "231"
}

func ansi256ToRGB(index int) (int, int, int) {
	switch {
	case index < 0 || index > 255:
		return 255, 255, 255
	case index < 16:
		table := [16][3]int{
			{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
			{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
			{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
			{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
		}
		return table[index][0], table[index][1], table[index][2]
	case index <= 231:
		cube := index - 16
		return channelValue(cube / 36), channelValue((cube / 6) % 6), channelValue(cube % 6)
	default:
		gray := 8 + (index-232)*10
		return gray, gray, gray
	}
}

func channelValue(v int) int {
	if v == 0 {
		return 0
	}
	return 55 + v*40
}
