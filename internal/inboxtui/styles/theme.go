package styles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BaseColors defines global UI colors.
type BaseColors struct {
	Background string
	Foreground string
	Muted      string
	Accent     string
	Border     string
}

// RowColors defines colors for conversation rows.
type RowColors struct {
	Name     string
	Preview  string
	Time     string
	Unread   string
	BadgeFg  string
	BadgeBg  string
	Selected string
	Active   string
}

// SyncColors defines colors for the sync status indicator.
type SyncColors struct {
	Loading string
	Live    string
	Failing string
}

// ChromeColors defines non-content UI colors.
type ChromeColors struct {
	Header string
	Footer string
	Search string
}

// BorderColors defines border colors for pane state.
type BorderColors struct {
	ActivePane   string
	InactivePane string
	Divider      string
}

// Theme defines the inbox style tokens.
type Theme struct {
	Name          string
	BorderStyle   string   // "rounded", "sharp", "double", "hidden"
	AvatarPalette []string // optional override for counterpart colors (ANSI-256 codes)

	Base    BaseColors
	Row     RowColors
	Sync    SyncColors
	Chrome  ChromeColors
	Borders BorderColors
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// ThemeNames returns the known theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName resolves a theme; empty selects the default.
func ThemeByName(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return DefaultTheme, nil
	}
	theme, ok := Themes[key]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (want %s)", name, strings.Join(ThemeNames(), "|"))
	}
	return theme, nil
}

func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Muted))
}

func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Accent))
}

func (t Theme) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chrome.Header)).Bold(true)
}
