package styles

import "github.com/charmbracelet/lipgloss"

const (
	// LayoutGap is the space between row columns.
	LayoutGap = 1

	// LayoutInnerPadding is the horizontal panel content padding.
	LayoutInnerPadding = 1
)

const (
	minNameWidth = 8
	maxNameWidth = 24
	timeWidth    = 9
	badgeWidth   = 3
	glyphWidth   = 3
)

// RowWidths splits a conversation row into columns.
type RowWidths struct {
	Glyph   int
	Name    int
	Preview int
	Time    int
	Badge   int
}

// ComputeRowWidths returns responsive widths for a row of totalWidth cells.
// The preview column is dropped first when space runs out.
func ComputeRowWidths(totalWidth int) RowWidths {
	if totalWidth <= 0 {
		return RowWidths{}
	}
	fixed := glyphWidth + timeWidth + badgeWidth + LayoutGap*4
	name := clampInt(totalWidth/4, minNameWidth, maxNameWidth)
	preview := totalWidth - fixed - name
	if preview < minNameWidth {
		preview = 0
		name = totalWidth - fixed + LayoutGap
		if name < 1 {
			name = 1
		}
	}
	return RowWidths{Glyph: glyphWidth, Name: name, Preview: preview, Time: timeWidth, Badge: badgeWidth}
}

// PanelStyle returns a focused/unfocused border style for panes.
func PanelStyle(theme Theme, focused bool) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(panelBorderStyle(theme)).
		BorderForeground(lipgloss.Color(panelBorderColor(theme, focused))).
		Padding(0, LayoutInnerPadding)
}

// DividerStyle returns the divider style between sections.
func DividerStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Borders.Divider))
}

func panelBorderColor(theme Theme, focused bool) string {
	if focused {
		return theme.Borders.ActivePane
	}
	return theme.Borders.InactivePane
}

func panelBorderStyle(theme Theme) lipgloss.Border {
	switch theme.BorderStyle {
	case "double":
		return lipgloss.DoubleBorder()
	case "sharp":
		return lipgloss.NormalBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
