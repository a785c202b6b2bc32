package inboxtui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

// truncateVis cuts s to max visible cells, ANSI-aware.
func truncateVis(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	if max == 1 {
		return truncate.String(s, 1)
	}
	return truncate.StringWithTail(s, uint(max), ellipsis)
}

// fit truncates or right-pads s to exactly width cells.
func fit(s string, width int) string {
	s = truncateVis(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// fitLeft is fit with left padding, for right-aligned columns.
func fitLeft(s string, width int) string {
	s = truncateVis(s, width)
	if pad := width - lipgloss.Width(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

// singleLine flattens previews so one conversation is one row.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
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

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
