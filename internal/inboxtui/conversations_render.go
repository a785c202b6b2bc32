package inboxtui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/present"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/styles"
)

const activeMarker = "▌"

func (v *conversationsView) View(width, height int, theme styles.Theme) string {
	v.applyTheme(theme)
	if width <= 0 {
		return loadingText
	}
	if v.store.Version() != v.version {
		v.refresh()
	}

	inner := width - 2 - styles.LayoutInnerPadding*2
	header := v.renderHeader(width)
	searchLine := v.renderSearch(width)
	divider := styles.DividerStyle(v.theme).Render(strings.Repeat("─", maxInt(0, inner)))
	bodyHeight := maxInt(1, height-lipgloss.Height(header)-lipgloss.Height(searchLine)-3)

	content := header + "\n" + searchLine + "\n" + divider + "\n" + v.renderBody(inner, bodyHeight)
	return styles.PanelStyle(v.theme, true).Width(width - 2).Render(content)
}

func (v *conversationsView) renderHeader(width int) string {
	title := v.theme.HeaderStyle().Render("Conversations")
	counts := v.theme.MutedStyle().Render(fmt.Sprintf("%d · %s unread", v.store.Len(), unreadLabel(v.store.UnreadTotal())))
	status := v.renderSyncStatus()

	line := title + "  " + counts
	spaces := width - 4 - lipgloss.Width(line) - lipgloss.Width(status)
	if spaces < 1 {
		return truncateVis(line, maxInt(0, width-4))
	}
	return line + strings.Repeat(" ", spaces) + status
}

func unreadLabel(total int) string {
	if total == 0 {
		return "0"
	}
	return present.Badge(total)
}

func (v *conversationsView) renderSyncStatus() string {
	style := lipgloss.NewStyle()
	switch {
	case v.store.Loading():
		return style.Foreground(lipgloss.Color(v.theme.Sync.Loading)).Render("● syncing")
	case v.lastErr != nil && (v.lastOutcome == poller.OutcomeFailed || v.lastOutcome == poller.OutcomeMalformed):
		return style.Foreground(lipgloss.Color(v.theme.Sync.Failing)).Render("● retrying")
	case !v.lastSync.IsZero():
		return style.Foreground(lipgloss.Color(v.theme.Sync.Live)).Render("● " + v.lastSync.Format("15:04:05"))
	default:
		return style.Foreground(lipgloss.Color(v.theme.Sync.Live)).Render("●")
	}
}

func (v *conversationsView) renderSearch(width int) string {
	v.search.Width = maxInt(1, width-8)
	v.search.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(v.theme.Chrome.Search))
	v.search.PlaceholderStyle = v.theme.MutedStyle()
	if !v.search.Focused() && v.search.Value() == "" {
		return v.theme.AccentStyle().Render("/") + " " + v.theme.MutedStyle().Render(searchPlaceholder)
	}
	return v.search.View()
}

func (v *conversationsView) renderBody(width, height int) string {
	switch {
	case v.store.Loading():
		return v.theme.MutedStyle().Render(loadingText)
	case v.store.Len() == 0:
		return v.theme.MutedStyle().Render(emptyText)
	case len(v.visible) == 0:
		return v.theme.MutedStyle().Render(noMatchesText)
	}

	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+height {
		v.offset = v.selected - height + 1
	}
	v.offset = clampInt(v.offset, 0, maxInt(0, len(v.visible)-height))

	now := v.now()
	widths := styles.ComputeRowWidths(width)
	end := minInt(len(v.visible), v.offset+height)
	lines := make([]string, 0, end-v.offset)
	for i := v.offset; i < end; i++ {
		lines = append(lines, v.renderRow(&v.visible[i], widths, i == v.selected, now))
	}
	return strings.Join(lines, "\n")
}

func (v *conversationsView) renderRow(conv *data.Conversation, widths styles.RowWidths, selected bool, now time.Time) string {
	row := v.theme.Row
	active := conv.ID != "" && conv.ID == v.activeID
	unread := conv.UnreadCount > 0

	marker := " "
	if active {
		marker = lipgloss.NewStyle().Foreground(lipgloss.Color(row.Active)).Render(activeMarker)
	}
	glyph := v.avatars.Glyph(conv.OtherParticipantID(v.viewer)).Render(present.AvatarGlyph(conv.DisplayName()))

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Name))
	switch {
	case active:
		nameStyle = nameStyle.Foreground(lipgloss.Color(row.Active)).Bold(true)
	case unread:
		nameStyle = nameStyle.Foreground(lipgloss.Color(row.Unread)).Bold(true)
	}
	name := nameStyle.Render(fit(conv.DisplayName(), widths.Name))

	timeLabel := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Time)).Render(fitLeft(present.TimeLabel(now, conv.LastMessageAt), widths.Time))

	badge := strings.Repeat(" ", widths.Badge)
	if text := present.Badge(conv.UnreadCount); text != "" {
		badge = lipgloss.NewStyle().
			Foreground(lipgloss.Color(row.BadgeFg)).
			Background(lipgloss.Color(row.BadgeBg)).
			Bold(true).
			Render(fitLeft(text, widths.Badge))
	}

	parts := []string{marker + glyph + " ", name}
	if widths.Preview > 0 {
		preview := singleLine(conv.Preview())
		if !conv.HasMessages() {
			preview = "no messages yet"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(row.Preview)).Render(fit(preview, widths.Preview)))
	}
	parts = append(parts, timeLabel, badge)
	line := strings.Join(parts, strings.Repeat(" ", styles.LayoutGap))

	if selected {
		return lipgloss.NewStyle().Background(lipgloss.Color(row.Selected)).Render(line)
	}
	return line
}
