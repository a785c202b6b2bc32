package inboxtui

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/present"
)

const (
	defaultListTimeout  = 30 * time.Second
	defaultListWidth    = 100
	minListPreviewWidth = 16
	maxListPreviewWidth = 72
	listFixedColumns    = 52
)

type listOptions struct {
	Query string
	Limit int
	Width int
	Now   time.Time
}

// writeConversationList prints the same sorted, filtered list the TUI shows.
func writeConversationList(out io.Writer, conversations []data.Conversation, opts listOptions) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	visible := present.Visible(conversations, opts.Query)
	if len(visible) == 0 {
		text := emptyText
		if len(conversations) > 0 {
			text = noMatchesText
		}
		_, err := fmt.Fprintln(out, text)
		return err
	}
	if opts.Limit > 0 && len(visible) > opts.Limit {
		visible = visible[:opts.Limit]
	}

	width := opts.Width
	if width <= 0 {
		width = defaultListWidth
	}
	previewWidth := clampInt(width-listFixedColumns, minListPreviewWidth, maxListPreviewWidth)

	rows := make([][]string, 0, len(visible))
	for i := range visible {
		conv := &visible[i]
		rows = append(rows, []string{
			present.Badge(conv.UnreadCount),
			truncateVis(conv.DisplayName(), 24),
			truncateVis(singleLine(conv.Preview()), previewWidth),
			present.TimeLabel(now, conv.LastMessageAt),
			conv.ID,
		})
	}
	return writeTable(out, []string{"UNREAD", "NAME", "LAST MESSAGE", "WHEN", "ID"}, rows)
}

func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
