package inboxtui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/present"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/styles"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/logging"
)

const (
	loadingText         = "loading conversations…"
	emptyText           = "(no conversations)"
	noMatchesText       = "(no matches)"
	searchPlaceholder   = "search by name or message"
	searchCharLimit     = 120
	conversationsPageBy = 10
)

type conversationsView struct {
	scheduler *poller.Scheduler
	store     *poller.Store
	viewer    string
	onSelect  present.SelectionHandler
	now       func() time.Time
	log       zerolog.Logger

	theme   styles.Theme
	avatars *styles.AvatarColorMapper

	search textinput.Model

	visible    []data.Conversation
	version    uint64
	selected   int
	selectedID string
	offset     int
	activeID   string

	lastOutcome poller.Outcome
	lastErr     error
	lastSync    time.Time

	started bool
	done    chan struct{}
}

// conversationsUpdateMsg carries one scheduler notification into the program.
type conversationsUpdateMsg struct {
	update poller.Update
	ok     bool
}

// conversationOpenedMsg tells the app which conversation the user opened.
type conversationOpenedMsg struct {
	selection present.Selection
}

func newConversationsView(scheduler *poller.Scheduler, viewer string, onSelect present.SelectionHandler) *conversationsView {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = searchPlaceholder
	input.CharLimit = searchCharLimit

	return &conversationsView{
		scheduler: scheduler,
		store:     scheduler.Store(),
		viewer:    viewer,
		onSelect:  onSelect,
		now:       time.Now,
		log:       logging.Component("inbox"),
		theme:     styles.DefaultTheme,
		avatars:   styles.NewAvatarColorMapperWithPalette(styles.DefaultTheme.AvatarPalette),
		search:    input,
		done:      make(chan struct{}),
	}
}

// Init mounts the view: polling starts and the first fetch goes out immediately.
func (v *conversationsView) Init() tea.Cmd {
	if !v.started {
		if err := v.scheduler.Start(context.Background()); err != nil && !errors.Is(err, poller.ErrAlreadyStarted) {
			v.log.Error().Err(err).Msg("start polling")
			v.lastErr = err
			return nil
		}
		v.started = true
	}
	v.refresh()
	return v.listenCmd()
}

// Close unmounts the view. Nothing reaches the store after it returns.
func (v *conversationsView) Close() {
	if v == nil {
		return
	}
	select {
	case <-v.done:
	default:
		close(v.done)
	}
	v.scheduler.Stop()
}

func (v *conversationsView) listenCmd() tea.Cmd {
	updates := v.scheduler.Updates()
	done := v.done
	return func() tea.Msg {
		select {
		case u := <-updates:
			return conversationsUpdateMsg{update: u, ok: true}
		case <-done:
			return conversationsUpdateMsg{}
		}
	}
}

func (v *conversationsView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case conversationsUpdateMsg:
		if !typed.ok {
			return nil
		}
		v.applyUpdate(typed.update)
		return v.listenCmd()
	case tea.KeyMsg:
		return v.handleKey(typed)
	default:
		if v.search.Focused() {
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			return cmd
		}
		return nil
	}
}

func (v *conversationsView) applyUpdate(u poller.Update) {
	v.lastOutcome = u.Outcome
	switch u.Outcome {
	case poller.OutcomeApplied:
		v.lastErr = nil
		v.lastSync = v.now()
	case poller.OutcomeFailed, poller.OutcomeMalformed:
		v.lastErr = u.Err
		if v.lastErr == nil {
			v.lastErr = data.ErrMalformedSnapshot
		}
	}
	v.refresh()
}

// Capturing reports whether keystrokes belong to the search box.
func (v *conversationsView) Capturing() bool {
	return v.search.Focused()
}

func (v *conversationsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.search.Focused() {
		switch msg.String() {
		case "esc":
			v.search.Reset()
			v.search.Blur()
			v.refresh()
			return nil
		case "enter", "down", "up":
			v.search.Blur()
			if msg.String() == "enter" {
				return nil
			}
		default:
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			v.refresh()
			return cmd
		}
	}

	switch msg.String() {
	case "/":
		return v.search.Focus()
	case "esc":
		if v.search.Value() != "" {
			v.search.Reset()
			v.refresh()
		}
		return nil
	case "up", "k":
		v.moveTo(v.selected - 1)
	case "down", "j":
		v.moveTo(v.selected + 1)
	case "pgup":
		v.moveTo(v.selected - conversationsPageBy)
	case "pgdown":
		v.moveTo(v.selected + conversationsPageBy)
	case "home", "g":
		v.moveTo(0)
	case "end", "G":
		v.moveTo(len(v.visible) - 1)
	case "r":
		v.scheduler.RefreshNow()
	case "enter":
		return v.open()
	}
	return nil
}

func (v *conversationsView) moveTo(index int) {
	if len(v.visible) == 0 {
		v.selected = 0
		v.selectedID = ""
		return
	}
	v.selected = clampInt(index, 0, len(v.visible)-1)
	v.selectedID = v.visible[v.selected].ID
}

// open hands the selection to the handler without waiting on it.
func (v *conversationsView) open() tea.Cmd {
	conv, ok := v.Selected()
	if !ok {
		return nil
	}
	sel := present.SelectionFor(conv, v.viewer)
	v.activeID = sel.ConversationID
	if v.onSelect != nil {
		v.onSelect(sel)
	}
	return func() tea.Msg { return conversationOpenedMsg{selection: sel} }
}

// Selected returns the conversation under the cursor.
func (v *conversationsView) Selected() (data.Conversation, bool) {
	if v.selected < 0 || v.selected >= len(v.visible) {
		return data.Conversation{}, false
	}
	return v.visible[v.selected], true
}

// SetActive marks the conversation currently open elsewhere.
func (v *conversationsView) SetActive(id string) {
	v.activeID = id
}

// SetQuery replaces the search text.
func (v *conversationsView) SetQuery(query string) {
	v.search.SetValue(query)
	v.refresh()
}

func (v *conversationsView) Query() string {
	return v.search.Value()
}

// refresh re-reads the store and re-applies sort and search. The cursor follows
// the selected conversation id; when that conversation is gone it stays at the
// same row index.
func (v *conversationsView) refresh() {
	v.version = v.store.Version()
	v.visible = present.Visible(v.store.Get(), v.search.Value())

	if len(v.visible) == 0 {
		v.selected = 0
		v.selectedID = ""
		v.offset = 0
		return
	}
	if v.selectedID != "" {
		for i := range v.visible {
			if v.visible[i].ID == v.selectedID {
				v.selected = i
				return
			}
		}
	}
	v.moveTo(v.selected)
}

func (v *conversationsView) applyTheme(theme styles.Theme) {
	if v.theme.Name == theme.Name {
		return
	}
	v.theme = theme
	v.avatars = styles.NewAvatarColorMapperWithPalette(theme.AvatarPalette)
}
