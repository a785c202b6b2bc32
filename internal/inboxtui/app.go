// Package inboxtui is the terminal inbox: a polled, searchable conversation list.
package inboxtui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/config"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/poller"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/present"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/styles"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/logging"
)

type Config struct {
	Fetcher      data.SnapshotFetcher
	UserID       string
	Theme        string
	PollInterval time.Duration
	StalePolicy  poller.StalePolicy
	// Observer sees every settled fetch, e.g. the metrics collector.
	Observer poller.Observer
	// OnSelect is notified when a conversation is opened.
	OnSelect present.SelectionHandler
	// Session restores and persists the open conversation and search.
	Session *config.SessionStore
	// Store lets callers share the store with an observer. Optional.
	Store *poller.Store
	// Clock overrides the scheduler clock in tests.
	Clock poller.Clock
	// Source is shown in the header.
	Source string
}

type Model struct {
	userID    string
	source    string
	theme     styles.Theme
	scheduler *poller.Scheduler
	session   *config.SessionStore
	view      *conversationsView
	log       zerolog.Logger

	width    int
	height   int
	showHelp bool
	status   string
	closed   bool
}

func NewModel(cfg Config) (*Model, error) {
	normalized, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	theme, err := styles.ThemeByName(normalized.Theme)
	if err != nil {
		return nil, err
	}

	scheduler := poller.New(normalized.Fetcher, normalized.Store, poller.Options{
		Interval:    normalized.PollInterval,
		Clock:       normalized.Clock,
		StalePolicy: normalized.StalePolicy,
		Observer:    normalized.Observer,
	})

	m := &Model{
		userID:    normalized.UserID,
		source:    normalized.Source,
		theme:     theme,
		scheduler: scheduler,
		session:   normalized.Session,
		log:       logging.Component("inbox"),
	}
	m.view = newConversationsView(scheduler, normalized.UserID, normalized.OnSelect)
	m.restoreSession()
	return m, nil
}

func Run(cfg Config) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// Close stops polling and saves the session. Safe to call more than once.
func (m *Model) Close() error {
	if m == nil || m.closed {
		return nil
	}
	m.closed = true
	m.view.Close()
	return m.saveSession()
}

func (m *Model) Init() tea.Cmd {
	return m.view.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case conversationOpenedMsg:
		m.status = fmt.Sprintf("opened %s", typed.selection.OtherUserName)
		if err := m.saveSession(); err != nil {
			m.log.Warn().Err(err).Msg("save session")
		}
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(typed); handled {
			return m, cmd
		}
	}
	return m, m.view.Update(msg)
}

func (m *Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := m.view.View(m.width, contentHeight, m.theme)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.view.Capturing() {
		return nil, false
	}
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "?":
		m.showHelp = !m.showHelp
		return nil, true
	}
	return nil, false
}

// SetActive highlights the conversation open in the thread view.
func (m *Model) SetActive(id string) {
	m.view.SetActive(id)
}

func (m *Model) restoreSession() {
	if m.session == nil {
		return
	}
	session, err := m.session.Load()
	if err != nil {
		m.log.Warn().Err(err).Str("path", m.session.Path()).Msg("load session")
		return
	}
	m.view.SetActive(session.ActiveConversationID)
	m.view.SetQuery(session.Query)
}

func (m *Model) saveSession() error {
	if m.session == nil {
		return nil
	}
	return m.session.Save(&config.Session{
		ActiveConversationID: m.view.activeID,
		Query:                strings.TrimSpace(m.view.Query()),
	})
}

func (c Config) normalize() (Config, error) {
	if c.Fetcher == nil {
		return Config{}, fmt.Errorf("snapshot fetcher required")
	}
	c.UserID = strings.TrimSpace(c.UserID)
	if c.PollInterval <= 0 {
		c.PollInterval = poller.DefaultInterval
	}
	if c.PollInterval < poller.MinInterval {
		return Config{}, fmt.Errorf("poll interval %s below minimum %s", c.PollInterval, poller.MinInterval)
	}
	if c.StalePolicy == "" {
		c.StalePolicy = poller.DiscardStale
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = styles.DefaultTheme.Name
	}
	if c.Store == nil {
		c.Store = poller.NewStore()
	}
	if c.Source == "" {
		c.Source = describeSource(c.Fetcher)
	}
	return c, nil
}
