package inboxtui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/config"
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/present"
)

func newTestModel(t *testing.T, session *config.SessionStore) *Model {
	t.Helper()
	m, err := NewModel(Config{
		Fetcher: staticFetcher{conversations: sampleInbox()},
		UserID:  " me ",
		Session: session,
		Source:  "fixture",
	})
	require.NoError(t, err)
	m.view.now = func() time.Time { return testNow }
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestNewModelRequiresFetcher(t *testing.T) {
	_, err := NewModel(Config{})
	require.Error(t, err)
}

func TestNewModelRejectsBadSettings(t *testing.T) {
	_, err := NewModel(Config{Fetcher: staticFetcher{}, Theme: "neon"})
	require.Error(t, err)

	_, err = NewModel(Config{Fetcher: staticFetcher{}, PollInterval: 1})
	require.Error(t, err)
}

func TestModelRendersChrome(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	publish(t, m.view, sampleInbox()...)

	out := m.View()
	require.Contains(t, out, "inbox")
	require.Contains(t, out, "user: me")
	require.Contains(t, out, "fixture")
	require.Contains(t, out, "Conversations")
	require.Contains(t, out, "[/] search")
}

func TestModelGlobalKeysYieldToSearch(t *testing.T) {
	m := newTestModel(t, nil)
	publish(t, m.view, sampleInbox()...)

	_, cmd := m.Update(keyRunes("?"))
	require.Nil(t, cmd)
	require.True(t, m.showHelp)

	m.Update(keyRunes("/"))
	require.True(t, m.view.Capturing())
	m.Update(keyRunes("q"))
	require.Equal(t, "q", m.view.Query())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	require.True(t, quit)
}

func TestModelOpenPersistsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	m := newTestModel(t, config.NewSessionStore(path))
	publish(t, m.view, sampleInbox()...)

	m.view.SetQuery("o")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Contains(t, m.status, "opened Nina")

	saved, err := config.NewSessionStore(path).Load()
	require.NoError(t, err)
	require.Equal(t, "c-new", saved.ActiveConversationID)
	require.Equal(t, "o", saved.Query)
}

func TestModelRestoresSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	store := config.NewSessionStore(path)
	require.NoError(t, store.Save(&config.Session{ActiveConversationID: "c-mid", Query: "mil"}))

	m := newTestModel(t, store)
	publish(t, m.view, sampleInbox()...)
	require.Equal(t, "c-mid", m.view.activeID)
	require.Equal(t, "mil", m.view.Query())
	require.Equal(t, []string{"c-mid"}, visibleIDs(m.view))
}

func TestModelCloseIsIdempotentAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	m := newTestModel(t, config.NewSessionStore(path))
	m.SetActive("c-old")

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	saved, err := config.NewSessionStore(path).Load()
	require.NoError(t, err)
	require.Equal(t, "c-old", saved.ActiveConversationID)
}

func TestModelForwardsSelection(t *testing.T) {
	var got present.Selection
	m, err := NewModel(Config{
		Fetcher:  staticFetcher{},
		UserID:   "me",
		OnSelect: func(sel present.Selection) { got = sel },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	publish(t, m.view, sampleInbox()...)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, "c-new", got.ConversationID)
	require.Equal(t, "u-c-new", got.OtherUserID)
}
