package poller

import (
	"sync"

	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
)

// Store holds the authoritative conversation list. The scheduler loop is its
// only writer; views read cloned copies.
type Store struct {
	mu            sync.RWMutex
	conversations []data.Conversation
	index         map[string]int
	version       uint64
	settled       bool
}

func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// ReplaceWith swaps in a full snapshot. A snapshot that fails validation is
// rejected whole and the previous state is kept.
func (s *Store) ReplaceWith(snapshot []data.Conversation) error {
	if err := data.Validate(snapshot); err != nil {
		return err
	}
	next := data.CloneConversations(snapshot)
	index := make(map[string]int, len(next))
	for i := range next {
		index[next[i].ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = next
	s.index = index
	s.version++
	return nil
}

// Get returns the current list in snapshot order. Sorting is a presentation concern.
func (s *Store) Get() []data.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := data.CloneConversations(s.conversations)
	if out == nil {
		out = []data.Conversation{}
	}
	return out
}

func (s *Store) Lookup(id string) (data.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return data.Conversation{}, false
	}
	return data.CloneConversation(s.conversations[i]), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// UnreadTotal sums unread counts across all conversations.
func (s *Store) UnreadTotal() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for i := range s.conversations {
		total += s.conversations[i].UnreadCount
	}
	return total
}

// Version increments on every applied snapshot.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Loading is true until the first fetch settles, successfully or not.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.settled
}

func (s *Store) MarkSettled() {
	s.mu.Lock()
	s.settled = true
	s.mu.Unlock()
}
