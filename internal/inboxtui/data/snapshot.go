package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const maxSnapshotBytes = 16 << 20

// DecodeSnapshot decodes an envelope ({"conversations":[...]}) or a bare
// array and validates it. Nothing is returned unless the whole snapshot is valid.
func DecodeSnapshot(r io.Reader) ([]Conversation, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxSnapshotBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(raw) > maxSnapshotBytes {
		return nil, fmt.Errorf("%w: snapshot exceeds %d bytes", ErrMalformedSnapshot, maxSnapshotBytes)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrUndecodableSnapshot)
	}

	var conversations []Conversation
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &conversations); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodableSnapshot, err)
		}
	} else {
		var env struct {
			Conversations *[]Conversation `json:"conversations"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodableSnapshot, err)
		}
		if env.Conversations == nil {
			return nil, fmt.Errorf("%w: missing conversations field", ErrMalformedSnapshot)
		}
		conversations = *env.Conversations
	}

	if err := Validate(conversations); err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []Conversation{}
	}
	return conversations, nil
}

// EncodeSnapshot writes conversations in the envelope format.
func EncodeSnapshot(w io.Writer, conversations []Conversation) error {
	if conversations == nil {
		conversations = []Conversation{}
	}
	return json.NewEncoder(w).Encode(snapshotEnvelope{Conversations: conversations})
}

// Validate applies basic shape checks. The first violation rejects the snapshot.
func Validate(conversations []Conversation) error {
	seen := make(map[string]struct{}, len(conversations))
	for i := range conversations {
		conv := &conversations[i]
		id := strings.TrimSpace(conv.ID)
		if id == "" {
			return fmt.Errorf("%w: conversation %d has no id", ErrMalformedSnapshot, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate conversation id %q", ErrMalformedSnapshot, id)
		}
		seen[id] = struct{}{}
		if conv.UnreadCount < 0 {
			return fmt.Errorf("%w: conversation %q has negative unread count %d", ErrMalformedSnapshot, id, conv.UnreadCount)
		}
		if len(conv.Participants) != 2 {
			return fmt.Errorf("%w: conversation %q has %d participants, want 2", ErrMalformedSnapshot, id, len(conv.Participants))
		}
		if conv.CreatedAt.IsZero() {
			return fmt.Errorf("%w: conversation %q has no created_at", ErrMalformedSnapshot, id)
		}
	}
	return nil
}

func CloneConversation(conv Conversation) Conversation {
	cloned := conv
	if conv.OrderID != nil {
		v := *conv.OrderID
		cloned.OrderID = &v
	}
	if conv.ProjectID != nil {
		v := *conv.ProjectID
		cloned.ProjectID = &v
	}
	if conv.LastMessageAt != nil {
		v := *conv.LastMessageAt
		cloned.LastMessageAt = &v
	}
	if conv.LastMessagePreview != nil {
		v := *conv.LastMessagePreview
		cloned.LastMessagePreview = &v
	}
	if len(conv.Participants) > 0 {
		cloned.Participants = append([]string(nil), conv.Participants...)
	}
	return cloned
}

func CloneConversations(conversations []Conversation) []Conversation {
	if conversations == nil {
		return nil
	}
	cloned := make([]Conversation, len(conversations))
	for i := range conversations {
		cloned[i] = CloneConversation(conversations[i])
	}
	return cloned
}
