package data

import (
	"context"
	"strings"
	"time"
)

const (
	defaultSnapshotPath = "/api/conversations"
	cacheBustParam      = "_ts"
	requestIDHeader     = "X-Request-ID"
)

// SnapshotFetcher performs one round-trip for the caller's full conversation list.
type SnapshotFetcher interface {
	// FetchConversations returns the complete, validated snapshot or a *FetchError.
	FetchConversations(ctx context.Context) ([]Conversation, error)
}

// Conversation is one thread between the viewing user and exactly one counterpart.
type Conversation struct {
	ID                 string      `json:"id"`
	OrderID            *string     `json:"order_id,omitempty"`
	ProjectID          *string     `json:"project_id,omitempty"`
	Participants       []string    `json:"participants"`
	LastMessageAt      *time.Time  `json:"last_message_at"`
	LastMessagePreview *string     `json:"last_message_preview"`
	UnreadCount        int         `json:"unread_count"`
	Status             string      `json:"status,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	OtherUser          Participant `json:"other_user"`
}

// Participant is the backend-computed view of the counterpart.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type snapshotEnvelope struct {
	Conversations []Conversation `json:"conversations"`
}

type HTTPProviderConfig struct {
	// Endpoint is the full URL of the conversations list endpoint.
	Endpoint string
	// Token is sent as a bearer token when set.
	Token string
	// Timeout bounds one request. Zero leaves the transport defaults in charge.
	Timeout time.Duration
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

type FileProviderConfig struct {
	Path string
}

// HasMessages reports whether any message was ever sent in the conversation.
func (c Conversation) HasMessages() bool {
	return c.LastMessageAt != nil && !c.LastMessageAt.IsZero()
}

// Preview returns the last message preview or "".
func (c Conversation) Preview() string {
	if c.LastMessagePreview == nil {
		return ""
	}
	return *c.LastMessagePreview
}

// OtherParticipantID derives the counterpart relative to viewer. The
// backend-provided view wins; participants are the fallback.
func (c Conversation) OtherParticipantID(viewer string) string {
	if id := strings.TrimSpace(c.OtherUser.ID); id != "" {
		return id
	}
	viewer = strings.TrimSpace(viewer)
	for _, participant := range c.Participants {
		if participant != viewer {
			return participant
		}
	}
	return ""
}

// DisplayName returns the counterpart name, falling back to its id.
func (c Conversation) DisplayName() string {
	if name := strings.TrimSpace(c.OtherUser.Name); name != "" {
		return name
	}
	if id := strings.TrimSpace(c.OtherUser.ID); id != "" {
		return id
	}
	return "unknown"
}
