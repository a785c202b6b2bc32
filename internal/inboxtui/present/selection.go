package present

import (
	"github.com/MarvinNL046/Skilllinkup-sub008/internal/inboxtui/data"
)

// Selection is what the thread view receives when a conversation is opened.
type Selection struct {
	ConversationID string
	OtherUserID    string
	OtherUserName  string
	OtherUserImage string
}

// SelectionHandler is notified fire-and-forget; nothing is awaited.
type SelectionHandler func(Selection)

func SelectionFor(conv data.Conversation, viewer string) Selection {
	return Selection{
		ConversationID: conv.ID,
		OtherUserID:    conv.OtherParticipantID(viewer),
		OtherUserName:  conv.DisplayName(),
		OtherUserImage: conv.OtherUser.Image,
	}
}
