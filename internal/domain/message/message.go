// Package message holds the client/admin conversation records. Messages are
// keyed by participant email, not user id, so conversations survive account
// churn. Soft deletion keeps ids and ordering for reply references.
package message

import "venue-booking/internal/domain/actor"

// DeletedPlaceholder replaces the content of a soft-deleted message.
const DeletedPlaceholder = "Message supprimé"

type Message struct {
	ID             string     `json:"id"`
	Name           string     `json:"name,omitempty"`
	Email          string     `json:"email"`
	Subject        string     `json:"subject,omitempty"`
	Content        string     `json:"content"`
	Date           string     `json:"date"`
	Read           bool       `json:"read"`
	ReadAt         string     `json:"readAt,omitempty"`
	SenderRole     actor.Role `json:"senderRole,omitempty"`
	Attachment     string     `json:"attachment,omitempty"`
	AttachmentName string     `json:"attachmentName,omitempty"`
	// Reactions maps a user id to their emoji; one reaction per user.
	Reactions map[string]string `json:"reactions,omitempty"`
	Pinned    bool              `json:"pinned,omitempty"`
	IsDeleted bool              `json:"isDeleted,omitempty"`
	EditedAt  string            `json:"editedAt,omitempty"`
}

// Patch is a partial message update; nil fields are left untouched by the
// backing store.
type Patch struct {
	Content        *string            `json:"content,omitempty"`
	EditedAt       *string            `json:"editedAt,omitempty"`
	Pinned         *bool              `json:"pinned,omitempty"`
	Reactions      *map[string]string `json:"reactions,omitempty"`
	Read           *bool              `json:"read,omitempty"`
	ReadAt         *string            `json:"readAt,omitempty"`
	IsDeleted      *bool              `json:"isDeleted,omitempty"`
	Attachment     *string            `json:"attachment,omitempty"`
	AttachmentName *string            `json:"attachmentName,omitempty"`
}

// ToggleReaction sets, replaces or clears the actor's emoji on m and returns
// the resulting reaction map without mutating the original.
func (m Message) ToggleReaction(userID, emoji string) map[string]string {
	next := make(map[string]string, len(m.Reactions)+1)
	for k, v := range m.Reactions {
		next[k] = v
	}
	if next[userID] == emoji {
		delete(next, userID)
	} else {
		next[userID] = emoji
	}
	return next
}
