package models

import "time"

// ChatMessage is an append-only event inside a conversation. Rows are never
// mutated after creation except for the read flag, and never deleted directly;
// ordering is by id, which tie-breaks equal timestamps.
type ChatMessage struct {
	Model
	ConversationID uint   `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint   `json:"sender_id" gorm:"not null"`
	Sender         User   `json:"-" gorm:"foreignKey:SenderID"`
	Text           string `json:"text" gorm:"type:text;not null"`
	Attachment     string `json:"attachment,omitempty"`
	Image          string `json:"image,omitempty"`
	Location       string `json:"location,omitempty"`
	SystemMessage  bool   `json:"system_message" gorm:"default:false"`
	IsRead         bool   `json:"is_read" gorm:"default:false"`
}

// MessagePreview is the latest-message teaser on a conversation summary.
type MessagePreview struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	SenderID  uint      `json:"sender_id"`
}

// MessagePage is one page of conversation history. NextBeforeID is set only
// when the page came back full, signaling more history may exist.
type MessagePage struct {
	Results      []ChatMessage `json:"results"`
	NextBeforeID *uint         `json:"next_before_id,omitempty"`
}

// SendMessageRequest is the payload of the HTTP send-message fallback.
type SendMessageRequest struct {
	Text string `json:"text" conform:"trim"`
}
