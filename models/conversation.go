package models

import "time"

// Conversation is a 1:1 thread between an announcement's owner and the user who
// reached out about it. At most one conversation exists per (announcement, initiator).
type Conversation struct {
	Model
	AnnouncementID   uint                      `json:"announcement_id" gorm:"not null;uniqueIndex:idx_conversation_announcement_initiator"`
	Announcement     Announcement              `json:"-" gorm:"foreignKey:AnnouncementID;constraint:OnDelete:CASCADE"`
	InitiatorID      uint                      `json:"initiator_id" gorm:"not null;uniqueIndex:idx_conversation_announcement_initiator"`
	Initiator        User                      `json:"-" gorm:"foreignKey:InitiatorID"`
	IsClosed         bool                      `json:"is_closed" gorm:"default:false"`
	RelatedReunionID *uint                     `json:"related_reunion_id,omitempty"`
	Participants     []ConversationParticipant `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	Messages         []ChatMessage             `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// ConversationParticipant links one user to a conversation and carries that
// user's read cursor. Exactly two rows exist per conversation.
type ConversationParticipant struct {
	Model
	ConversationID uint       `json:"conversation_id" gorm:"not null;uniqueIndex:idx_participant_conversation_user"`
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_participant_conversation_user"`
	User           User       `json:"user" gorm:"foreignKey:UserID"`
	LastReadAt     *time.Time `json:"last_read_at,omitempty"`
}

// ConversationSummary is one entry of the conversation list surface.
type ConversationSummary struct {
	ID                 uint            `json:"id"`
	AnnouncementID     uint            `json:"announcement_id"`
	AnnouncementTitle  string          `json:"announcement_title"`
	AnnouncementStatus string          `json:"announcement_status"`
	AnnouncementPet    *Pet            `json:"announcement_pet,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	OtherUser          *ChatUser       `json:"other_user,omitempty"`
	LastMessage        *MessagePreview `json:"last_message,omitempty"`
	UnreadCount        int64           `json:"unread_count"`
	Created            *bool           `json:"created,omitempty"`
}

// ConversationPage wraps a page of conversation summaries.
type ConversationPage struct {
	Count    int64                 `json:"count"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Results  []ConversationSummary `json:"results"`
}

// StartConversationRequest is the payload for the start-conversation endpoint.
type StartConversationRequest struct {
	AnnouncementID uint `json:"announcement_id" binding:"required"`
}
