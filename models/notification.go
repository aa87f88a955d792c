package models

// NotificationType is the closed set of notification kinds the emitter produces.
type NotificationType string

const (
	NotificationTypeNewMessage      NotificationType = "new_message"
	NotificationTypePostSaved       NotificationType = "post_saved"
	NotificationTypePostLiked       NotificationType = "post_liked"
	NotificationTypeContacted       NotificationType = "contacted"
	NotificationTypeComment         NotificationType = "comment_on_announcement"
	NotificationTypeCommentReaction NotificationType = "comment_reaction"
)

// Notification is a fire-and-forget event record consumed by the notification
// listing surface. The chat subsystem only ever appends; read state is flipped
// by the listing endpoints.
type Notification struct {
	Model
	UserID                uint             `json:"user_id" gorm:"not null;index"`
	Type                  NotificationType `json:"type" gorm:"not null"`
	Title                 string           `json:"title"`
	RelatedAnnouncementID *uint            `json:"related_announcement_id,omitempty"`
	RelatedMessageID      *uint            `json:"related_message_id,omitempty"`
	IsRead                bool             `json:"is_read" gorm:"default:false"`
}
