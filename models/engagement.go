package models

// SavedAnnouncement marks an announcement a user bookmarked. Toggled, so the
// (announcement, user) pair is unique.
type SavedAnnouncement struct {
	Model
	AnnouncementID uint `json:"announcement_id" gorm:"not null;uniqueIndex:idx_saved_announcement_user"`
	UserID         uint `json:"user_id" gorm:"not null;uniqueIndex:idx_saved_announcement_user"`
}

// Reaction is a user's like on an announcement, toggled like SavedAnnouncement.
type Reaction struct {
	Model
	AnnouncementID uint `json:"announcement_id" gorm:"not null;uniqueIndex:idx_reaction_announcement_user"`
	UserID         uint `json:"user_id" gorm:"not null;uniqueIndex:idx_reaction_announcement_user"`
}

// Comment is a user's comment on an announcement
type Comment struct {
	Model
	AnnouncementID uint   `json:"announcement_id" gorm:"not null;index"`
	UserID         uint   `json:"user_id" gorm:"not null"`
	User           User   `json:"user" gorm:"foreignKey:UserID"`
	Content        string `json:"content" gorm:"type:text;not null" conform:"trim"`
}

// CreateCommentRequest is the payload for commenting on an announcement.
type CreateCommentRequest struct {
	Content string `json:"content" conform:"trim"`
}
