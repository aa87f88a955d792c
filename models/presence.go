package models

import "time"

// UserPresence tracks online state per user. Rows are upserted only by the
// realtime gateway's connect/disconnect transitions.
type UserPresence struct {
	UserID     uint      `json:"user_id" gorm:"primaryKey"`
	Online     bool      `json:"online"`
	LastSeenAt time.Time `json:"last_seen_at"`
}
