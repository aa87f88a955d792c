package models

// Announcement is a lost or found pet listing. Listing CRUD lives here only to
// the extent the chat and matching subsystems need it.
type Announcement struct {
	Model
	OwnerID     uint      `json:"owner_id" gorm:"not null;index"`
	Owner       User      `json:"owner" gorm:"foreignKey:OwnerID"`
	Status      string    `json:"status" gorm:"not null;index"`
	PetID       uint      `json:"pet_id" gorm:"not null"`
	Pet         Pet       `json:"pet" gorm:"foreignKey:PetID;constraint:OnDelete:CASCADE"`
	LocationID  *uint     `json:"location_id,omitempty"`
	Location    *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Description string    `json:"description" gorm:"type:text" conform:"trim"`
}

const (
	StatusLost  = "lost"
	StatusFound = "found"
)

// OppositeStatus returns the counterpart pool status for match scoring.
func OppositeStatus(status string) string {
	if status == StatusLost {
		return StatusFound
	}
	return StatusLost
}

// MatchCandidate pairs a candidate announcement with its reunion score.
type MatchCandidate struct {
	Announcement Announcement `json:"announcement"`
	Score        float64      `json:"score"`
}

// CreateAnnouncementRequest is the payload for posting a new announcement.
type CreateAnnouncementRequest struct {
	Status      string   `json:"status" binding:"required,oneof=lost found"`
	Pet         Pet      `json:"pet" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     string   `json:"address" conform:"trim"`
	Description string   `json:"description" conform:"trim"`
}
