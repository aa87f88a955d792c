package services

import (
	"errors"
	"log"
	"time"

	"github.com/pawtrail/pawtrail/db"
	"github.com/pawtrail/pawtrail/models"
	"gorm.io/gorm"
)

// PresenceService flips per-user online state on gateway connect/disconnect.
// Writes are best-effort side effects and never block message delivery.
type PresenceService interface {
	SetOnline(userID uint)
	SetOffline(userID uint)
	GetPresence(userID uint) (*models.UserPresence, error)
	ListOnlineUsers() ([]models.UserPresence, error)
}

// presenceService struct
type presenceService struct {
	presenceRepo db.PresenceRepository
}

// NewPresenceService creates a new instance of PresenceService
func NewPresenceService(presenceRepo db.PresenceRepository) PresenceService {
	return &presenceService{presenceRepo: presenceRepo}
}

func (s *presenceService) SetOnline(userID uint) {
	if err := s.presenceRepo.SetPresence(userID, true, time.Now()); err != nil {
		log.Printf("unable to mark user %d online: %v", userID, err)
	}
}

func (s *presenceService) SetOffline(userID uint) {
	if err := s.presenceRepo.SetPresence(userID, false, time.Now()); err != nil {
		log.Printf("unable to mark user %d offline: %v", userID, err)
	}
}

// GetPresence returns nil for a user who has never connected.
func (s *presenceService) GetPresence(userID uint) (*models.UserPresence, error) {
	presence, err := s.presenceRepo.GetPresence(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return presence, nil
}

func (s *presenceService) ListOnlineUsers() ([]models.UserPresence, error) {
	return s.presenceRepo.ListOnlineUsers()
}
