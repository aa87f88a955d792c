package db

import (
	"time"

	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PresenceRepository interface
type PresenceRepository interface {
	SetPresence(userID uint, online bool, at time.Time) error
	GetPresence(userID uint) (*models.UserPresence, error)
	ListOnlineUsers() ([]models.UserPresence, error)
}

// presenceRepo struct
type presenceRepo struct {
	DB *gorm.DB
}

// NewPresenceRepo creates a new instance of PresenceRepository
func NewPresenceRepo(db *GormDB) PresenceRepository {
	return &presenceRepo{db.DB}
}

// SetPresence upserts the presence row for the user. The row is created on
// first use; repeated transitions are idempotent.
func (r *presenceRepo) SetPresence(userID uint, online bool, at time.Time) error {
	presence := models.UserPresence{
		UserID:     userID,
		Online:     online,
		LastSeenAt: at,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"online", "last_seen_at"}),
	}).Create(&presence).Error
	if err != nil {
		return errors.Wrap(err, "unable to upsert presence")
	}
	return nil
}

func (r *presenceRepo) GetPresence(userID uint) (*models.UserPresence, error) {
	var presence models.UserPresence
	if err := r.DB.First(&presence, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &presence, nil
}

func (r *presenceRepo) ListOnlineUsers() ([]models.UserPresence, error) {
	var presences []models.UserPresence
	if err := r.DB.Where("online = ?", true).Find(&presences).Error; err != nil {
		return nil, errors.Wrap(err, "unable to list online users")
	}
	return presences, nil
}
