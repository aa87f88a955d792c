package db

import (
	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// EngagementRepository covers saves, reactions and comments on announcements.
type EngagementRepository interface {
	ToggleSave(announcementID, userID uint) (bool, error)
	ToggleReaction(announcementID, userID uint) (bool, error)
	CreateComment(comment *models.Comment) error
	ListComments(announcementID uint) ([]models.Comment, error)
}

// engagementRepo struct
type engagementRepo struct {
	DB *gorm.DB
}

// NewEngagementRepo creates a new instance of EngagementRepository
func NewEngagementRepo(db *GormDB) EngagementRepository {
	return &engagementRepo{db.DB}
}

// ToggleSave flips the saved state and reports whether the announcement is now saved.
func (r *engagementRepo) ToggleSave(announcementID, userID uint) (bool, error) {
	var existing models.SavedAnnouncement
	err := r.DB.Where("announcement_id = ? AND user_id = ?", announcementID, userID).
		First(&existing).Error
	if err == nil {
		if err := r.DB.Delete(&existing).Error; err != nil {
			return false, errors.Wrap(err, "unable to remove saved announcement")
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, errors.Wrap(err, "unable to check saved announcement")
	}

	saved := models.SavedAnnouncement{AnnouncementID: announcementID, UserID: userID}
	if err := r.DB.Create(&saved).Error; err != nil {
		return false, errors.Wrap(err, "unable to save announcement")
	}
	return true, nil
}

// ToggleReaction flips the like state and reports whether the announcement is now liked.
func (r *engagementRepo) ToggleReaction(announcementID, userID uint) (bool, error) {
	var existing models.Reaction
	err := r.DB.Where("announcement_id = ? AND user_id = ?", announcementID, userID).
		First(&existing).Error
	if err == nil {
		if err := r.DB.Delete(&existing).Error; err != nil {
			return false, errors.Wrap(err, "unable to remove reaction")
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, errors.Wrap(err, "unable to check reaction")
	}

	reaction := models.Reaction{AnnouncementID: announcementID, UserID: userID}
	if err := r.DB.Create(&reaction).Error; err != nil {
		return false, errors.Wrap(err, "unable to create reaction")
	}
	return true, nil
}

func (r *engagementRepo) CreateComment(comment *models.Comment) error {
	if err := r.DB.Create(comment).Error; err != nil {
		return errors.Wrap(err, "unable to create comment")
	}
	return nil
}

func (r *engagementRepo) ListComments(announcementID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.Preload("User").
		Where("announcement_id = ?", announcementID).
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list comments")
	}
	return comments, nil
}
