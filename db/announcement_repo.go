package db

import (
	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AnnouncementRepository interface
type AnnouncementRepository interface {
	FindAnnouncementByID(id uint) (*models.Announcement, error)
	CreateAnnouncement(announcement *models.Announcement) error
	ListAnnouncements(status string, page, pageSize int) ([]models.Announcement, int64, error)
	ListMatchPool(status string, excludeID uint) ([]models.Announcement, error)
}

// announcementRepo struct
type announcementRepo struct {
	DB *gorm.DB
}

// NewAnnouncementRepo creates a new instance of AnnouncementRepository
func NewAnnouncementRepo(db *GormDB) AnnouncementRepository {
	return &announcementRepo{db.DB}
}

func (r *announcementRepo) FindAnnouncementByID(id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.DB.Preload("Owner").Preload("Pet").Preload("Location").
		First(&announcement, id).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepo) CreateAnnouncement(announcement *models.Announcement) error {
	if err := r.DB.Create(announcement).Error; err != nil {
		return errors.Wrap(err, "unable to create announcement")
	}
	return nil
}

func (r *announcementRepo) ListAnnouncements(status string, page, pageSize int) ([]models.Announcement, int64, error) {
	query := r.DB.Model(&models.Announcement{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "unable to count announcements")
	}

	var announcements []models.Announcement
	err := query.Order("id desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Owner").Preload("Pet").Preload("Location").
		Find(&announcements).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to list announcements")
	}
	return announcements, count, nil
}

// ListMatchPool returns the candidate pool for match scoring in database order.
func (r *announcementRepo) ListMatchPool(status string, excludeID uint) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := r.DB.Where("status = ? AND id <> ?", status, excludeID).
		Order("id asc").
		Preload("Owner").Preload("Pet").Preload("Location").
		Find(&announcements).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to load match pool")
	}
	return announcements, nil
}
