package db

import (
	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NotificationRepository interface
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	ListNotifications(userID uint) ([]models.Notification, error)
	MarkAllRead(userID uint) error
	UnreadNotificationCount(userID uint) (int64, error)
}

// notificationRepo struct
type notificationRepo struct {
	DB *gorm.DB
}

// NewNotificationRepo creates a new instance of NotificationRepository
func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotification(notification *models.Notification) error {
	if err := r.DB.Create(notification).Error; err != nil {
		return errors.Wrap(err, "unable to create notification")
	}
	return nil
}

func (r *notificationRepo) ListNotifications(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("user_id = ?", userID).
		Order("id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list notifications")
	}
	return notifications, nil
}

func (r *notificationRepo) MarkAllRead(userID uint) error {
	err := r.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return errors.Wrap(err, "unable to mark notifications read")
	}
	return nil
}

func (r *notificationRepo) UnreadNotificationCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "unable to count unread notifications")
	}
	return count, nil
}
