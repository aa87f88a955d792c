package services

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/messaging"
	"github.com/pawtrail/pawtrail/db"
	"github.com/pawtrail/pawtrail/models"
)

// NotificationService appends notification records for the non-acting party of
// a core action and, when a push client is configured, forwards them to the
// recipient's device. Every method is best-effort: failures are logged and
// never propagate to the triggering action.
type NotificationService interface {
	Notify(recipient *models.User, notificationType models.NotificationType, title string, announcementID, messageID *uint)
	NotifyNewMessage(recipient, sender *models.User, announcementID uint, message *models.ChatMessage)
	NotifyContacted(owner, initiator *models.User, announcement *models.Announcement)
	NotifyPostSaved(owner, actor *models.User, announcement *models.Announcement)
	NotifyPostLiked(owner, actor *models.User, announcement *models.Announcement)
	NotifyComment(owner, actor *models.User, announcement *models.Announcement)
}

// notificationService struct
type notificationService struct {
	notificationRepo db.NotificationRepository
	pushClient       *messaging.Client
}

// NewNotificationService creates a new instance of NotificationService.
// pushClient may be nil; push delivery is then skipped.
func NewNotificationService(notificationRepo db.NotificationRepository, pushClient *messaging.Client) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		pushClient:       pushClient,
	}
}

func (s *notificationService) Notify(recipient *models.User, notificationType models.NotificationType, title string, announcementID, messageID *uint) {
	if recipient == nil {
		return
	}

	notification := &models.Notification{
		UserID:                recipient.ID,
		Type:                  notificationType,
		Title:                 title,
		RelatedAnnouncementID: announcementID,
		RelatedMessageID:      messageID,
	}
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		log.Printf("unable to create %s notification for user %d: %v", notificationType, recipient.ID, err)
		return
	}

	s.push(recipient, title)
}

func (s *notificationService) NotifyNewMessage(recipient, sender *models.User, announcementID uint, message *models.ChatMessage) {
	if sender == nil || message == nil {
		return
	}
	title := fmt.Sprintf("New message from %s", sender.Username)
	s.Notify(recipient, models.NotificationTypeNewMessage, title, &announcementID, &message.ID)
}

func (s *notificationService) NotifyContacted(owner, initiator *models.User, announcement *models.Announcement) {
	if initiator == nil || announcement == nil {
		return
	}
	title := fmt.Sprintf("%s contacted you about %s", initiator.Username, announcement.Pet.Name)
	s.Notify(owner, models.NotificationTypeContacted, title, &announcement.ID, nil)
}

func (s *notificationService) NotifyPostSaved(owner, actor *models.User, announcement *models.Announcement) {
	if actor == nil || announcement == nil || owner == nil || owner.ID == actor.ID {
		return
	}
	title := fmt.Sprintf("%s saved your announcement", actor.Username)
	s.Notify(owner, models.NotificationTypePostSaved, title, &announcement.ID, nil)
}

func (s *notificationService) NotifyPostLiked(owner, actor *models.User, announcement *models.Announcement) {
	if actor == nil || announcement == nil || owner == nil || owner.ID == actor.ID {
		return
	}
	title := fmt.Sprintf("%s reacted to your announcement", actor.Username)
	s.Notify(owner, models.NotificationTypePostLiked, title, &announcement.ID, nil)
}

func (s *notificationService) NotifyComment(owner, actor *models.User, announcement *models.Announcement) {
	if actor == nil || announcement == nil || owner == nil || owner.ID == actor.ID {
		return
	}
	title := fmt.Sprintf("%s commented on your announcement", actor.Username)
	s.Notify(owner, models.NotificationTypeComment, title, &announcement.ID, nil)
}

// push forwards the notification title to the recipient's device via FCM.
func (s *notificationService) push(recipient *models.User, title string) {
	if s.pushClient == nil || recipient.DeviceToken == "" {
		return
	}

	message := &messaging.Message{
		Token: recipient.DeviceToken,
		Notification: &messaging.Notification{
			Title: title,
		},
	}
	if _, err := s.pushClient.Send(context.Background(), message); err != nil {
		log.Printf("unable to push notification to user %d: %v", recipient.ID, err)
	}
}
