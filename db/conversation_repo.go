package db

import (
	"time"

	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository owns conversations, their participants and messages.
type ConversationRepository interface {
	FindConversationByID(id uint) (*models.Conversation, error)
	IsParticipant(conversationID, userID uint) (bool, error)
	GetOrCreateConversation(announcementID, initiatorID, ownerID uint) (*models.Conversation, bool, error)
	ListConversationsForUser(userID uint, page, pageSize int) ([]models.Conversation, int64, error)
	GetParticipant(conversationID, userID uint) (*models.ConversationParticipant, error)
	ListParticipants(conversationID uint) ([]models.ConversationParticipant, error)
	LatestMessage(conversationID uint) (*models.ChatMessage, error)
	UnreadCount(conversationID, userID uint) (int64, error)
	ListMessagesBefore(conversationID, beforeID uint, limit int) ([]models.ChatMessage, error)
	CreateMessage(message *models.ChatMessage) error
	TouchLastRead(conversationID, userID uint, at time.Time) error
}

// conversationRepo struct
type conversationRepo struct {
	DB *gorm.DB
}

// NewConversationRepo creates a new instance of ConversationRepository
func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

func (r *conversationRepo) FindConversationByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.DB.Preload("Announcement").Preload("Announcement.Pet").First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) IsParticipant(conversationID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "unable to check participation")
	}
	return count > 0, nil
}

// GetOrCreateConversation atomically resolves the conversation for the
// (announcement, initiator) pair, creating it together with both participant
// rows on first contact. Concurrent duplicate calls settle on a single row via
// ON CONFLICT DO NOTHING on the unique indexes.
func (r *conversationRepo) GetOrCreateConversation(announcementID, initiatorID, ownerID uint) (*models.Conversation, bool, error) {
	conversation := models.Conversation{
		AnnouncementID: announcementID,
		InitiatorID:    initiatorID,
	}

	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "announcement_id"}, {Name: "initiator_id"}},
		DoNothing: true,
	}).Create(&conversation)
	if res.Error != nil {
		return nil, false, errors.Wrap(res.Error, "unable to create conversation")
	}
	created := res.RowsAffected > 0

	if !created {
		err := r.DB.Where("announcement_id = ? AND initiator_id = ?", announcementID, initiatorID).
			First(&conversation).Error
		if err != nil {
			return nil, false, errors.Wrap(err, "unable to load existing conversation")
		}
	}

	participants := []models.ConversationParticipant{
		{ConversationID: conversation.ID, UserID: initiatorID},
		{ConversationID: conversation.ID, UserID: ownerID},
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&participants).Error
	if err != nil {
		return nil, false, errors.Wrap(err, "unable to create participants")
	}

	return &conversation, created, nil
}

// ListConversationsForUser returns the user's conversations ordered by last
// activity: the newest message timestamp, falling back to the conversation's
// own creation time when no message exists yet.
func (r *conversationRepo) ListConversationsForUser(userID uint, page, pageSize int) ([]models.Conversation, int64, error) {
	base := r.DB.Model(&models.Conversation{}).
		Joins("JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id AND conversation_participants.user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "unable to count conversations")
	}

	activity := r.DB.Model(&models.ChatMessage{}).
		Select("conversation_id, MAX(created_at) AS last_activity").
		Group("conversation_id")

	var conversations []models.Conversation
	err := r.DB.Model(&models.Conversation{}).
		Joins("JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id AND conversation_participants.user_id = ?", userID).
		Joins("LEFT JOIN (?) AS activity ON activity.conversation_id = conversations.id", activity).
		Order("COALESCE(activity.last_activity, conversations.created_at) DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Preload("Announcement").
		Preload("Announcement.Pet").
		Find(&conversations).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to list conversations")
	}

	return conversations, count, nil
}

func (r *conversationRepo) GetParticipant(conversationID, userID uint) (*models.ConversationParticipant, error) {
	var participant models.ConversationParticipant
	err := r.DB.Preload("User").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *conversationRepo) ListParticipants(conversationID uint) ([]models.ConversationParticipant, error) {
	var participants []models.ConversationParticipant
	err := r.DB.Preload("User").
		Where("conversation_id = ?", conversationID).
		Order("id asc").
		Find(&participants).Error
	if err != nil {
		return nil, errors.Wrap(err, "unable to list participants")
	}
	return participants, nil
}

func (r *conversationRepo) LatestMessage(conversationID uint) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("id desc").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unable to load latest message")
	}
	return &message, nil
}

// UnreadCount counts messages from the other party newer than the user's read
// cursor. A missing participant row or an unset cursor yields 0; a participant
// who has never opened the thread is shown no unread badge.
func (r *conversationRepo) UnreadCount(conversationID, userID uint) (int64, error) {
	participant, err := r.GetParticipant(conversationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "unable to load participant")
	}
	if participant.LastReadAt == nil {
		return 0, nil
	}

	var count int64
	err = r.DB.Model(&models.ChatMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND created_at > ?", conversationID, userID, *participant.LastReadAt).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "unable to count unread messages")
	}
	return count, nil
}

// ListMessagesBefore loads the newest `limit` messages with id strictly less
// than beforeID (all newest when beforeID is 0), returned in ascending order.
func (r *conversationRepo) ListMessagesBefore(conversationID, beforeID uint, limit int) ([]models.ChatMessage, error) {
	query := r.DB.Where("conversation_id = ?", conversationID)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var messages []models.ChatMessage
	if err := query.Order("id desc").Limit(limit).Find(&messages).Error; err != nil {
		return nil, errors.Wrap(err, "unable to list messages")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *conversationRepo) CreateMessage(message *models.ChatMessage) error {
	if err := r.DB.Create(message).Error; err != nil {
		return errors.Wrap(err, "unable to create message")
	}
	return nil
}

// TouchLastRead advances the user's read cursor. Last write wins; the cursor
// only feeds unread-count display.
func (r *conversationRepo) TouchLastRead(conversationID, userID uint, at time.Time) error {
	err := r.DB.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("last_read_at", at).Error
	if err != nil {
		return errors.Wrap(err, "unable to update read cursor")
	}
	return nil
}
