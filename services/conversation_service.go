package services

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pawtrail/pawtrail/db"
	apiError "github.com/pawtrail/pawtrail/errors"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	defaultConversationPageSize = 20
	maxConversationPageSize     = 50
	defaultMessagePageSize      = 50
	maxMessagePageSize          = 100
)

// ConversationService owns every read and write on conversations. Both the
// realtime gateway and the HTTP fallback go through it, so validation and side
// effects stay identical across transports.
type ConversationService interface {
	EnsureParticipant(conversationID, userID uint) *apiError.Error
	StartOrGetConversation(announcementID, userID uint) (*models.ConversationSummary, bool, *apiError.Error)
	ListConversations(userID uint, page, pageSize int) (*models.ConversationPage, *apiError.Error)
	ListMessages(conversationID, userID, beforeID uint, limit int) (*models.MessagePage, *apiError.Error)
	SendMessage(conversationID, senderID uint, text string) (*models.ChatMessage, *apiError.Error)
	MarkRead(conversationID, userID uint) *apiError.Error
}

// conversationService struct
type conversationService struct {
	conversationRepo    db.ConversationRepository
	announcementRepo    db.AnnouncementRepository
	notificationService NotificationService
}

// NewConversationService creates a new instance of ConversationService
func NewConversationService(conversationRepo db.ConversationRepository, announcementRepo db.AnnouncementRepository, notificationService NotificationService) ConversationService {
	return &conversationService{
		conversationRepo:    conversationRepo,
		announcementRepo:    announcementRepo,
		notificationService: notificationService,
	}
}

// EnsureParticipant is the participation guard. An unknown conversation id is
// NotFound; a known conversation without a membership row for the user is Forbidden.
func (s *conversationService) EnsureParticipant(conversationID, userID uint) *apiError.Error {
	if _, err := s.conversationRepo.FindConversationByID(conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("conversation not found", http.StatusNotFound)
		}
		log.Printf("unable to load conversation %d: %v", conversationID, err)
		return apiError.ErrInternalServerError
	}

	ok, err := s.conversationRepo.IsParticipant(conversationID, userID)
	if err != nil {
		log.Printf("unable to check participation for user %d in conversation %d: %v", userID, conversationID, err)
		return apiError.ErrInternalServerError
	}
	if !ok {
		return apiError.New("you are not a participant of this conversation", http.StatusForbidden)
	}
	return nil
}

func (s *conversationService) StartOrGetConversation(announcementID, userID uint) (*models.ConversationSummary, bool, *apiError.Error) {
	announcement, err := s.announcementRepo.FindAnnouncementByID(announcementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apiError.New("announcement not found", http.StatusNotFound)
		}
		log.Printf("unable to load announcement %d: %v", announcementID, err)
		return nil, false, apiError.ErrInternalServerError
	}

	if announcement.OwnerID == userID {
		return nil, false, apiError.New("you cannot start a chat with yourself", http.StatusBadRequest)
	}

	conversation, created, err := s.conversationRepo.GetOrCreateConversation(announcementID, userID, announcement.OwnerID)
	if err != nil {
		log.Printf("unable to get or create conversation for announcement %d: %v", announcementID, err)
		return nil, false, apiError.ErrInternalServerError
	}
	conversation.Announcement = *announcement

	if created {
		initiator, uerr := s.userForConversation(conversation.ID, userID)
		if uerr == nil {
			s.notificationService.NotifyContacted(&announcement.Owner, initiator, announcement)
		}
	}

	summary := s.buildSummary(conversation, userID)
	summary.Created = &created
	return summary, created, nil
}

func (s *conversationService) ListConversations(userID uint, page, pageSize int) (*models.ConversationPage, *apiError.Error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultConversationPageSize
	}
	if pageSize > maxConversationPageSize {
		pageSize = maxConversationPageSize
	}

	conversations, count, err := s.conversationRepo.ListConversationsForUser(userID, page, pageSize)
	if err != nil {
		log.Printf("unable to list conversations for user %d: %v", userID, err)
		return nil, apiError.ErrInternalServerError
	}

	results := make([]models.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		results = append(results, *s.buildSummary(&conversations[i], userID))
	}

	return &models.ConversationPage{
		Count:    count,
		Page:     page,
		PageSize: pageSize,
		Results:  results,
	}, nil
}

func (s *conversationService) ListMessages(conversationID, userID, beforeID uint, limit int) (*models.MessagePage, *apiError.Error) {
	if apiErr := s.EnsureParticipant(conversationID, userID); apiErr != nil {
		return nil, apiErr
	}

	if limit < 1 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	messages, err := s.conversationRepo.ListMessagesBefore(conversationID, beforeID, limit)
	if err != nil {
		log.Printf("unable to list messages for conversation %d: %v", conversationID, err)
		return nil, apiError.ErrInternalServerError
	}

	// Viewing history marks it read as of now.
	if err := s.conversationRepo.TouchLastRead(conversationID, userID, time.Now()); err != nil {
		log.Printf("unable to advance read cursor for user %d: %v", userID, err)
	}

	page := &models.MessagePage{Results: messages}
	if len(messages) == limit && limit > 0 {
		oldest := messages[0].ID
		page.NextBeforeID = &oldest
	}
	return page, nil
}

// SendMessage is the single write path for both transports. It persists the
// message, advances the sender's own read cursor and emits a new-message
// notification to every other participant.
func (s *conversationService) SendMessage(conversationID, senderID uint, text string) (*models.ChatMessage, *apiError.Error) {
	if apiErr := s.EnsureParticipant(conversationID, senderID); apiErr != nil {
		return nil, apiErr
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apiError.New("text is required", http.StatusBadRequest)
	}

	message := &models.ChatMessage{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}
	if err := s.conversationRepo.CreateMessage(message); err != nil {
		log.Printf("unable to persist message in conversation %d: %v", conversationID, err)
		return nil, apiError.ErrInternalServerError
	}

	// The sender has trivially read their own message.
	if err := s.conversationRepo.TouchLastRead(conversationID, senderID, time.Now()); err != nil {
		log.Printf("unable to advance sender read cursor: %v", err)
	}

	s.notifyRecipients(conversationID, senderID, message)

	return message, nil
}

func (s *conversationService) MarkRead(conversationID, userID uint) *apiError.Error {
	if apiErr := s.EnsureParticipant(conversationID, userID); apiErr != nil {
		return apiErr
	}
	if err := s.conversationRepo.TouchLastRead(conversationID, userID, time.Now()); err != nil {
		log.Printf("unable to mark conversation %d read for user %d: %v", conversationID, userID, err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *conversationService) notifyRecipients(conversationID, senderID uint, message *models.ChatMessage) {
	conversation, err := s.conversationRepo.FindConversationByID(conversationID)
	if err != nil {
		log.Printf("unable to load conversation %d for notification: %v", conversationID, err)
		return
	}

	participants, err := s.conversationRepo.ListParticipants(conversationID)
	if err != nil {
		log.Printf("unable to load participants of conversation %d: %v", conversationID, err)
		return
	}

	var sender *models.User
	for i := range participants {
		if participants[i].UserID == senderID {
			sender = &participants[i].User
			break
		}
	}
	if sender == nil {
		return
	}

	for i := range participants {
		if participants[i].UserID == senderID {
			continue
		}
		s.notificationService.NotifyNewMessage(&participants[i].User, sender, conversation.AnnouncementID, message)
	}
}

func (s *conversationService) userForConversation(conversationID, userID uint) (*models.User, error) {
	participant, err := s.conversationRepo.GetParticipant(conversationID, userID)
	if err != nil {
		return nil, err
	}
	return &participant.User, nil
}

func (s *conversationService) buildSummary(conversation *models.Conversation, userID uint) *models.ConversationSummary {
	summary := &models.ConversationSummary{
		ID:                 conversation.ID,
		AnnouncementID:     conversation.AnnouncementID,
		AnnouncementTitle:  conversation.Announcement.Pet.Name,
		AnnouncementStatus: conversation.Announcement.Status,
		CreatedAt:          conversation.CreatedAt,
		UpdatedAt:          conversation.CreatedAt,
	}
	if conversation.Announcement.Pet.ID != 0 {
		pet := conversation.Announcement.Pet
		summary.AnnouncementPet = &pet
	}

	participants, err := s.conversationRepo.ListParticipants(conversation.ID)
	if err == nil {
		for i := range participants {
			if participants[i].UserID != userID {
				summary.OtherUser = participants[i].User.ToChatUser()
				break
			}
		}
	} else {
		log.Printf("unable to load participants of conversation %d: %v", conversation.ID, err)
	}

	latest, err := s.conversationRepo.LatestMessage(conversation.ID)
	if err != nil {
		log.Printf("unable to load latest message of conversation %d: %v", conversation.ID, err)
	}
	if latest != nil {
		summary.LastMessage = &models.MessagePreview{
			ID:        latest.ID,
			Text:      latest.Text,
			CreatedAt: latest.CreatedAt,
			SenderID:  latest.SenderID,
		}
		summary.UpdatedAt = latest.CreatedAt
	}

	unread, err := s.conversationRepo.UnreadCount(conversation.ID, userID)
	if err != nil {
		log.Printf("unable to count unread messages of conversation %d: %v", conversation.ID, err)
	}
	summary.UnreadCount = unread

	return summary
}
