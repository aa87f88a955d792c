package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pawtrail/pawtrail/db"
	"github.com/pawtrail/pawtrail/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	gdb              *db.GormDB
	conversationRepo db.ConversationRepository
	notificationRepo db.NotificationRepository
	conversations    ConversationService
	notifications    NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(gormDB))

	gdb := &db.GormDB{DB: gormDB}
	conversationRepo := db.NewConversationRepo(gdb)
	announcementRepo := db.NewAnnouncementRepo(gdb)
	notificationRepo := db.NewNotificationRepo(gdb)
	notifications := NewNotificationService(notificationRepo, nil)

	return &fixture{
		gdb:              gdb,
		conversationRepo: conversationRepo,
		notificationRepo: notificationRepo,
		conversations:    NewConversationService(conversationRepo, announcementRepo, notifications),
		notifications:    notifications,
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Fullname: username, Username: username, Email: username + "@example.com"}
	require.NoError(t, f.gdb.DB.Create(user).Error)
	return user
}

func (f *fixture) announcement(t *testing.T, owner *models.User, status, petName string) *models.Announcement {
	t.Helper()
	announcement := &models.Announcement{
		OwnerID: owner.ID,
		Status:  status,
		Pet:     models.Pet{Name: petName, PetType: models.PetTypeDog},
	}
	require.NoError(t, f.gdb.DB.Create(announcement).Error)
	return announcement
}

func TestStartOrGetConversation(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")
	announcement := f.announcement(t, owner, models.StatusLost, "Burek")

	t.Run("unknown announcement", func(t *testing.T) {
		_, _, apiErr := f.conversations.StartOrGetConversation(9999, finder.ID)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
	})

	t.Run("owner cannot contact themselves", func(t *testing.T) {
		_, _, apiErr := f.conversations.StartOrGetConversation(announcement.ID, owner.ID)
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "you cannot start a chat with yourself", apiErr.Message)
	})

	t.Run("first contact creates and notifies the owner", func(t *testing.T) {
		summary, created, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
		require.Nil(t, apiErr)
		assert.True(t, created)
		require.NotNil(t, summary.Created)
		assert.True(t, *summary.Created)
		assert.Equal(t, announcement.ID, summary.AnnouncementID)
		require.NotNil(t, summary.OtherUser)
		assert.Equal(t, owner.ID, summary.OtherUser.ID)

		notifications, err := f.notificationRepo.ListNotifications(owner.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, models.NotificationTypeContacted, notifications[0].Type)
		assert.Equal(t, "piotr contacted you about Burek", notifications[0].Title)
	})

	t.Run("repeat contact reuses the thread silently", func(t *testing.T) {
		summary, created, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
		require.Nil(t, apiErr)
		assert.False(t, created)
		require.NotNil(t, summary.Created)
		assert.False(t, *summary.Created)

		notifications, err := f.notificationRepo.ListNotifications(owner.ID)
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
	})
}

func TestEnsureParticipant(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")
	stranger := f.user(t, "ewa")
	announcement := f.announcement(t, owner, models.StatusFound, "Mruczek")

	summary, _, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
	require.Nil(t, apiErr)

	apiErr = f.conversations.EnsureParticipant(9999, finder.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	apiErr = f.conversations.EnsureParticipant(summary.ID, stranger.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	assert.Nil(t, f.conversations.EnsureParticipant(summary.ID, finder.ID))
	assert.Nil(t, f.conversations.EnsureParticipant(summary.ID, owner.ID))
}

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")
	stranger := f.user(t, "ewa")
	announcement := f.announcement(t, owner, models.StatusLost, "Burek")
	summary, _, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
	require.Nil(t, apiErr)

	t.Run("non-participant is rejected", func(t *testing.T) {
		_, apiErr := f.conversations.SendMessage(summary.ID, stranger.ID, "hi")
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.Status)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		_, apiErr := f.conversations.SendMessage(summary.ID, finder.ID, "   \n\t")
		require.NotNil(t, apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "text is required", apiErr.Message)
	})

	t.Run("persists, trims and notifies the other party", func(t *testing.T) {
		message, apiErr := f.conversations.SendMessage(summary.ID, finder.ID, "  I think I saw him  ")
		require.Nil(t, apiErr)
		assert.Equal(t, "I think I saw him", message.Text)
		assert.Equal(t, finder.ID, message.SenderID)
		require.NotZero(t, message.ID)

		// The sender's own cursor advances past their message.
		participant, err := f.conversationRepo.GetParticipant(summary.ID, finder.ID)
		require.NoError(t, err)
		require.NotNil(t, participant.LastReadAt)

		notifications, err := f.notificationRepo.ListNotifications(owner.ID)
		require.NoError(t, err)
		require.NotEmpty(t, notifications)
		assert.Equal(t, models.NotificationTypeNewMessage, notifications[0].Type)
		assert.Equal(t, "New message from piotr", notifications[0].Title)
		require.NotNil(t, notifications[0].RelatedMessageID)
		assert.Equal(t, message.ID, *notifications[0].RelatedMessageID)

		// The sender gets no notification about their own message.
		own, err := f.notificationRepo.ListNotifications(finder.ID)
		require.NoError(t, err)
		assert.Empty(t, own)
	})
}

func TestListMessagesPagination(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")
	announcement := f.announcement(t, owner, models.StatusLost, "Burek")
	summary, _, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
	require.Nil(t, apiErr)

	for i := 0; i < 3; i++ {
		_, apiErr := f.conversations.SendMessage(summary.ID, finder.ID, fmt.Sprintf("message %d", i))
		require.Nil(t, apiErr)
	}

	page, apiErr := f.conversations.ListMessages(summary.ID, owner.ID, 0, 2)
	require.Nil(t, apiErr)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "message 1", page.Results[0].Text)
	assert.Equal(t, "message 2", page.Results[1].Text)
	require.NotNil(t, page.NextBeforeID)
	assert.Equal(t, page.Results[0].ID, *page.NextBeforeID)

	page, apiErr = f.conversations.ListMessages(summary.ID, owner.ID, *page.NextBeforeID, 2)
	require.Nil(t, apiErr)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "message 0", page.Results[0].Text)
	assert.Nil(t, page.NextBeforeID)

	// Browsing history moved the reader's cursor.
	participant, err := f.conversationRepo.GetParticipant(summary.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, participant.LastReadAt)
}

func TestListConversationsClampsPaging(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")
	announcement := f.announcement(t, owner, models.StatusLost, "Burek")
	_, _, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
	require.Nil(t, apiErr)

	page, apiErr := f.conversations.ListConversations(owner.ID, -3, 500)
	require.Nil(t, apiErr)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxConversationPageSize, page.PageSize)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Zero(t, page.Results[0].UnreadCount)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "marta")
	finder := f.user(t, "piotr")
	announcement := f.announcement(t, owner, models.StatusLost, "Burek")
	summary, _, apiErr := f.conversations.StartOrGetConversation(announcement.ID, finder.ID)
	require.Nil(t, apiErr)

	require.Nil(t, f.conversations.MarkRead(summary.ID, owner.ID))
	participant, err := f.conversationRepo.GetParticipant(summary.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, participant.LastReadAt)

	stranger := f.user(t, "ewa")
	apiErr = f.conversations.MarkRead(summary.ID, stranger.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}
