package main

import (
	"context"
	"log"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/pawtrail/pawtrail/config"
	"github.com/pawtrail/pawtrail/db"
	"github.com/pawtrail/pawtrail/realtime"
	"github.com/pawtrail/pawtrail/server"
	"github.com/pawtrail/pawtrail/services"
	"google.golang.org/api/option"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)

	authRepo := db.NewAuthRepo(gormDB)
	announcementRepo := db.NewAnnouncementRepo(gormDB)
	conversationRepo := db.NewConversationRepo(gormDB)
	presenceRepo := db.NewPresenceRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)
	engagementRepo := db.NewEngagementRepo(gormDB)

	notificationService := services.NewNotificationService(notificationRepo, newPushClient(conf))
	conversationService := services.NewConversationService(conversationRepo, announcementRepo, notificationService)
	presenceService := services.NewPresenceService(presenceRepo)
	matchService := services.NewMatchService(announcementRepo)

	s := &server.Server{
		Config:                 conf,
		AuthRepository:         authRepo,
		AnnouncementRepository: announcementRepo,
		EngagementRepository:   engagementRepo,
		NotificationRepository: notificationRepo,
		ConversationService:    conversationService,
		PresenceService:        presenceService,
		NotificationService:    notificationService,
		MatchService:           matchService,
		Hub:                    realtime.NewHub(),
	}
	s.Start()
}

// newPushClient builds the FCM messaging client when credentials are
// configured. Push delivery is optional; without credentials notifications are
// still persisted and served over the API.
func newPushClient(conf *config.Config) *messaging.Client {
	if conf.GoogleApplicationCredentials == "" {
		return nil
	}
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(conf.GoogleApplicationCredentials))
	if err != nil {
		log.Printf("firebase init failed, push disabled: %v", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("firebase messaging init failed, push disabled: %v", err)
		return nil
	}
	return client
}
