package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawtrail/pawtrail/config"
	"github.com/pawtrail/pawtrail/db"
	apiError "github.com/pawtrail/pawtrail/errors"
	"github.com/pawtrail/pawtrail/realtime"
	"github.com/pawtrail/pawtrail/server/response"
	"github.com/pawtrail/pawtrail/services"
)

type Server struct {
	Config                 *config.Config
	AuthRepository         db.AuthRepository
	AnnouncementRepository db.AnnouncementRepository
	EngagementRepository   db.EngagementRepository
	NotificationRepository db.NotificationRepository
	ConversationService    services.ConversationService
	PresenceService        services.PresenceService
	NotificationService    services.NotificationService
	MatchService           services.MatchService
	Hub                    *realtime.Hub
}

// Start runs the HTTP server until an interrupt or termination signal arrives,
// then drains in-flight requests and closes all realtime sessions.
func (s *Server) Start() {
	r := s.setupRouter()

	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	s.Hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}

// respondError maps a typed service error onto the response envelope.
func respondError(c *gin.Context, apiErr *apiError.Error) {
	response.JSON(c, "", apiErr.Status, nil, apiErr)
}
