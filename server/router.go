package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	// The websocket handshake carries its token in the query string, not the
	// Authorization header, so it stays outside the Authorize group.
	router.GET("/ws/chat/:conversationID", s.handleChatSocket())

	apirouter := router.Group("/api/v1")

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())

	limitWrites := s.limitWrites()

	authorized.POST("/conversations/start", limitWrites, s.handleStartConversation())
	authorized.GET("/conversations", s.handleListConversations())
	authorized.GET("/conversations/:conversationID/messages", s.handleListMessages())
	authorized.POST("/conversations/:conversationID/messages", limitWrites, s.handleSendMessage())
	authorized.POST("/conversations/:conversationID/read", s.handleMarkConversationRead())

	authorized.POST("/announcements", limitWrites, s.handleCreateAnnouncement())
	authorized.GET("/announcements", s.handleListAnnouncements())
	authorized.GET("/announcements/:id", s.handleGetAnnouncement())
	authorized.GET("/announcements/:id/matches", s.handleGetAnnouncementMatches())
	authorized.POST("/announcements/:id/save", s.handleToggleSaveAnnouncement())
	authorized.POST("/announcements/:id/react", s.handleToggleReaction())
	authorized.GET("/announcements/:id/comments", s.handleListComments())
	authorized.POST("/announcements/:id/comments", limitWrites, s.handleCreateComment())

	authorized.GET("/notifications", s.handleListNotifications())
	authorized.POST("/notifications/read", s.handleMarkNotificationsRead())

	authorized.GET("/users/online", s.handleGetOnlineUsers())
	authorized.GET("/users/:userID/presence", s.handleGetUserPresence())
}
