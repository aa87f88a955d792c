package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawtrail/pawtrail/server/response"
)

func (s *Server) handleListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		notifications, err := s.NotificationRepository.ListNotifications(user.ID)
		if err != nil {
			log.Printf("list notifications: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to list notifications"))
			return
		}

		unread, err := s.NotificationRepository.UnreadNotificationCount(user.ID)
		if err != nil {
			log.Printf("count unread notifications: %v", err)
		}

		response.JSON(c, "", http.StatusOK, gin.H{
			"results":      notifications,
			"unread_count": unread,
		}, nil)
	}
}

// handleMarkNotificationsRead flips every unread notification for the caller
// and reports the resulting unread count, which is zero unless a new
// notification lands between the update and the recount.
func (s *Server) handleMarkNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		if err := s.NotificationRepository.MarkAllRead(user.ID); err != nil {
			log.Printf("mark notifications read: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to mark notifications read"))
			return
		}

		unread, err := s.NotificationRepository.UnreadNotificationCount(user.ID)
		if err != nil {
			log.Printf("count unread notifications: %v", err)
		}

		response.JSON(c, "", http.StatusOK, gin.H{"unread_count": unread}, nil)
	}
}
