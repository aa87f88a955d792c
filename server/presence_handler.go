package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pawtrail/pawtrail/server/response"
)

func (s *Server) handleGetOnlineUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.PresenceService.ListOnlineUsers()
		if err != nil {
			log.Printf("list online users: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to list online users"))
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{"results": users}, nil)
	}
}

// handleGetUserPresence reports a user's last known presence. A user with no
// presence row has simply never connected, so they are reported offline rather
// than as an error.
func (s *Server) handleGetUserPresence() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := uintParam(c, "userID")
		if !ok {
			return
		}

		presence, err := s.PresenceService.GetPresence(userID)
		if err != nil {
			log.Printf("get presence: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to fetch presence"))
			return
		}
		if presence == nil {
			presence = &models.UserPresence{UserID: userID, Online: false, LastSeenAt: time.Time{}}
		}

		response.JSON(c, "", http.StatusOK, presence, nil)
	}
}
