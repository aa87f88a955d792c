package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pawtrail/pawtrail/server/response"
)

// handleStartConversation opens (or returns) the caller's thread about an
// announcement. The "contacted" notification fires only on first creation.
func (s *Server) handleStartConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		var req models.StartConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("announcement_id is required"))
			return
		}

		summary, _, apiErr := s.ConversationService.StartOrGetConversation(req.AnnouncementID, user.ID)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		response.JSON(c, "", http.StatusOK, summary, nil)
	}
}

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		page := intQuery(c, "page", 1)
		pageSize := intQuery(c, "page_size", 0)

		result, apiErr := s.ConversationService.ListConversations(user.ID, page, pageSize)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		response.JSON(c, "", http.StatusOK, result, nil)
	}
}

func (s *Server) handleListMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		conversationID, ok := uintParam(c, "conversationID")
		if !ok {
			return
		}

		beforeID := uint(intQuery(c, "before_id", 0))
		limit := intQuery(c, "limit", 0)

		page, apiErr := s.ConversationService.ListMessages(conversationID, user.ID, beforeID, limit)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		response.JSON(c, "", http.StatusOK, page, nil)
	}
}

// handleSendMessage is the HTTP fallback for clients without a live socket.
// The persisted message is also fanned out to any connected group members.
func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		conversationID, ok := uintParam(c, "conversationID")
		if !ok {
			return
		}

		var req models.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("text is required"))
			return
		}

		message, apiErr := s.ConversationService.SendMessage(conversationID, user.ID, req.Text)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		s.broadcastMessage(message)

		response.JSON(c, "", http.StatusCreated, message, nil)
	}
}

func (s *Server) handleMarkConversationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		conversationID, ok := uintParam(c, "conversationID")
		if !ok {
			return
		}

		if apiErr := s.ConversationService.MarkRead(conversationID, user.ID); apiErr != nil {
			respondError(c, apiErr)
			return
		}

		response.JSON(c, "ok", http.StatusOK, nil, nil)
	}
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		response.JSON(c, "", http.StatusBadRequest, nil, errors.New("invalid "+name))
		return 0, false
	}
	return uint(value), true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
