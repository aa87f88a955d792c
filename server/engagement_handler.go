package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pawtrail/pawtrail/server/response"
)

// handleToggleSaveAnnouncement bookmarks the announcement for the caller, or
// removes the bookmark when it already exists. The owner is notified only on
// the saving half of the toggle.
func (s *Server) handleToggleSaveAnnouncement() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		announcement, ok := s.findAnnouncement(c)
		if !ok {
			return
		}

		saved, err := s.EngagementRepository.ToggleSave(announcement.ID, user.ID)
		if err != nil {
			log.Printf("toggle save: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to save announcement"))
			return
		}

		if saved {
			s.NotificationService.NotifyPostSaved(&announcement.Owner, user, announcement)
		}

		response.JSON(c, "", http.StatusOK, gin.H{"saved": saved}, nil)
	}
}

func (s *Server) handleToggleReaction() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		announcement, ok := s.findAnnouncement(c)
		if !ok {
			return
		}

		liked, err := s.EngagementRepository.ToggleReaction(announcement.ID, user.ID)
		if err != nil {
			log.Printf("toggle reaction: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to react to announcement"))
			return
		}

		if liked {
			s.NotificationService.NotifyPostLiked(&announcement.Owner, user, announcement)
		}

		response.JSON(c, "", http.StatusOK, gin.H{"liked": liked}, nil)
	}
}

func (s *Server) handleListComments() gin.HandlerFunc {
	return func(c *gin.Context) {
		announcement, ok := s.findAnnouncement(c)
		if !ok {
			return
		}

		comments, err := s.EngagementRepository.ListComments(announcement.ID)
		if err != nil {
			log.Printf("list comments: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to list comments"))
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{"results": comments}, nil)
	}
}

func (s *Server) handleCreateComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		announcement, ok := s.findAnnouncement(c)
		if !ok {
			return
		}

		var req models.CreateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("content is required"))
			return
		}
		if err := conform.Strings(&req); err != nil {
			log.Printf("conform comment payload: %v", err)
		}
		if strings.TrimSpace(req.Content) == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("content is required"))
			return
		}

		comment := &models.Comment{
			AnnouncementID: announcement.ID,
			UserID:         user.ID,
			Content:        req.Content,
		}
		if err := s.EngagementRepository.CreateComment(comment); err != nil {
			log.Printf("create comment: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to create comment"))
			return
		}
		comment.User = *user

		s.NotificationService.NotifyComment(&announcement.Owner, user, announcement)

		response.JSON(c, "comment created", http.StatusCreated, comment, nil)
	}
}

func (s *Server) findAnnouncement(c *gin.Context) (*models.Announcement, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	announcement, err := s.AnnouncementRepository.FindAnnouncementByID(id)
	if err != nil {
		response.JSON(c, "", http.StatusNotFound, nil, errors.New("announcement not found"))
		return nil, false
	}
	return announcement, true
}
