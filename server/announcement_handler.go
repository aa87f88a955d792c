package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pawtrail/pawtrail/server/response"
)

func (s *Server) handleCreateAnnouncement() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errors.New("unable to resolve user"))
			return
		}

		var req models.CreateAnnouncementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if err := conform.Strings(&req); err != nil {
			log.Printf("conform announcement payload: %v", err)
		}

		announcement := &models.Announcement{
			OwnerID:     user.ID,
			Status:      req.Status,
			Pet:         req.Pet,
			Description: req.Description,
		}
		if req.Latitude != nil && req.Longitude != nil {
			announcement.Location = &models.Location{
				Latitude:  *req.Latitude,
				Longitude: *req.Longitude,
				Address:   req.Address,
			}
		}

		if err := s.AnnouncementRepository.CreateAnnouncement(announcement); err != nil {
			log.Printf("create announcement: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to create announcement"))
			return
		}
		announcement.Owner = *user

		response.JSON(c, "announcement created", http.StatusCreated, announcement, nil)
	}
}

func (s *Server) handleListAnnouncements() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status != "" && status != models.StatusLost && status != models.StatusFound {
			response.JSON(c, "", http.StatusBadRequest, nil, errors.New("status must be lost or found"))
			return
		}

		page := intQuery(c, "page", 1)
		if page < 1 {
			page = 1
		}
		pageSize := intQuery(c, "page_size", 20)
		if pageSize < 1 || pageSize > 50 {
			pageSize = 20
		}

		announcements, total, err := s.AnnouncementRepository.ListAnnouncements(status, page, pageSize)
		if err != nil {
			log.Printf("list announcements: %v", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errors.New("unable to list announcements"))
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{
			"results": announcements,
			"count":   total,
			"page":    page,
		}, nil)
	}
}

func (s *Server) handleGetAnnouncement() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}

		announcement, err := s.AnnouncementRepository.FindAnnouncementByID(id)
		if err != nil {
			response.JSON(c, "", http.StatusNotFound, nil, errors.New("announcement not found"))
			return
		}

		response.JSON(c, "", http.StatusOK, announcement, nil)
	}
}

// handleGetAnnouncementMatches scores the announcement against the opposite
// status pool. Threshold and limit fall back to service defaults when omitted.
func (s *Server) handleGetAnnouncementMatches() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}

		threshold := floatQuery(c, "threshold", 0)
		limit := intQuery(c, "limit", 0)

		matches, apiErr := s.MatchService.FindMatches(id, threshold, limit)
		if apiErr != nil {
			respondError(c, apiErr)
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{"matches": matches}, nil)
	}
}

func floatQuery(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
