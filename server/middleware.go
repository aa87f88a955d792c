package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	errs "github.com/pawtrail/pawtrail/errors"
	"github.com/pawtrail/pawtrail/models"
	"github.com/pawtrail/pawtrail/services/jwt"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Authorize validates the bearer token and stashes the resolved user in the
// request context.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		id, ok := accessClaims["id"].(float64)
		if !ok {
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("invalid userID format", http.StatusBadRequest))
			return
		}
		userID := uint(id)

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.New(err.Error(), http.StatusUnauthorized))
				return
			}
			respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.New("internal server error", http.StatusInternalServerError))
			return
		}

		c.Set("user", user)
		c.Set("userID", userID)
		c.Next()
	}
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// currentUser returns the user resolved by Authorize.
func currentUser(c *gin.Context) *models.User {
	userI, exists := c.Get("user")
	if !exists {
		return nil
	}
	user, ok := userI.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// rateLimitStore backs the write-endpoint limiter with redis when configured
// so limits hold across instances, and falls back to process memory otherwise.
func (s *Server) rateLimitStore(rate time.Duration, limit uint) ratelimit.Store {
	if s.Config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     s.Config.RedisAddr,
			Password: s.Config.RedisPassword,
		})
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        rate,
			Limit:       limit,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rate,
		Limit: limit,
	})
}

func (s *Server) limitWrites() gin.HandlerFunc {
	store := s.rateLimitStore(time.Second, 10)
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      rateLimitKey,
	})
}

func rateLimitKey(c *gin.Context) string {
	if userI, exists := c.Get("userID"); exists {
		if id, ok := userI.(uint); ok && id > 0 {
			return "user:" + strconv.FormatUint(uint64(id), 10)
		}
	}
	return c.ClientIP()
}
