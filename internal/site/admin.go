package site

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkg/errors"

	"github.com/dcabrera/portfolio/internal/logging"
	"github.com/dcabrera/portfolio/internal/visitors"
)

const adminCookie = "admin_token"

// NewAdminToken generates a token for processes started without ADMIN_TOKEN.
func NewAdminToken() (string, error) {
	token, err := gonanoid.New(32)
	if err != nil {
		return "", errors.Wrap(err, "generating admin token")
	}
	return token, nil
}

func (s *Server) adminRoutes(r *gin.Engine) {
	admin := r.Group("/admin", s.requireTracking, s.adminAuth)
	admin.GET("/api/stats", s.adminStats)
	admin.GET("/export/stats", s.exportStats)
	admin.POST("/privacy/delete-visitor-data", s.deleteVisitorData)
}

// requireTracking hides the admin surface entirely when there is nothing to show.
func (s *Server) requireTracking(c *gin.Context) {
	if s.tracker == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}

// adminAuth accepts the token as a Bearer header or an admin_token cookie.
func (s *Server) adminAuth(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" || token == c.GetHeader("Authorization") {
		token, _ = c.Cookie(adminCookie)
	}

	if s.adminToken == "" || token == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) adminStats(c *gin.Context) {
	stats, ok := s.loadStats(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) exportStats(c *gin.Context) {
	stats, ok := s.loadStats(c)
	if !ok {
		return
	}

	filename := "visitor-stats-" + time.Now().UTC().Format("2006-01-02") + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.IndentedJSON(http.StatusOK, stats)
}

func (s *Server) loadStats(c *gin.Context) (*visitors.Stats, bool) {
	stats, err := s.tracker.Stats(c.Request.Context())
	switch {
	case errors.Is(err, visitors.ErrDisabled):
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	case err != nil:
		logging.ForContext(c.Request.Context()).WithError(err).Error("error loading visitor stats")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}
	return stats, true
}

// deleteVisitorData runs the retention cleanup now instead of waiting for the
// next scheduled run.
func (s *Server) deleteVisitorData(c *gin.Context) {
	if s.cleaner == nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	deleted, err := s.cleaner.RunOnce(c.Request.Context())
	if err != nil {
		logging.ForContext(c.Request.Context()).WithError(err).Error("error deleting visitor data")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	logging.ForContext(c.Request.Context()).WithField("deleted", deleted).Info("visitor data cleanup requested by admin")
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
