package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterArticleRoutes registers article personalization endpoints.
func (s *Server) RegisterArticleRoutes(r *gin.Engine) {
	g := r.Group("/api/articles")
	g.POST("/refresh", s.handleArticlesRefresh)
	g.GET("/status", s.handleArticlesStatus)
	g.GET("/recommendations", s.handleArticlesRecommendations)
}

// handleArticlesRefresh triggers a personalization run for the user. The run
// happens in the background; progress is observable via /status.
// POST /api/articles/refresh?user_id=
func (s *Server) handleArticlesRefresh(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	go func() {
		if _, err := s.runner.Run(context.Background(), userID); err != nil {
			s.log.Error("personalization run failed", "user_id", userID, "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}

// handleArticlesStatus returns a snapshot of the current run state.
// GET /api/articles/status
func (s *Server) handleArticlesStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.GetStatus())
}

// handleArticlesRecommendations returns the user's current recommendation
// set, highest priority first.
// GET /api/articles/recommendations?user_id=
func (s *Server) handleArticlesRecommendations(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	recs, err := s.recs.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recommendations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":         userID,
		"count":           len(recs),
		"recommendations": recs,
	})
}
