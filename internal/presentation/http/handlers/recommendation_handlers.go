// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopcanopy/splitrank-go/internal/application/services"
	"github.com/shopcanopy/splitrank-go/internal/domain/catalog"
	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/presentation/http/middleware"
)

// RecommendationHandlers serves the recommendation surface.
type RecommendationHandlers struct {
	recommendations *services.RecommendationService
	eventRecorder   *services.EventService
	logger          *logging.ChanneledLogger
}

// NewRecommendationHandlers creates recommendation handlers with injected dependencies.
func NewRecommendationHandlers(recommendations *services.RecommendationService, eventRecorder *services.EventService, logger *logging.ChanneledLogger) *RecommendationHandlers {
	return &RecommendationHandlers{
		recommendations: recommendations,
		eventRecorder:   eventRecorder,
		logger:          logger,
	}
}

// RecommendationsResponse is the payload for GET /api/v1/recommendations.
type RecommendationsResponse struct {
	UserID          int64              `json:"user_id"`
	Recommendations []*catalog.Product `json:"recommendations"`
	AssignedGroup   string             `json:"assigned_group"`
}

// GetRecommendations handles GET /api/v1/recommendations. The experiment
// middleware has already attached the assignment; this handler fetches the
// ranked products and emits a fire-and-forget impression event carrying the
// shown product ids.
func (h *RecommendationHandlers) GetRecommendations(c *gin.Context) {
	assignment, ok := middleware.GetAssignment(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "experiment assignment not found"})
		return
	}

	start := time.Now()
	products := h.recommendations.GetRecommendations(c.Request.Context(), assignment.UserID, assignment.Group)

	recommendedIDs := make([]int64, 0, len(products))
	for _, p := range products {
		recommendedIDs = append(recommendedIDs, p.ID)
	}

	h.eventRecorder.Record(&events.InteractionEvent{
		UserID:         assignment.UserID,
		ExperimentName: assignment.Experiment,
		Group:          assignment.Group,
		Action:         events.ActionImpression,
		Metadata:       map[string]any{"recommended_ids": recommendedIDs},
	})

	h.logger.Experiment().Debug("Recommendations served",
		"userId", assignment.UserID,
		"group", assignment.Group,
		"count", len(products),
		"duration", time.Since(start))

	c.JSON(http.StatusOK, RecommendationsResponse{
		UserID:          assignment.UserID,
		Recommendations: products,
		AssignedGroup:   assignment.Group,
	})
}
