package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcanopy/splitrank-go/internal/application/services"
	"github.com/shopcanopy/splitrank-go/internal/domain/events"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/presentation/http/middleware"
)

// TrackHandlers records click interactions arriving from the surface.
type TrackHandlers struct {
	eventRecorder *services.EventService
	logger        *logging.ChanneledLogger
}

// NewTrackHandlers creates track handlers with injected dependencies.
func NewTrackHandlers(eventRecorder *services.EventService, logger *logging.ChanneledLogger) *TrackHandlers {
	return &TrackHandlers{
		eventRecorder: eventRecorder,
		logger:        logger,
	}
}

// ClickRequest is the payload for POST /api/v1/track/click.
type ClickRequest struct {
	ProductID      int64  `json:"product_id" binding:"required"`
	Group          string `json:"group" binding:"required"`
	ExperimentName string `json:"experiment_name" binding:"required"`
}

// PostClick handles POST /api/v1/track/click. Recording is best-effort:
// whatever happens to the event afterwards, the caller gets a success once
// the payload validates.
func (h *TrackHandlers) PostClick(c *gin.Context) {
	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Events().Error("Click request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	var userID int64
	if ident, ok := middleware.GetIdentity(c); ok {
		userID = ident.LogID()
	}

	productID := req.ProductID
	h.eventRecorder.Record(&events.InteractionEvent{
		UserID:         userID,
		ExperimentName: req.ExperimentName,
		Group:          req.Group,
		Action:         events.ActionClick,
		ProductID:      &productID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Click tracked."})
}
