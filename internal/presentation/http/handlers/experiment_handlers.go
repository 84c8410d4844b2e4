package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcanopy/splitrank-go/internal/application/services"
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// ExperimentHandlers exposes the operator view of experiment configuration
// and cached group stats.
type ExperimentHandlers struct {
	table        *experiment.Table
	statsService *services.StatsService
	logger       *logging.ChanneledLogger
}

// NewExperimentHandlers creates experiment handlers with injected dependencies.
func NewExperimentHandlers(table *experiment.Table, statsService *services.StatsService, logger *logging.ChanneledLogger) *ExperimentHandlers {
	return &ExperimentHandlers{
		table:        table,
		statsService: statsService,
		logger:       logger,
	}
}

// GetStats handles GET /api/v1/experiments/:name/stats. The stats are the
// cached aggregate view, so they may lag live traffic by up to the
// freshness window.
func (h *ExperimentHandlers) GetStats(c *gin.Context) {
	name := c.Param("name")

	exp, ok := h.table.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown experiment"})
		return
	}

	stats := h.statsService.Stats(name)

	c.JSON(http.StatusOK, gin.H{
		"experiment":    exp.Name,
		"enabled":       exp.Enabled,
		"default_group": exp.DefaultGroup,
		"groups":        exp.Groups,
		"stats":         stats,
	})
}
