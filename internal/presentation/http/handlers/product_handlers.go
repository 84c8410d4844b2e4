package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopcanopy/splitrank-go/internal/domain/catalog"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// ProductHandlers serves the product catalog listing.
type ProductHandlers struct {
	products catalog.Repository
	logger   *logging.ChanneledLogger
}

// NewProductHandlers creates product handlers with injected dependencies.
func NewProductHandlers(products catalog.Repository, logger *logging.ChanneledLogger) *ProductHandlers {
	return &ProductHandlers{
		products: products,
		logger:   logger,
	}
}

// GetProducts handles GET /api/v1/products.
func (h *ProductHandlers) GetProducts(c *gin.Context) {
	products, err := h.products.FindAll()
	if err != nil {
		h.logger.Database().Error("Product listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}
