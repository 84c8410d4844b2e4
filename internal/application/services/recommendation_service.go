package services

import (
	"context"
	"time"

	"github.com/shopcanopy/splitrank-go/internal/domain/catalog"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// Recommender fetches the ordered product ids for a user under a strategy
// version (the assigned experiment group).
type Recommender interface {
	Recommend(ctx context.Context, userID int64, strategyVersion string) ([]int64, error)
}

const fallbackRecommendationCount = 10

// RecommendationService fetches ranked recommendations from the external
// model service and materializes them against the local catalog. Only
// active products are returned, in the upstream ranking order. Any upstream
// failure degrades to random active products so the surface never renders
// empty for a transient outage.
type RecommendationService struct {
	recommender Recommender
	products    catalog.Repository
	logger      *logging.ChanneledLogger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(recommender Recommender, products catalog.Repository, logger *logging.ChanneledLogger) *RecommendationService {
	return &RecommendationService{
		recommender: recommender,
		products:    products,
		logger:      logger,
	}
}

// GetRecommendations returns the ordered, active products to show a user
// under the given group. Never returns an error: failures fall back to the
// catalog, and a catalog failure yields an empty list.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID int64, group string) []*catalog.Product {
	start := time.Now()

	ids, err := s.recommender.Recommend(ctx, userID, group)
	if err != nil {
		s.logger.System().Error("Failed to get recommendations from model service, using catalog fallback",
			"error", err.Error(),
			"userId", userID,
			"strategyVersion", group)
		return s.fallback()
	}

	products, err := s.products.ActiveByIDs(ids)
	if err != nil {
		s.logger.System().Error("Failed to load recommended products, using catalog fallback",
			"error", err.Error(),
			"userId", userID)
		return s.fallback()
	}

	// Preserve the upstream ranking order.
	byID := make(map[int64]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]*catalog.Product, 0, len(products))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	s.logger.System().Debug("Recommendations resolved",
		"userId", userID,
		"strategyVersion", group,
		"requested", len(ids),
		"served", len(ordered),
		"duration", time.Since(start))

	return ordered
}

func (s *RecommendationService) fallback() []*catalog.Product {
	products, err := s.products.RandomActive(fallbackRecommendationCount)
	if err != nil {
		s.logger.System().Error("Catalog fallback failed, serving empty recommendations", "error", err.Error())
		return []*catalog.Product{}
	}
	return products
}
