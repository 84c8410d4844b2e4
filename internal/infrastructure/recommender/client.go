// Package recommender provides the HTTP client for the external
// recommendation-generation service.
package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
)

// Client calls the external model service that ranks product ids for a user.
// The assigned experiment group is forwarded as the strategy version.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.ChanneledLogger
}

// NewClient creates a recommender client with the given base URL and timeout.
func NewClient(baseURL string, timeout time.Duration, logger *logging.ChanneledLogger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type recommendResponse struct {
	RecommendedProductIDs []int64 `json:"recommended_product_ids"`
}

// Recommend fetches the ordered product ids for a user under the given
// strategy version. Callers treat any error as a signal to fall back to the
// local catalog.
func (c *Client) Recommend(ctx context.Context, userID int64, strategyVersion string) ([]int64, error) {
	endpoint := fmt.Sprintf("%s/recommend/%d?strategy_version=%s", c.baseURL, userID, url.QueryEscape(strategyVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommender request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.System().Error("Recommender request failed",
			"error", err.Error(),
			"userId", userID,
			"strategyVersion", strategyVersion)
		return nil, fmt.Errorf("recommender request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommender returned status %d", resp.StatusCode)
	}

	var payload recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode recommender response: %w", err)
	}

	c.logger.System().Debug("Recommender request completed",
		"userId", userID,
		"strategyVersion", strategyVersion,
		"count", len(payload.RecommendedProductIDs),
		"duration", time.Since(start))

	return payload.RecommendedProductIDs, nil
}
