// Package catalog provides the concrete SQL-based implementation for the
// product read model.
package catalog

import (
	"fmt"
	"strings"
	"time"

	domainCatalog "github.com/shopcanopy/splitrank-go/internal/domain/catalog"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

// SQLProductRepository handles product reads from the database.
type SQLProductRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLProductRepository creates a new instance of the repository.
func NewSQLProductRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLProductRepository {
	return &SQLProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, name, COALESCE(description, ''), price, COALESCE(category_id, ''), COALESCE(image_url, ''), status`

// FindAll returns the entire catalog, active or not.
func (r *SQLProductRepository) FindAll() ([]*domainCatalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	return r.queryProducts(query)
}

// ActiveByIDs returns the active products among the given ids. Order follows
// the table, not the input; callers that care about ranking reorder the
// result themselves.
func (r *SQLProductRepository) ActiveByIDs(ids []int64) ([]*domainCatalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + productColumns + ` FROM products WHERE status = 'active' AND id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.queryProducts(query, args...)
}

// RandomActive returns up to limit active products in random order, the
// fallback when the upstream recommender is unavailable.
func (r *SQLProductRepository) RandomActive(limit int) ([]*domainCatalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = 'active' ORDER BY RANDOM() LIMIT ?`
	return r.queryProducts(query, limit)
}

func (r *SQLProductRepository) queryProducts(query string, args ...any) ([]*domainCatalog.Product, error) {
	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Product query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domainCatalog.Product
	for rows.Next() {
		p := &domainCatalog.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.ImageURL, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return products, nil
}
