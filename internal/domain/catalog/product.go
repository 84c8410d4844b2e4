// Package catalog defines the product read model consumed by the
// recommendation surface.
package catalog

// Product statuses. Only active products are ever recommended.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusSoldOut  = "sold_out"
)

// Product is one catalog item.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    string  `json:"imageUrl"`
	Status      string  `json:"status"`
}

// IsActive reports whether the product may appear in recommendations.
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// Repository defines read access to the product catalog.
type Repository interface {
	FindAll() ([]*Product, error)
	ActiveByIDs(ids []int64) ([]*Product, error)
	RandomActive(limit int) ([]*Product, error)
}
