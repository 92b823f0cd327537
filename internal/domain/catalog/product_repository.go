package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductCriteria narrows a product query. Nil fields are ignored and
// the remaining predicates are combined with AND.
type ProductCriteria struct {
	Name      *string
	Category  *string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
}

// HasFilters reports whether any predicate is set
func (c ProductCriteria) HasFilters() bool {
	return c.Name != nil || c.Category != nil ||
		c.MinPrice != nil || c.MaxPrice != nil ||
		c.StartDate != nil || c.EndDate != nil
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns one page of products
	FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[Product], error)

	// FindAllUnpaged returns every product ordered by creation date
	FindAllUnpaged(ctx context.Context) ([]Product, error)

	// FindByCriteria returns one page of products matching the criteria
	FindByCriteria(ctx context.Context, criteria ProductCriteria, filter shared.Filter) (shared.Paginated[Product], error)

	// FindAllByCriteria returns every product matching the criteria
	FindAllByCriteria(ctx context.Context, criteria ProductCriteria) ([]Product, error)

	// FindByCategory finds products in a category, ignoring case
	FindByCategory(ctx context.Context, category string) ([]Product, error)

	// FindAllOrderByPrice returns every product sorted by price
	FindAllOrderByPrice(ctx context.Context, ascending bool) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteByID deletes a product
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// ExistsByID checks if a product exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Count counts all products
	Count(ctx context.Context) (int64, error)

	// AveragePrice returns the mean price, zero when the catalog is empty
	AveragePrice(ctx context.Context) (decimal.Decimal, error)
}
