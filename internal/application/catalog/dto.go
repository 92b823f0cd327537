package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required,notblank,max=255"`
	Description string           `json:"description" binding:"max=5000"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category" binding:"required,notblank,max=255"`
	Stock       *int             `json:"stock" binding:"required,min=0"`
}

// UpdateProductRequest replaces every field of a product
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required,notblank,max=255"`
	Description string           `json:"description" binding:"max=5000"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Category    string           `json:"category" binding:"required,notblank,max=255"`
	Stock       *int             `json:"stock" binding:"required,min=0"`
}

// ProductFilterRequest holds the optional predicates and in-memory sort
// options accepted by the filter and search endpoints
type ProductFilterRequest struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	MinPrice      *decimal.Decimal `json:"minPrice"`
	MaxPrice      *decimal.Decimal `json:"maxPrice"`
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	SortBy        string           `json:"sortBy"`
	SortDirection string           `json:"sortDirection"`
}

// Criteria converts the request to repository criteria. Empty text
// predicates are dropped.
func (r ProductFilterRequest) Criteria() catalog.ProductCriteria {
	return catalog.ProductCriteria{
		Name:      nonEmpty(r.Name),
		Category:  nonEmpty(r.Category),
		MinPrice:  r.MinPrice,
		MaxPrice:  r.MaxPrice,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DashboardResponse holds the aggregate catalog figures
type DashboardResponse struct {
	TotalProducts int64           `json:"totalProducts"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
