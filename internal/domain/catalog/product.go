package catalog

import (
	"strings"

	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold is the stock level below which a product is flagged as low stock
	LowStockThreshold = 10

	maxNameLength     = 255
	maxCategoryLength = 255
)

// Product represents an item of the catalog
type Product struct {
	shared.BaseEntity
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, category string, stock int) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity()}
	if err := p.apply(name, description, price, category, stock); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces every mutable field of the product
func (p *Product) Update(name, description string, price decimal.Decimal, category string, stock int) error {
	return p.apply(name, description, price, category, stock)
}

func (p *Product) apply(name, description string, price decimal.Decimal, category string, stock int) error {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be zero or positive")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock must be zero or positive")
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Category = category
	p.Stock = stock
	return nil
}

// StockValue returns price multiplied by the units in stock
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// IsLowStock reports whether the stock is under LowStockThreshold
func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

// IsOutOfStock reports whether the product has no units left
func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > maxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 255 characters")
	}
	return nil
}

func validateCategory(category string) error {
	if category == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if len(category) > maxCategoryLength {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 255 characters")
	}
	return nil
}
