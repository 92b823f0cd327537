package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/partnerpro/product-manager/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of products
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	return r.findPage(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
}

// FindAllUnpaged returns every product, oldest first
func (r *GormProductRepository) FindAllUnpaged(ctx context.Context) ([]catalog.Product, error) {
	return r.findAll(r.db.WithContext(ctx).Order("created_at ASC"))
}

// FindByCriteria returns one page of products matching the criteria
func (r *GormProductRepository) FindByCriteria(ctx context.Context, criteria catalog.ProductCriteria, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	query := applyCriteria(r.db.WithContext(ctx).Model(&models.ProductModel{}), criteria)
	return r.findPage(query, filter)
}

// FindAllByCriteria returns every product matching the criteria, oldest first
func (r *GormProductRepository) FindAllByCriteria(ctx context.Context, criteria catalog.ProductCriteria) ([]catalog.Product, error) {
	query := applyCriteria(r.db.WithContext(ctx), criteria)
	return r.findAll(query.Order("created_at ASC"))
}

// FindByCategory finds products in a category, ignoring case
func (r *GormProductRepository) FindByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	return r.findAll(r.db.WithContext(ctx).
		Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(category))).
		Order("created_at ASC"))
}

// FindAllOrderByPrice returns every product sorted by price
func (r *GormProductRepository) FindAllOrderByPrice(ctx context.Context, ascending bool) ([]catalog.Product, error) {
	order := "price DESC, created_at ASC"
	if ascending {
		order = "price ASC, created_at ASC"
	}
	return r.findAll(r.db.WithContext(ctx).Order(order))
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// DeleteByID deletes a product. Deleting a missing product returns shared.ErrNotFound.
func (r *GormProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByID checks if a product exists
func (r *GormProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts all products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AveragePrice returns the mean price, zero when the catalog is empty
func (r *GormProductRepository) AveragePrice(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	row := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("COALESCE(AVG(price), 0)").
		Row()
	if err := row.Scan(&avg); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute average price: %w", err)
	}
	return avg, nil
}

func (r *GormProductRepository) findAll(query *gorm.DB) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(rows), nil
}

// findPage counts the rows matched by query, then loads the requested page
func (r *GormProductRepository) findPage(query *gorm.DB, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	filter = filter.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}

	var rows []models.ProductModel
	if err := query.
		Order(productOrder(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}

	return shared.NewPaginated(toDomainProducts(rows), total, filter.Page, filter.PageSize), nil
}

// applyCriteria adds one predicate per non-nil criteria field
func applyCriteria(query *gorm.DB, c catalog.ProductCriteria) *gorm.DB {
	if c.Name != nil {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(*c.Name)+"%")
	}
	if c.Category != nil {
		query = query.Where("LOWER(category) = ?", strings.ToLower(*c.Category))
	}
	if c.MinPrice != nil {
		query = query.Where("price >= ?", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		query = query.Where("price <= ?", *c.MaxPrice)
	}
	if c.StartDate != nil {
		query = query.Where("created_at >= ?", *c.StartDate)
	}
	if c.EndDate != nil {
		query = query.Where("created_at <= ?", *c.EndDate)
	}
	return query
}

func toDomainProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}
