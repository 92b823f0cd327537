package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	cache Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// List returns one page of products, newest first
func (s *ProductService) List(ctx context.Context, page, pageSize int) (shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter = filter.Normalize()

	result, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.MapPaginated(result, func(p catalog.Product) ProductResponse {
		return ToProductResponse(&p)
	}), nil
}

// ListAll returns every product. The result is cached until the next mutation.
func (s *ProductService) ListAll(ctx context.Context) ([]ProductResponse, error) {
	var cached []ProductResponse
	found, err := s.cache.Get(ctx, CacheKeyProducts, &cached)
	if err != nil {
		s.logger.Warn("Failed to read products from cache", zap.Error(err))
	}
	if found {
		return cached, nil
	}

	s.logger.Debug("Fetching all products from database")
	products, err := s.productRepo.FindAllUnpaged(ctx)
	if err != nil {
		return nil, err
	}
	responses := ToProductResponses(products)

	if err := s.cache.Set(ctx, CacheKeyProducts, responses, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache products", zap.Error(err))
	}
	return responses, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	s.logger.Info("Creating new product", zap.String("name", req.Name))

	product, err := catalog.NewProduct(req.Name, req.Description, derefDecimal(req.Price), req.Category, derefInt(req.Stock))
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.evict(ctx)

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	response := ToProductResponse(product)
	return &response, nil
}

// Update replaces every field of an existing product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	s.logger.Info("Updating product", zap.String("product_id", id.String()))

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, derefDecimal(req.Price), req.Category, derefInt(req.Stock)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.evict(ctx)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Info("Deleting product", zap.String("product_id", id.String()))

	exists, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return productNotFound(id)
	}
	if err := s.productRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.evict(ctx)
	return nil
}

// Filter returns one page of products matching the request predicates
func (s *ProductService) Filter(ctx context.Context, req ProductFilterRequest, page, pageSize int) (shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = page
	filter.PageSize = pageSize
	filter = filter.Normalize()

	result, err := s.productRepo.FindByCriteria(ctx, req.Criteria(), filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.MapPaginated(result, func(p catalog.Product) ProductResponse {
		return ToProductResponse(&p)
	}), nil
}

// ListByCategory returns the products of a category, ignoring case
func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]ProductResponse, error) {
	products, err := s.productRepo.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// ListSortedByPrice returns every product sorted by price. order "desc"
// (any case) sorts descending, anything else ascending.
func (s *ProductService) ListSortedByPrice(ctx context.Context, order string) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAllOrderByPrice(ctx, !strings.EqualFold(order, "desc"))
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Search returns every product matching the request predicates, sorted in
// memory when SortBy is set
func (s *ProductService) Search(ctx context.Context, req ProductFilterRequest) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAllByCriteria(ctx, req.Criteria())
	if err != nil {
		return nil, err
	}
	if req.SortBy != "" {
		SortProducts(products, req.SortBy, req.SortDirection)
	}
	return ToProductResponses(products), nil
}

// SortProducts sorts products in place by name, price, category or
// createdat/date. Unknown keys leave the order untouched.
func SortProducts(products []catalog.Product, sortBy, direction string) {
	ascending := !strings.EqualFold(direction, "desc")

	var compare func(a, b *catalog.Product) int
	switch strings.ToLower(sortBy) {
	case "name":
		compare = func(a, b *catalog.Product) int { return strings.Compare(a.Name, b.Name) }
	case "price":
		compare = func(a, b *catalog.Product) int { return a.Price.Cmp(b.Price) }
	case "category":
		compare = func(a, b *catalog.Product) int { return strings.Compare(a.Category, b.Category) }
	case "createdat", "date":
		compare = func(a, b *catalog.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return
	}

	slices.SortStableFunc(products, func(a, b catalog.Product) int {
		c := compare(&a, &b)
		if !ascending {
			return -c
		}
		return c
	})
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, productNotFound(id)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) evict(ctx context.Context) {
	if err := s.cache.Delete(ctx, CacheKeyProducts, CacheKeyDashboard); err != nil {
		s.logger.Warn("Failed to evict catalog cache", zap.Error(err))
	}
}

func productNotFound(id uuid.UUID) error {
	return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product not found with id: %s", id))
}

func derefDecimal(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
