package catalog

import (
	"context"
	"time"

	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardService computes the catalog summary shown on the dashboard
type DashboardService struct {
	productRepo catalog.ProductRepository
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(productRepo catalog.ProductRepository, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		productRepo: productRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Summary returns the product count and average price
func (s *DashboardService) Summary(ctx context.Context) (*DashboardResponse, error) {
	var cached DashboardResponse
	found, err := s.cache.Get(ctx, CacheKeyDashboard, &cached)
	if err != nil {
		s.logger.Warn("Failed to read dashboard from cache", zap.Error(err))
	}
	if found {
		return &cached, nil
	}

	s.logger.Debug("Fetching dashboard data from database")
	var (
		g     errgroup.Group
		total int64
		avg   decimal.Decimal
	)
	g.Go(func() (err error) {
		total, err = s.productRepo.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		avg, err = s.productRepo.AveragePrice(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := &DashboardResponse{
		TotalProducts: total,
		AveragePrice:  avg.Round(2),
	}
	if err := s.cache.Set(ctx, CacheKeyDashboard, response, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache dashboard", zap.Error(err))
	}
	return response, nil
}
