// Package export produces CSV and PDF downloads of the product catalog.
package export

import (
	"bytes"
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"time"

	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/partnerpro/product-manager/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	ContentTypeCSV = "text/csv; charset=UTF-8"
	ContentTypePDF = "application/pdf"

	csvDateLayout      = "02/01/2006 15:04"
	fileStampLayout    = "20060102_150405"
	archivePrefix      = "exports/"
	topExpensiveLimit  = 5
	kindProductsCSV    = "products_csv"
	kindProductsPDF    = "products_pdf"
	kindDashboardPDF   = "dashboard_pdf"
	reportTitleCatalog = "Relatório de Produtos"
	reportTitleSummary = "Dashboard - Relatório Executivo"
)

var csvHeader = []string{"ID", "Nome", "Descrição", "Preço", "Categoria", "Estoque", "Data de Criação"}

// ProductLister loads the full catalog
type ProductLister interface {
	ListAll(ctx context.Context) ([]catalogapp.ProductResponse, error)
}

// Archiver stores a copy of every generated file
type Archiver interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
}

// Metrics records export outcomes
type Metrics interface {
	RecordExport(ctx context.Context, kind string, size int, err error)
}

// File is a generated download
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Option configures the Service
type Option func(*Service)

// WithArchiver uploads each generated file under exports/<filename>
func WithArchiver(a Archiver) Option {
	return func(s *Service) {
		s.archiver = a
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for timestamps and file names
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service generates catalog exports
type Service struct {
	products ProductLister
	engine   *printing.TemplateEngine
	renderer printing.PDFRenderer
	archiver Archiver
	metrics  Metrics
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new export Service
func NewService(
	products ProductLister,
	engine *printing.TemplateEngine,
	renderer printing.PDFRenderer,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		products: products,
		engine:   engine,
		renderer: renderer,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProductsCSV exports every product as CSV
func (s *Service) ProductsCSV(ctx context.Context) (*File, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, kindProductsCSV, fmt.Errorf("failed to load products: %w", err))
	}

	data, err := writeCSV(products)
	if err != nil {
		return nil, s.fail(ctx, kindProductsCSV, err)
	}

	s.logger.Info("exported products to CSV", zap.Int("products", len(products)))
	return s.finish(ctx, kindProductsCSV, &File{
		Name:        s.fileName("produtos", "csv"),
		ContentType: ContentTypeCSV,
		Data:        data,
	}), nil
}

// ProductsPDF exports every product as a PDF table with totals
func (s *Service) ProductsPDF(ctx context.Context) (*File, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, kindProductsPDF, fmt.Errorf("failed to load products: %w", err))
	}

	totals := computeTotals(products)
	data := printing.ProductsReportData{
		GeneratedAt:   s.now(),
		TotalProducts: int64(len(products)),
		TotalStock:    totals.stock,
		TotalValue:    totals.value,
		Products:      toReportProducts(products),
		Footer:        printing.ReportFooter,
	}

	pdf, err := s.render(ctx, printing.ReportProducts, reportTitleCatalog, data)
	if err != nil {
		return nil, s.fail(ctx, kindProductsPDF, err)
	}

	s.logger.Info("exported products to PDF", zap.Int("products", len(products)))
	return s.finish(ctx, kindProductsPDF, &File{
		Name:        s.fileName("produtos", "pdf"),
		ContentType: ContentTypePDF,
		Data:        pdf,
	}), nil
}

// DashboardPDF exports the executive summary of the catalog
func (s *Service) DashboardPDF(ctx context.Context) (*File, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, kindDashboardPDF, fmt.Errorf("failed to load products: %w", err))
	}

	pdf, err := s.render(ctx, printing.ReportDashboard, reportTitleSummary, s.dashboardData(products))
	if err != nil {
		return nil, s.fail(ctx, kindDashboardPDF, err)
	}

	s.logger.Info("exported dashboard to PDF", zap.Int("products", len(products)))
	return s.finish(ctx, kindDashboardPDF, &File{
		Name:        s.fileName("dashboard", "pdf"),
		ContentType: ContentTypePDF,
		Data:        pdf,
	}), nil
}

func (s *Service) dashboardData(products []catalogapp.ProductResponse) printing.DashboardReportData {
	totals := computeTotals(products)

	avg := decimal.Zero
	if len(products) > 0 {
		avg = totals.priceSum.DivRound(decimal.NewFromInt(int64(len(products))), 2)
	}

	var lowStock []printing.ReportProduct
	var outOfStock int64
	categories := make(map[string]int64)
	for _, p := range products {
		categories[p.Category]++
		if p.Stock < catalog.LowStockThreshold {
			lowStock = append(lowStock, toReportProduct(p))
		}
		if p.Stock == 0 {
			outOfStock++
		}
	}

	counts := make([]printing.CategoryCount, 0, len(categories))
	for name, n := range categories {
		counts = append(counts, printing.CategoryCount{Category: name, Count: n})
	}
	slices.SortFunc(counts, func(a, b printing.CategoryCount) int {
		return cmp.Compare(a.Category, b.Category)
	})

	byPrice := slices.Clone(products)
	slices.SortStableFunc(byPrice, func(a, b catalogapp.ProductResponse) int {
		return b.Price.Cmp(a.Price)
	})
	if len(byPrice) > topExpensiveLimit {
		byPrice = byPrice[:topExpensiveLimit]
	}

	return printing.DashboardReportData{
		GeneratedAt:     s.now(),
		TotalProducts:   int64(len(products)),
		TotalStock:      totals.stock,
		TotalValue:      totals.value,
		AveragePrice:    avg,
		LowStockCount:   int64(len(lowStock)),
		OutOfStockCount: outOfStock,
		Categories:      counts,
		TopExpensive:    toReportProducts(byPrice),
		LowStock:        lowStock,
		Footer:          printing.ReportFooter,
	}
}

func (s *Service) render(ctx context.Context, report printing.ReportTemplate, title string, data any) ([]byte, error) {
	html, err := s.engine.RenderReport(ctx, report, data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", report, err)
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:        html,
		Title:       title,
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationPortrait,
		Margins:     printing.DefaultMargins(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print %s: %w", title, err)
	}
	return result.PDFData, nil
}

// finish archives the file when an archiver is configured. Archive errors
// are logged only; the download is still served.
func (s *Service) finish(ctx context.Context, kind string, file *File) *File {
	if s.archiver != nil {
		key := archivePrefix + file.Name
		if err := s.archiver.Upload(ctx, key, file.ContentType, file.Data); err != nil {
			s.logger.Warn("failed to archive export",
				zap.String("key", key),
				zap.Error(err))
		} else {
			s.logger.Debug("export archived", zap.String("key", key))
		}
	}
	if s.metrics != nil {
		s.metrics.RecordExport(ctx, kind, len(file.Data), nil)
	}
	return file
}

func (s *Service) fail(ctx context.Context, kind string, err error) error {
	s.logger.Error("export failed", zap.String("kind", kind), zap.Error(err))
	if s.metrics != nil {
		s.metrics.RecordExport(ctx, kind, 0, err)
	}
	return err
}

func (s *Service) fileName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, s.now().Format(fileStampLayout), ext)
}

func writeCSV(products []catalogapp.ProductResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range products {
		record := []string{
			p.ID.String(),
			p.Name,
			p.Description,
			p.Price.String(),
			p.Category,
			strconv.Itoa(p.Stock),
			p.CreatedAt.Format(csvDateLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

type totals struct {
	stock    int64
	value    decimal.Decimal
	priceSum decimal.Decimal
}

func computeTotals(products []catalogapp.ProductResponse) totals {
	t := totals{value: decimal.Zero, priceSum: decimal.Zero}
	for _, p := range products {
		t.stock += int64(p.Stock)
		t.value = t.value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		t.priceSum = t.priceSum.Add(p.Price)
	}
	return t
}

func toReportProduct(p catalogapp.ProductResponse) printing.ReportProduct {
	return printing.ReportProduct{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func toReportProducts(products []catalogapp.ProductResponse) []printing.ReportProduct {
	out := make([]printing.ReportProduct, len(products))
	for i, p := range products {
		out[i] = toReportProduct(p)
	}
	return out
}
