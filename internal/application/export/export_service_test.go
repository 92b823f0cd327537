package export

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/partnerpro/product-manager/internal/application/catalog"
	"github.com/partnerpro/product-manager/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 17, 8, 45, 30, 0, time.UTC)

type staticLister struct {
	products []catalogapp.ProductResponse
	err      error
}

func (l *staticLister) ListAll(context.Context) ([]catalogapp.ProductResponse, error) {
	return l.products, l.err
}

type capturingRenderer struct {
	requests []*printing.RenderRequest
	err      error
}

func (r *capturingRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4 fake"), PageCount: 1}, nil
}

func (r *capturingRenderer) Close() error { return nil }

func (r *capturingRenderer) lastHTML() string {
	return r.requests[len(r.requests)-1].HTML
}

type memoryArchiver struct {
	objects map[string][]byte
	err     error
}

func (a *memoryArchiver) Upload(_ context.Context, key, _ string, data []byte) error {
	if a.err != nil {
		return a.err
	}
	if a.objects == nil {
		a.objects = make(map[string][]byte)
	}
	a.objects[key] = data
	return nil
}

type exportRecord struct {
	kind string
	size int
	err  error
}

type recordingMetrics struct {
	records []exportRecord
}

func (m *recordingMetrics) RecordExport(_ context.Context, kind string, size int, err error) {
	m.records = append(m.records, exportRecord{kind, size, err})
}

func product(name string, price string, category string, stock int) catalogapp.ProductResponse {
	return catalogapp.ProductResponse{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Stock:       stock,
		CreatedAt:   time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
	}
}

func fixtures() []catalogapp.ProductResponse {
	return []catalogapp.ProductResponse{
		product("Notebook", "2500", "Electronics", 10),
		product("Mouse", "50.50", "Electronics", 50),
		product("Desk", "800", "Furniture", 5),
		product("Lamp", "120", "Furniture", 0),
	}
}

func newTestService(lister ProductLister, renderer printing.PDFRenderer, opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(lister, printing.NewTemplateEngine(), renderer, zap.NewNop(), opts...)
}

func TestService_ProductsCSV(t *testing.T) {
	products := fixtures()
	products[0].Description = `Dell, 15" screen`
	svc := newTestService(&staticLister{products: products}, &capturingRenderer{})

	file, err := svc.ProductsCSV(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "produtos_20240517_084530.csv", file.Name)
	assert.Equal(t, ContentTypeCSV, file.ContentType)

	records, err := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []string{"ID", "Nome", "Descrição", "Preço", "Categoria", "Estoque", "Data de Criação"}, records[0])
	assert.Equal(t, []string{
		products[0].ID.String(), "Notebook", `Dell, 15" screen`, "2500", "Electronics", "10", "02/01/2024 15:04",
	}, records[1])
	assert.Equal(t, "50.5", records[2][3])
}

func TestService_ProductsCSV_Empty(t *testing.T) {
	svc := newTestService(&staticLister{}, &capturingRenderer{})

	file, err := svc.ProductsCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ID,Nome,Descrição,Preço,Categoria,Estoque,Data de Criação\n", string(file.Data))
}

func TestService_ProductsPDF(t *testing.T) {
	renderer := &capturingRenderer{}
	products := fixtures()
	products[1].Description = strings.Repeat("x", 51)
	svc := newTestService(&staticLister{products: products}, renderer)

	file, err := svc.ProductsPDF(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "produtos_20240517_084530.pdf", file.Name)
	assert.Equal(t, ContentTypePDF, file.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), file.Data)

	require.Len(t, renderer.requests, 1)
	req := renderer.requests[0]
	assert.Equal(t, printing.PaperSizeA4, req.PaperSize)
	assert.Equal(t, "Relatório de Produtos", req.Title)

	html := req.HTML
	assert.Contains(t, html, "Gerado em: 17/05/2024 08:45")
	// 10*2500 + 50*50.50 + 5*800 + 0*120 = 31525
	assert.Contains(t, html, "Total de Produtos: 4 | Estoque Total: 65 unidades | Valor Total: R$ 31.525,00")
	assert.Contains(t, html, strings.Repeat("x", 47)+"...")
	assert.Contains(t, html, "02/01/2024</td>")
	assert.Contains(t, html, printing.ReportFooter)
}

func TestService_DashboardPDF(t *testing.T) {
	renderer := &capturingRenderer{}
	svc := newTestService(&staticLister{products: fixtures()}, renderer)

	file, err := svc.DashboardPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "dashboard_20240517_084530.pdf", file.Name)

	html := renderer.lastHTML()
	assert.Contains(t, html, "Dashboard - Relatório Executivo")
	assert.Contains(t, html, "Total de Produtos: 4")
	assert.Contains(t, html, "Estoque Total: 65 unidades")
	// (2500 + 50.50 + 800 + 120) / 4 = 867.625
	assert.Contains(t, html, "Preço Médio: R$ 867,63")
	assert.Contains(t, html, "Produtos com Estoque Baixo (&lt;10): 2")
	assert.Contains(t, html, "Produtos Sem Estoque: 1")
	assert.Contains(t, html, "Electronics: 2 produtos")
	assert.Contains(t, html, "Furniture: 2 produtos")
	assert.Contains(t, html, "Desk - Apenas 5 unidades")
	assert.Contains(t, html, "Lamp - Apenas 0 unidades")
	assert.NotContains(t, html, "Notebook - Apenas")

	notebook := strings.Index(html, "Notebook - R$")
	desk := strings.Index(html, "Desk - R$")
	require.True(t, notebook >= 0 && desk >= 0)
	assert.Less(t, notebook, desk)
}

func TestService_DashboardData(t *testing.T) {
	svc := newTestService(&staticLister{}, &capturingRenderer{})

	t.Run("empty catalog", func(t *testing.T) {
		data := svc.dashboardData(nil)
		assert.True(t, data.AveragePrice.IsZero())
		assert.Empty(t, data.LowStock)
		assert.Empty(t, data.TopExpensive)
	})

	t.Run("top five most expensive", func(t *testing.T) {
		var products []catalogapp.ProductResponse
		for i := 1; i <= 7; i++ {
			products = append(products, product("P", decimal.NewFromInt(int64(i*10)).String(), "C", 20))
		}
		data := svc.dashboardData(products)

		require.Len(t, data.TopExpensive, 5)
		assert.True(t, data.TopExpensive[0].Price.Equal(decimal.NewFromInt(70)))
		assert.True(t, data.TopExpensive[4].Price.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, []printing.CategoryCount{{Category: "C", Count: 7}}, data.Categories)
	})

	t.Run("average rounds half up", func(t *testing.T) {
		data := svc.dashboardData([]catalogapp.ProductResponse{
			product("A", "0.01", "C", 20),
			product("B", "0.02", "C", 20),
		})
		assert.Equal(t, "0.02", data.AveragePrice.StringFixed(2))
	})
}

func TestService_Archive(t *testing.T) {
	t.Run("uploads under exports prefix", func(t *testing.T) {
		archiver := &memoryArchiver{}
		svc := newTestService(&staticLister{products: fixtures()}, &capturingRenderer{}, WithArchiver(archiver))

		file, err := svc.ProductsCSV(context.Background())
		require.NoError(t, err)
		assert.Equal(t, file.Data, archiver.objects["exports/produtos_20240517_084530.csv"])
	})

	t.Run("upload failure does not fail the export", func(t *testing.T) {
		archiver := &memoryArchiver{err: errors.New("bucket unavailable")}
		svc := newTestService(&staticLister{products: fixtures()}, &capturingRenderer{}, WithArchiver(archiver))

		file, err := svc.DashboardPDF(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, file.Data)
	})
}

func TestService_Failures(t *testing.T) {
	t.Run("catalog error", func(t *testing.T) {
		metrics := &recordingMetrics{}
		svc := newTestService(&staticLister{err: errors.New("db down")}, &capturingRenderer{}, WithMetrics(metrics))

		_, err := svc.ProductsCSV(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")

		require.Len(t, metrics.records, 1)
		assert.Equal(t, kindProductsCSV, metrics.records[0].kind)
		assert.Error(t, metrics.records[0].err)
	})

	t.Run("renderer error", func(t *testing.T) {
		renderErr := printing.NewRenderError(printing.ErrCodeRenderTimeout, "timed out", nil)
		svc := newTestService(&staticLister{products: fixtures()}, &capturingRenderer{err: renderErr})

		_, err := svc.ProductsPDF(context.Background())
		require.Error(t, err)

		var target *printing.RenderError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, printing.ErrCodeRenderTimeout, target.Code)
	})

	t.Run("success is recorded", func(t *testing.T) {
		metrics := &recordingMetrics{}
		svc := newTestService(&staticLister{products: fixtures()}, &capturingRenderer{}, WithMetrics(metrics))

		_, err := svc.ProductsPDF(context.Background())
		require.NoError(t, err)
		require.Len(t, metrics.records, 1)
		assert.Equal(t, exportRecord{kind: kindProductsPDF, size: len("%PDF-1.4 fake")}, metrics.records[0])
	})
}
