// Package chart builds chart series from the product catalog and maps
// free-text requests to the matching aggregation.
package chart

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/partnerpro/product-manager/internal/domain/assistant"
	"github.com/partnerpro/product-manager/internal/domain/catalog"
	"github.com/partnerpro/product-manager/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	categoryColors     = []string{"#008FFB", "#00E396", "#FEB019", "#FF4560", "#775DD0"}
	stockColors        = []string{"#FF4560", "#FEB019", "#00E396", "#008FFB"}
	valueColors        = []string{"#00E396", "#008FFB", "#FEB019", "#FF4560", "#775DD0"}
	averagePriceColors = []string{"#775DD0", "#00E396", "#FEB019", "#FF4560", "#008FFB"}

	priceBounds = []decimal.Decimal{
		decimal.NewFromInt(500),
		decimal.NewFromInt(1000),
		decimal.NewFromInt(2000),
		decimal.NewFromInt(3000),
	}
)

// Service generates charts from the current catalog
type Service struct {
	productRepo catalog.ProductRepository
}

// NewService creates a new chart Service
func NewService(productRepo catalog.ProductRepository) *Service {
	return &Service{productRepo: productRepo}
}

// Generate builds the chart of the given kind
func (s *Service) Generate(ctx context.Context, kind assistant.ChartKind) (*assistant.ChartData, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHART_KIND", fmt.Sprintf("Unknown chart kind: %s", kind))
	}
	products, err := s.productRepo.FindAllUnpaged(ctx)
	if err != nil {
		return nil, err
	}
	data := Build(kind, products)
	return &data, nil
}

// DetectAndGenerate returns the chart requested by message, or nil when the
// message does not ask for one
func (s *Service) DetectAndGenerate(ctx context.Context, message string) (*assistant.ChartData, error) {
	kind, ok := Detect(message)
	if !ok {
		return nil, nil
	}
	return s.Generate(ctx, kind)
}

// Detect maps a chat message to a chart kind. ok is false when the message
// carries no chart trigger word.
func Detect(message string) (assistant.ChartKind, bool) {
	msg := strings.ToLower(message)

	if !containsAny(msg, "gráfico", "grafico", "visualiz", "chart") {
		return "", false
	}

	if strings.Contains(msg, "categoria") && containsAny(msg, "produto", "quantidade") {
		return assistant.ChartProductsByCategory, true
	}

	if containsAny(msg, "preço", "preco", "valor") {
		if containsAny(msg, "distribuição", "distribuicao", "faixa") {
			return assistant.ChartPriceDistribution, true
		}
		if containsAny(msg, "médio", "medio", "média") {
			return assistant.ChartAveragePriceByCategory, true
		}
		if containsAny(msg, "categoria", "total") {
			return assistant.ChartValueByCategory, true
		}
	}

	if containsAny(msg, "estoque", "stock") {
		return assistant.ChartStockLevels, true
	}

	return assistant.ChartProductsByCategory, true
}

// Build computes the chart of the given kind. Unknown kinds fall back to
// products by category.
func Build(kind assistant.ChartKind, products []catalog.Product) assistant.ChartData {
	switch kind {
	case assistant.ChartPriceDistribution:
		return PriceDistribution(products)
	case assistant.ChartStockLevels:
		return StockLevels(products)
	case assistant.ChartValueByCategory:
		return ValueByCategory(products)
	case assistant.ChartAveragePriceByCategory:
		return AveragePriceByCategory(products)
	default:
		return ProductsByCategory(products)
	}
}

// ProductsByCategory counts products per category, labels in alphabetical order
func ProductsByCategory(products []catalog.Product) assistant.ChartData {
	counts := make(map[string]int)
	for _, p := range products {
		counts[p.Category]++
	}

	labels := sortedKeys(counts)
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = float64(counts[label])
	}

	return assistant.ChartData{
		Type:     assistant.ChartPie,
		Title:    "Produtos por Categoria",
		Labels:   labels,
		Values:   values,
		Metadata: map[string]any{"colors": categoryColors},
	}
}

// PriceDistribution counts products per price band
func PriceDistribution(products []catalog.Product) assistant.ChartData {
	values := make([]float64, len(priceBounds)+1)
	for _, p := range products {
		band := len(priceBounds)
		for i, bound := range priceBounds {
			if p.Price.LessThan(bound) {
				band = i
				break
			}
		}
		values[band]++
	}

	return assistant.ChartData{
		Type:     assistant.ChartColumn,
		Title:    "Distribuição de Preços",
		Labels:   []string{"0-500", "500-1K", "1K-2K", "2K-3K", "3K+"},
		Values:   values,
		Metadata: map[string]any{"color": "#00E396"},
	}
}

// StockLevels counts products per stock band
func StockLevels(products []catalog.Product) assistant.ChartData {
	values := make([]float64, 4)
	for _, p := range products {
		switch {
		case p.Stock <= 0:
			values[0]++
		case p.Stock < 10:
			values[1]++
		case p.Stock < 50:
			values[2]++
		default:
			values[3]++
		}
	}

	return assistant.ChartData{
		Type:     assistant.ChartBar,
		Title:    "Níveis de Estoque",
		Labels:   []string{"Sem Estoque", "Baixo (1-9)", "Médio (10-49)", "Alto (50+)"},
		Values:   values,
		Metadata: map[string]any{"colors": stockColors},
	}
}

// ValueByCategory sums price times stock per category, largest first
func ValueByCategory(products []catalog.Product) assistant.ChartData {
	totals := make(map[string]decimal.Decimal)
	for _, p := range products {
		totals[p.Category] = totals[p.Category].Add(p.StockValue())
	}

	labels := sortedKeys(totals)
	slices.SortStableFunc(labels, func(a, b string) int {
		return totals[b].Cmp(totals[a])
	})
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = totals[label].InexactFloat64()
	}

	return assistant.ChartData{
		Type:     assistant.ChartBar,
		Title:    "Valor Total por Categoria (R$)",
		Labels:   labels,
		Values:   values,
		Metadata: map[string]any{"colors": valueColors},
	}
}

// AveragePriceByCategory averages prices per category, highest first
func AveragePriceByCategory(products []catalog.Product) assistant.ChartData {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range products {
		sums[p.Category] += p.Price.InexactFloat64()
		counts[p.Category]++
	}

	averages := make(map[string]float64, len(sums))
	for category, sum := range sums {
		averages[category] = sum / float64(counts[category])
	}

	labels := sortedKeys(averages)
	slices.SortStableFunc(labels, func(a, b string) int {
		switch {
		case averages[a] > averages[b]:
			return -1
		case averages[a] < averages[b]:
			return 1
		}
		return 0
	})
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = averages[label]
	}

	return assistant.ChartData{
		Type:     assistant.ChartColumn,
		Title:    "Preço Médio por Categoria (R$)",
		Labels:   labels,
		Values:   values,
		Metadata: map[string]any{"colors": averagePriceColors},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
