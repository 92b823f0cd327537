package assistant

// ChartType is the rendering hint sent to the chart widget
type ChartType string

const (
	ChartPie    ChartType = "pie"
	ChartBar    ChartType = "bar"
	ChartColumn ChartType = "column"
	ChartLine   ChartType = "line"
)

// ChartKind names one of the catalog aggregations
type ChartKind string

const (
	ChartProductsByCategory     ChartKind = "category"
	ChartPriceDistribution      ChartKind = "price-distribution"
	ChartStockLevels            ChartKind = "stock"
	ChartValueByCategory        ChartKind = "value-by-category"
	ChartAveragePriceByCategory ChartKind = "average-price"
)

// ChartKinds lists every supported aggregation
var ChartKinds = []ChartKind{
	ChartProductsByCategory,
	ChartPriceDistribution,
	ChartStockLevels,
	ChartValueByCategory,
	ChartAveragePriceByCategory,
}

// IsValid reports whether k is a supported aggregation
func (k ChartKind) IsValid() bool {
	for _, kind := range ChartKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// ChartData is a labelled series ready to be drawn. Labels and Values have the same length.
type ChartData struct {
	Type     ChartType      `json:"type"`
	Title    string         `json:"title"`
	Labels   []string       `json:"labels"`
	Values   []float64      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
