package printing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFooter is printed at the end of every catalog report
const ReportFooter = "Product Manager - Sistema de Gerenciamento de Produtos"

// ReportProduct is one product row as shown in a report
type ReportProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Stock       int
	CreatedAt   time.Time
}

// ProductsReportData binds ReportProducts
type ProductsReportData struct {
	GeneratedAt   time.Time
	TotalProducts int64
	TotalStock    int64
	TotalValue    decimal.Decimal
	Products      []ReportProduct
	Footer        string
}

// CategoryCount is the number of products in one category
type CategoryCount struct {
	Category string
	Count    int64
}

// DashboardReportData binds ReportDashboard
type DashboardReportData struct {
	GeneratedAt     time.Time
	TotalProducts   int64
	TotalStock      int64
	TotalValue      decimal.Decimal
	AveragePrice    decimal.Decimal
	LowStockCount   int64
	OutOfStockCount int64
	Categories      []CategoryCount
	TopExpensive    []ReportProduct
	LowStock        []ReportProduct
	Footer          string
}
