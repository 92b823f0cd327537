package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// productSortKeys maps the sort keys accepted from callers to product columns.
// Both the column name and its JSON spelling are accepted.
var productSortKeys = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"createdat":  "created_at",
	"name":       "name",
	"price":      "price",
	"category":   "category",
	"stock":      "stock",
}

// productOrder builds the ORDER BY clause for a product page. Unknown keys
// fall back to created_at and anything but "asc" sorts descending.
func productOrder(orderBy, orderDir string) clause.OrderByColumn {
	column, ok := productSortKeys[strings.ToLower(strings.TrimSpace(orderBy))]
	if !ok {
		column = "created_at"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: column},
		Desc:   !strings.EqualFold(strings.TrimSpace(orderDir), "asc"),
	}
}
