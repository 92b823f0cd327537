package shared

// Filter represents query pagination and ordering options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Normalize fills zero values with the defaults
func (f Filter) Normalize() Filter {
	def := DefaultFilter()
	if f.Page < 1 {
		f.Page = def.Page
	}
	if f.PageSize < 1 {
		f.PageSize = def.PageSize
	}
	if f.OrderBy == "" {
		f.OrderBy = def.OrderBy
	}
	if f.OrderDir == "" {
		f.OrderDir = def.OrderDir
	}
	return f
}

// Offset returns the number of rows to skip for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// MapPaginated converts the items of a paginated result
func MapPaginated[T, R any](p Paginated[T], fn func(T) R) Paginated[R] {
	out := make([]R, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Paginated[R]{
		Items:      out,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}
