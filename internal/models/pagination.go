package models

// PageQuery carries the normalized list query parameters.
type PageQuery struct {
	PageNumber    int
	PageSize      int
	SortBy        string
	SortDirection string // "asc" or "desc"
	SearchTerm    string
}

// Offset returns the row offset for the requested page.
func (q PageQuery) Offset() int {
	return (q.PageNumber - 1) * q.PageSize
}

// Page is a single page of a listing. PagesCount is always
// ceil(TotalCount/PageSize) and len(Items) never exceeds PageSize.
type Page[T any] struct {
	PagesCount int `json:"pagesCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	Items      []T `json:"items"`
}

// NewPage assembles a Page, deriving PagesCount from the total.
func NewPage[T any](q PageQuery, totalCount int, items []T) *Page[T] {
	pagesCount := 0
	if q.PageSize > 0 {
		pagesCount = (totalCount + q.PageSize - 1) / q.PageSize
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		PagesCount: pagesCount,
		Page:       q.PageNumber,
		PageSize:   q.PageSize,
		TotalCount: totalCount,
		Items:      items,
	}
}
