package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ovoronin/bloghub/internal/models"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
	maxPageSize       = 100
)

// ParsePageQuery normalizes the list query parameters. Unknown sort fields
// are resolved per repository; out-of-range numbers fall back to defaults.
func ParsePageQuery(r *http.Request, searchParam string) models.PageQuery {
	q := r.URL.Query()

	pageNumber, err := strconv.Atoi(q.Get("pageNumber"))
	if err != nil || pageNumber < 1 {
		pageNumber = defaultPageNumber
	}

	pageSize, err := strconv.Atoi(q.Get("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	sortDirection := strings.ToLower(q.Get("sortDirection"))
	if sortDirection != "asc" {
		sortDirection = "desc"
	}

	search := ""
	if searchParam != "" {
		search = strings.TrimSpace(q.Get(searchParam))
	}

	return models.PageQuery{
		PageNumber:    pageNumber,
		PageSize:      pageSize,
		SortBy:        q.Get("sortBy"),
		SortDirection: sortDirection,
		SearchTerm:    search,
	}
}
