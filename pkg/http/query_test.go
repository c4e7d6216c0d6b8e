package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageQuery_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/blogs", nil)

	q := ParsePageQuery(req, "searchNameTerm")

	assert.Equal(t, 1, q.PageNumber)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, "desc", q.SortDirection)
	assert.Empty(t, q.SearchTerm)
}

func TestParsePageQuery_ExplicitValues(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/blogs?pageNumber=3&pageSize=25&sortBy=name&sortDirection=ASC&searchNameTerm=%20tech%20", nil)

	q := ParsePageQuery(req, "searchNameTerm")

	assert.Equal(t, 3, q.PageNumber)
	assert.Equal(t, 25, q.PageSize)
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, "asc", q.SortDirection)
	assert.Equal(t, "tech", q.SearchTerm)
}

func TestParsePageQuery_OutOfRangeFallsBack(t *testing.T) {
	req := httptest.NewRequest("GET", "/blogs?pageNumber=-2&pageSize=0", nil)

	q := ParsePageQuery(req, "")

	assert.Equal(t, 1, q.PageNumber)
	assert.Equal(t, 10, q.PageSize)
}

func TestParsePageQuery_PageSizeCapped(t *testing.T) {
	req := httptest.NewRequest("GET", "/blogs?pageSize=5000", nil)

	q := ParsePageQuery(req, "")

	assert.Equal(t, 100, q.PageSize)
}

func TestParsePageQuery_GarbageNumbers(t *testing.T) {
	req := httptest.NewRequest("GET", "/blogs?pageNumber=abc&pageSize=xyz", nil)

	q := ParsePageQuery(req, "")

	assert.Equal(t, 1, q.PageNumber)
	assert.Equal(t, 10, q.PageSize)
}

func TestParsePageQuery_IgnoresSearchWithoutParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/posts?searchNameTerm=tech", nil)

	q := ParsePageQuery(req, "")

	assert.Empty(t, q.SearchTerm)
}
