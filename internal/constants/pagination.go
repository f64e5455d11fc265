package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Listing Query Parameters
const (
	QueryParamPage     = "page"
	QueryParamLimit    = "limit"
	QueryParamQuery    = "query"
	QueryParamSortBy   = "sortBy"
	QueryParamSortType = "sortType"
	QueryParamUserID   = "userId"
)

// Default Listing Values (as strings for query parsing)
const (
	DefaultPage  = "1"
	DefaultLimit = "10"
)

// Pagination Limits
const (
	MinPage  = 1
	MinLimit = 1
	MaxLimit = 100
)

// Sort Orders
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListParams carries the raw listing parameters of a request.
type ListParams struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	OwnerID  string
}

// ParseListParams parses pagination, search and sort parameters with the
// documented defaults. Out-of-range page/limit values are clamped, never
// rejected.
func ParseListParams(c *gin.Context) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery(QueryParamPage, DefaultPage))
	limit, _ := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return ListParams{
		Page:     page,
		Limit:    limit,
		Query:    c.Query(QueryParamQuery),
		SortBy:   c.Query(QueryParamSortBy),
		SortType: c.Query(QueryParamSortType),
		OwnerID:  c.Query(QueryParamUserID),
	}
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
