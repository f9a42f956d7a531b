package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageParams holds normalized pagination query parameters.
type PageParams struct {
	Page     int
	PageSize int
}

// Offset returns the record offset for the current page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePageParams reads page/page_size query parameters, enforcing
// 1-indexed pages and a page size ceiling.
func ParsePageParams(c *gin.Context) PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return PageParams{Page: page, PageSize: size}
}

// Pagination is the metadata block attached to paginated responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes pagination metadata for a result set.
func NewPagination(total int64, p PageParams) Pagination {
	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	return Pagination{
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}
