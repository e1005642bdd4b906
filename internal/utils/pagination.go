// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogPageSize is the fixed page size of the public exhibit listings.
const CatalogPageSize = 12

type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
	Search string `json:"search"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

// Page is a resolved position in a clamped listing.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_previous"`
	HasNext    bool  `json:"has_next"`
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")
	search := c.Query("search")

	// Validate and set defaults
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Sort:   sort,
		Order:  order,
		Search: search,
	}
}

// ParsePageNumber reads a 1-based page number. Anything that is not a number
// falls back to the first page.
func ParsePageNumber(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// ClampPage resolves requested against total rows. Pages below 1 become 1,
// pages past the end become the last page, and an empty listing is page 1
// of 1.
func ClampPage(requested int, total int64, size int) Page {
	if size < 1 {
		size = CatalogPageSize
	}

	totalPages := int(math.Ceil(float64(total) / float64(size)))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	offset := (params.Page - 1) * params.Limit
	return db.Offset(offset).Limit(params.Limit)
}

func ApplySort(db *gorm.DB, params PaginationParams, allowedSortFields []string) *gorm.DB {
	// Validate sort field
	sortField := params.Sort
	validSort := false
	for _, field := range allowedSortFields {
		if field == sortField {
			validSort = true
			break
		}
	}

	if !validSort {
		sortField = "created_at"
	}
	order := params.Order
	if order != "asc" {
		order = "desc"
	}

	return db.Order(sortField + " " + order).Order("id " + order)
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	limit := params.Limit
	if limit < 1 {
		limit = 20
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return PaginationResult{
		Page:       params.Page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}

func SetPageHeaders(c *gin.Context, page Page) {
	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.Header("X-Page", strconv.Itoa(page.Number))
	c.Header("X-Per-Page", strconv.Itoa(page.Size))
	c.Header("X-Total-Pages", strconv.Itoa(page.TotalPages))
}
