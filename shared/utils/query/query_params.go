package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination holds normalised page/limit values
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// NormalizePagination clamps page and limit into their allowed ranges
func NormalizePagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// ParsePagination extracts page and limit from the query string
func ParsePagination(c *gin.Context) Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	return NormalizePagination(page, limit)
}

// FirstQuery returns the first non-empty value among the given query keys
func FirstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			return v
		}
	}
	return ""
}

// ApplyFilters applies exact-match filters to a GORM query
func ApplyFilters(query *gorm.DB, filters map[string]string) *gorm.DB {
	for dbField, value := range filters {
		if value != "" {
			query = query.Where(fmt.Sprintf("%s = ?", dbField), value)
		}
	}
	return query
}

// ApplySearch applies a case-insensitive substring match to specified fields
func ApplySearch(query *gorm.DB, search string, searchFields []string) *gorm.DB {
	if search == "" || len(searchFields) == 0 {
		return query
	}

	conditions := make([]string, len(searchFields))
	args := make([]interface{}, len(searchFields))

	for i, field := range searchFields {
		conditions[i] = fmt.Sprintf("%s ILIKE ?", field)
		args[i] = "%" + escapeLike(search) + "%"
	}

	return query.Where(strings.Join(conditions, " OR "), args...)
}

// ApplyPagination applies pagination to a GORM query
func ApplyPagination(query *gorm.DB, p Pagination) *gorm.DB {
	return query.Offset(p.Offset()).Limit(p.Limit)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
