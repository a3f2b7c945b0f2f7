package pkg

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mechashelf/admin/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "id:desc"
)

// reservedParams are query keys with pagination meaning; everything else in
// the query string is treated as a filter.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"sort":      true,
}

// validFieldName keeps column names to letters, digits, and underscores so a
// query key can never smuggle SQL into an ORDER BY or WHERE clause.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParsePageRequest reads page, page_size, sort, and filter parameters from
// the query string, clamping out-of-range values to the defaults. The
// activity log's list endpoints feed this straight into the GORM scopes
// below.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	sort := c.DefaultQuery("sort", defaultSort)

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
		Filter:   filter,
	}
}

// Paginate is a GORM scope applying LIMIT/OFFSET for the requested page.
func Paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (req.Page - 1) * req.PageSize
		return db.Offset(offset).Limit(req.PageSize)
	}
}

// Sort is a GORM scope applying ORDER BY from a "field:direction" value.
// Malformed values, unknown directions, and fields outside the allowed list
// are silently ignored, leaving the query's natural order.
func Sort(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		parts := strings.SplitN(req.Sort, ":", 2)
		if len(parts) != 2 {
			return db
		}

		field := strings.TrimSpace(parts[0])
		direction := strings.TrimSpace(strings.ToLower(parts[1]))

		if direction != "asc" && direction != "desc" {
			return db
		}
		if !filterableField(field, allowed) {
			return db
		}

		return db.Order(field + " " + direction)
	}
}

// Filter is a GORM scope applying WHERE conditions from the request's filter
// map. A key with a "__like" suffix becomes LIKE '%value%'; anything else is
// an exact match. Keys outside the allowed list are silently dropped.
func Filter(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range req.Filter {
			if field, ok := strings.CutSuffix(key, "__like"); ok {
				if filterableField(field, allowed) {
					db = db.Where(field+" LIKE ?", "%"+value+"%")
				}
				continue
			}
			if filterableField(key, allowed) {
				db = db.Where(key+" = ?", value)
			}
		}
		return db
	}
}

// filterableField gates a field for use in a SQL clause: it must both look
// like a column name and be explicitly allowed by the caller.
func filterableField(field string, allowed []string) bool {
	return validFieldName.MatchString(field) && isAllowed(field, allowed)
}

// NewPageResult assembles a PageResult, computing TotalPages and normalizing
// nil items to an empty slice so JSON renders [] rather than null.
func NewPageResult[T any](items []T, total int64, req domain.PageRequest) *domain.PageResult[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}

	if items == nil {
		items = []T{}
	}

	return &domain.PageResult[T]{
		Items:        items,
		TotalItems:   total,
		CurrentPage:  req.Page,
		ItemsPerPage: req.PageSize,
		TotalPages:   totalPages,
	}
}

func isAllowed(field string, allowed []string) bool {
	return slices.Contains(allowed, field)
}
