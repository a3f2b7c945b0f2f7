package domain

import (
	"time"

	"github.com/simp-lee/pagination"
)

// BaseModel is the common base struct for locally persisted models.
// It deliberately omits gorm.Model's DeletedAt to avoid implicit soft delete.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageRequest holds pagination, sorting, and filtering parameters for local
// list queries.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string            // "field:asc" or "field:desc"
	Filter   map[string]string // field -> value; "field__like" for substring match
}

// PageResult is the paginated result envelope for local list queries.
type PageResult[T any] = pagination.Pagination[T]
