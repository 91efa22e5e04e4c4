package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	MAX_PAGE_SIZE     = 100
	DEFAULT_PAGE_SIZE = 20
)

type BaseModel struct {
	ID        uint      `json:"id,omitempty" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Paging struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Pages int64 `json:"pages"`
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, pageSize = normalizePage(page, pageSize)

		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}

	switch {
	case pageSize > MAX_PAGE_SIZE:
		pageSize = MAX_PAGE_SIZE
	case pageSize <= 0:
		pageSize = DEFAULT_PAGE_SIZE
	}

	return page, pageSize
}

func newPaging(page, pageSize int, total int64) *Paging {
	page, pageSize = normalizePage(page, pageSize)
	paging := &Paging{Page: int64(page), Total: total}

	paging.Pages = int64(math.Ceil(float64(paging.Total) / float64(pageSize)))
	if paging.Pages == 0 {
		paging.Pages = 1
	}

	return paging
}
