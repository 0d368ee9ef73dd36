package repos

import (
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
)

// sortable whitelists the columns a caller may sort on. Anything outside the
// map falls back to created_at so request input never reaches ORDER BY raw.
func orderClause(req paging.Request, sortable map[string]string, fallback string) string {
	col, ok := sortable[req.SortBy]
	if !ok {
		col = fallback
	}
	if req.SortDescending {
		return col + " DESC"
	}
	return col + " ASC"
}

func notDeleted(q *gorm.DB) *gorm.DB {
	return q.Where("is_deleted = ?", false)
}

// pagedList runs the shared count-then-page sequence for list endpoints.
func pagedList[T any](q *gorm.DB, req paging.Request, order string) ([]T, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []T
	if err := q.
		Order(order).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
