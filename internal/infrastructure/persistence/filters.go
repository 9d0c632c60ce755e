package persistence

import (
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering from a shared.Filter-shaped
// input. OrderBy is validated against the per-entity whitelist before it is
// interpolated into the query.
func applyFilter(query *gorm.DB, page, pageSize int, orderBy, orderDir string, allowedFields map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(orderBy, allowedFields, defaultField)
	dir := ValidateSortOrder(orderDir)
	query = query.Order(field + " " + dir)

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		query = query.Offset(offset).Limit(pageSize)
	}

	return query
}
