package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// parseDateTime parses a datetime string in various formats
func parseDateTime(s string) (time.Time, error) {
	// Try RFC3339 first
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Try ISO date format
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	// Try datetime without timezone
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	// Default to RFC3339 parsing error
	return time.Parse(time.RFC3339, s)
}

// bindListFilter builds a domain filter from common list query parameters.
// Extra filter keys name query parameters copied verbatim into the
// repository filter map when present.
func bindListFilter(c *gin.Context, extraKeys ...string) (shared.Filter, error) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	for _, key := range extraKeys {
		value := c.Query(key)
		if value == "" {
			continue
		}
		if filter.Filters == nil {
			filter.Filters = make(map[string]interface{})
		}
		if parsed, err := strconv.ParseBool(value); err == nil && (value == "true" || value == "false") {
			filter.Filters[key] = parsed
			continue
		}
		filter.Filters[key] = value
	}

	return filter, nil
}
