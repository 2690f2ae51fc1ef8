package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grantbridge/grant-management-api/internal/constants"
)

// PaginationParams is the page window requested for a queue listing.
// The queue is aggregated in full before paging, so the window is
// applied as slice bounds rather than SQL offsets.
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// Bounds clamps the page window onto a slice of length n. A page past
// the end yields an empty window, never an out-of-range index.
func (p PaginationParams) Bounds(n int) (int, int) {
	lo := (p.Page - 1) * p.Limit
	if lo > n {
		lo = n
	}
	hi := lo + p.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}
