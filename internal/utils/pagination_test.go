package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/grantbridge/grant-management-api/internal/constants"
)

func paginationContext(t *testing.T, url string) *gin.Context {
	t.Helper()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, url, nil)
	return c
}

func TestGetPaginationParams_ClampsInvalidValues(t *testing.T) {
	c := paginationContext(t, "/api/queue/gm?page=0&limit=9999")
	params := GetPaginationParams(c)
	require.Equal(t, constants.MinPageSize, params.Page)
	require.Equal(t, constants.DefaultPageSize, params.Limit)

	c = paginationContext(t, "/api/queue/gm")
	params = GetPaginationParams(c)
	require.Equal(t, 1, params.Page)
	require.Equal(t, constants.DefaultPageSize, params.Limit)
}

func TestBounds_WindowsWithinSlice(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 2}
	lo, hi := p.Bounds(5)
	require.Equal(t, 0, lo)
	require.Equal(t, 2, hi)

	// Last partial page.
	p = PaginationParams{Page: 3, Limit: 2}
	lo, hi = p.Bounds(5)
	require.Equal(t, 4, lo)
	require.Equal(t, 5, hi)

	// Past the end: empty window, no out-of-range indexes.
	p = PaginationParams{Page: 4, Limit: 2}
	lo, hi = p.Bounds(5)
	require.Equal(t, 5, lo)
	require.Equal(t, 5, hi)

	p = PaginationParams{Page: 1, Limit: 20}
	lo, hi = p.Bounds(0)
	require.Equal(t, 0, lo)
	require.Equal(t, 0, hi)
}
