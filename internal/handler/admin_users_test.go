package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func searchCtx(t *testing.T, rawQuery string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users/search?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

func TestSearchPageParams(t *testing.T) {
	// No paging parameters: everything in one page.
	page, limit := searchPageParams(searchCtx(t, "search=ali"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, limit)

	// Page alone must paginate with the default size, not fall back to
	// the full result set.
	page, limit = searchPageParams(searchCtx(t, "search=ali&page=2"))
	assert.Equal(t, 2, page)
	assert.Equal(t, 10, limit)

	page, limit = searchPageParams(searchCtx(t, "search=ali&limit=25"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, limit)

	page, limit = searchPageParams(searchCtx(t, "search=ali&page=3&limit=5"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, limit)
}
