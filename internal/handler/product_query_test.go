package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahirlabib/pricescope/internal/repository"
)

func queryCtx(t *testing.T, rawQuery string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/products/filter?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

func TestParseSearchQuery(t *testing.T) {
	c := queryCtx(t, "category=Computers&subcategory=Laptops&shop=example"+
		"&stockStatus=In+Stock&brands=Acme,+Globex,&minPrice=99.5&maxPrice=2000"+
		"&search=gaming&sortBy=price-low&page=2&limit=24")

	q := parseSearchQuery(c)
	assert.Equal(t, "Computers", q.Category)
	assert.Equal(t, "Laptops", q.Subcategory)
	assert.Equal(t, "example", q.Shop)
	assert.Equal(t, "In Stock", q.StockStatus)
	assert.Equal(t, []string{"Acme", "Globex"}, q.Brands)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, 99.5, *q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, 2000.0, *q.MaxPrice)
	assert.Equal(t, "gaming", q.Search)
	assert.Equal(t, repository.SortPriceLow, q.SortBy)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 24, q.Limit)
}

func TestParseSearchQueryRepeatedBrandParams(t *testing.T) {
	q := parseSearchQuery(queryCtx(t, "brands=Acme&brands=Globex,Initech"))
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, q.Brands)
}

func TestParseSearchQueryEmpty(t *testing.T) {
	q := parseSearchQuery(queryCtx(t, ""))
	assert.Equal(t, repository.SearchQuery{}, q)
}

func TestParseSearchQueryIgnoresGarbageNumbers(t *testing.T) {
	q := parseSearchQuery(queryCtx(t, "minPrice=cheap&maxPrice=&page=two&limit=all"))
	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Zero(t, q.Page)
	assert.Zero(t, q.Limit)
}
