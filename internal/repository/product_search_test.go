package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestNormalizedDefaults(t *testing.T) {
	q := SearchQuery{}.normalized()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.Limit)

	q = SearchQuery{Page: -3, Limit: 0}.normalized()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 12, q.Limit)

	// Explicit values pass through, including oversized limits.
	q = SearchQuery{Page: 4, Limit: 500}.normalized()
	assert.Equal(t, 4, q.Page)
	assert.Equal(t, 500, q.Limit)
}

func TestBuildFilterEmpty(t *testing.T) {
	cond, args := buildFilter(SearchQuery{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)
}

func TestBuildFilterCombines(t *testing.T) {
	cond, args := buildFilter(SearchQuery{
		Category:    "Computers",
		Subcategory: "Laptops",
		Shop:        "example",
		StockStatus: "In Stock",
		Brands:      []string{"Acme", "Globex"},
		MinPrice:    f(100),
		MaxPrice:    f(2000),
		Search:      "GAMING",
	})

	assert.Equal(t,
		"category = ? AND subcategory = ? AND shop = ? AND LOWER(stock_status) LIKE ?"+
			" AND brand IN (?,?) AND price >= ? AND price <= ? AND LOWER(name) LIKE ?",
		cond)
	assert.Equal(t, []any{
		"Computers", "Laptops", "example", "%in stock%",
		"Acme", "Globex", 100.0, 2000.0, "%gaming%",
	}, args)
}

func TestBuildFilterPriceBoundsAreInclusiveOperators(t *testing.T) {
	cond, args := buildFilter(SearchQuery{MinPrice: f(50)})
	assert.Equal(t, "price >= ?", cond)
	assert.Equal(t, []any{50.0}, args)

	cond, args = buildFilter(SearchQuery{MaxPrice: f(50)})
	assert.Equal(t, "price <= ?", cond)
	assert.Equal(t, []any{50.0}, args)
}

func TestOrderClause(t *testing.T) {
	cases := map[string]string{
		SortDateHigh:       "updated_at DESC",
		SortDateLow:        "updated_at ASC",
		SortPriceHigh:      "price DESC",
		SortPriceLow:       "price ASC",
		SortPopularityHigh: "total_favorites DESC",
		SortPopularityLow:  "total_favorites ASC",
		SortViewsHigh:      "total_clicks DESC",
		SortViewsLow:       "total_clicks ASC",
		"":                 "updated_at DESC",
		"price":            "updated_at DESC", // unknown keys fall back
	}
	for key, want := range cases {
		assert.Equal(t, want, orderClause(key), "sort key %q", key)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 12))
	assert.Equal(t, 1, totalPages(1, 12))
	assert.Equal(t, 1, totalPages(12, 12))
	assert.Equal(t, 2, totalPages(13, 12))
	// 25 products at the default page size span 3 pages.
	assert.Equal(t, 3, totalPages(25, 12))
	assert.Equal(t, 25, totalPages(25, 1))
}

func TestPageOffsetMath(t *testing.T) {
	// Search computes offset = (page-1)*limit after normalization; page 2
	// of a 25-product catalog at the default size starts at row 12.
	q := SearchQuery{Page: 2}.normalized()
	require.Equal(t, 12, (q.Page-1)*q.Limit)

	q = SearchQuery{}.normalized()
	require.Equal(t, 0, (q.Page-1)*q.Limit)
}
