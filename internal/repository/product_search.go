package repository

import (
	"context"
	"strings"

	"github.com/mahirlabib/pricescope/internal/model"
)

// DefaultPageSize is applied when a search request carries no limit.
const DefaultPageSize = 12

// Recognized sort keys. Anything else falls back to SortDateHigh, i.e.
// most recently updated first.
const (
	SortDateHigh       = "date-high"
	SortDateLow        = "date-low"
	SortPriceHigh      = "price-high"
	SortPriceLow       = "price-low"
	SortPopularityHigh = "popularity-high"
	SortPopularityLow  = "popularity-low"
	SortViewsHigh      = "views-high"
	SortViewsLow       = "views-low"
)

// SearchQuery defines filters, sorting and pagination for the catalog.
// Zero values mean "no constraint" except Page/Limit, which are defaulted.
type SearchQuery struct {
	Category    string
	Subcategory string
	Shop        string
	StockStatus string   // case-insensitive substring match
	Brands      []string // product matches when its brand is any member
	MinPrice    *float64 // inclusive bound; nil = unbounded
	MaxPrice    *float64
	Search      string // case-insensitive match on the product name
	SortBy      string
	Page        int
	Limit       int
}

// SearchResult is one page of the catalog plus the pagination math the
// clients render: totalPages = ceil(total/limit).
type SearchResult struct {
	Products   []model.Product
	Total      int64
	TotalPages int
	Page       int
	Limit      int
}

// normalized returns q with pagination defaults applied: pages are
// 1-based, the default page size is 12. No upper bound is enforced on
// Limit.
func (q SearchQuery) normalized() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	return q
}

// buildFilter translates the query into a WHERE condition and its
// arguments. An unconstrained query yields "1=1".
func buildFilter(q SearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if q.Subcategory != "" {
		where = append(where, "subcategory = ?")
		args = append(args, q.Subcategory)
	}
	if q.Shop != "" {
		where = append(where, "shop = ?")
		args = append(args, q.Shop)
	}
	if q.StockStatus != "" {
		where = append(where, "LOWER(stock_status) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.StockStatus)+"%")
	}
	if len(q.Brands) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?,", len(q.Brands)), ",")
		where = append(where, "brand IN ("+ph+")")
		for _, b := range q.Brands {
			args = append(args, b)
		}
	}
	if q.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.Search != "" {
		// Name only; brand and model are indexed for text search but
		// the filter path does not consult them.
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// orderClause maps a sort key onto an ORDER BY expression. Ties are left
// to storage order; relative order of equal keys is not guaranteed stable
// across identical queries.
func orderClause(sortBy string) string {
	switch sortBy {
	case SortDateLow:
		return "updated_at ASC"
	case SortPriceHigh:
		return "price DESC"
	case SortPriceLow:
		return "price ASC"
	case SortPopularityHigh:
		return "total_favorites DESC"
	case SortPopularityLow:
		return "total_favorites ASC"
	case SortViewsHigh:
		return "total_clicks DESC"
	case SortViewsLow:
		return "total_clicks ASC"
	default: // SortDateHigh and anything unrecognized
		return "updated_at DESC"
	}
}

// totalPages computes ceil(total/limit) without importing math.
func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Search runs the filtered, sorted, paginated catalog query: one COUNT
// over the filter, then one page fetch with LIMIT/OFFSET where
// offset = (page-1)*limit. A page past the end comes back empty with the
// counts still filled in; the handler decides how to report zero matches.
func (r *ProductRepo) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	q = q.normalized()
	cond, args := buildFilter(q)

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE "+cond, args...).Scan(&total); err != nil {
		return SearchResult{}, err
	}

	offset := (q.Page - 1) * q.Limit
	dataSQL := "SELECT " + productColumns + " FROM products WHERE " + cond +
		" ORDER BY " + orderClause(q.SortBy) + " LIMIT ? OFFSET ?"
	dataArgs := append(append([]any{}, args...), q.Limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, dataArgs...)
	if err != nil {
		return SearchResult{}, err
	}
	defer rows.Close()

	products := make([]model.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return SearchResult{}, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return SearchResult{}, err
	}

	return SearchResult{
		Products:   products,
		Total:      total,
		TotalPages: totalPages(total, q.Limit),
		Page:       q.Page,
		Limit:      q.Limit,
	}, nil
}
