package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mahirlabib/pricescope/internal/model"
	"github.com/mahirlabib/pricescope/internal/repository"
)

// filterResp is the catalog page contract: products plus the pagination
// numbers the storefront renders.
type filterResp struct {
	Products      []model.Product `json:"products"`
	TotalPages    int             `json:"totalPages"`
	CurrentPage   int             `json:"currentPage"`
	TotalProducts int64           `json:"totalProducts"`
	Limit         int             `json:"limit"`
}

// parseSearchQuery maps the request's query parameters onto a SearchQuery.
// Unparseable numbers are treated as absent, matching how the storefront
// has always sent them.
func parseSearchQuery(c echo.Context) repository.SearchQuery {
	q := repository.SearchQuery{
		Category:    c.QueryParam("category"),
		Subcategory: c.QueryParam("subcategory"),
		Shop:        c.QueryParam("shop"),
		StockStatus: c.QueryParam("stockStatus"),
		Search:      c.QueryParam("search"),
		SortBy:      c.QueryParam("sortBy"),
	}
	// brands arrives either repeated (?brands=a&brands=b) or as one CSV
	// value; both forms flatten into the same list.
	for _, v := range c.QueryParams()["brands"] {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				q.Brands = append(q.Brands, b)
			}
		}
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinPrice = &f
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MaxPrice = &f
		}
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	return q
}

// FilterProducts runs the filtered/sorted/paginated catalog query. Zero
// matches is reported as 404, not as an empty page; the storefront
// renders its error state from that contract.
func (h *ProductHandler) FilterProducts(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Products.Search(ctx, parseSearchQuery(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(res.Products) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no products found"})
	}
	return c.JSON(http.StatusOK, filterResp{
		Products:      res.Products,
		TotalPages:    res.TotalPages,
		CurrentPage:   res.Page,
		TotalProducts: res.Total,
		Limit:         res.Limit,
	})
}
