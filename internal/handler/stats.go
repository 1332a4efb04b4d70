package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StockStatusByShop reports, per shop, how many products sit in each
// stock status, plus catalog-wide totals. Used by the admin dashboard to
// spot scrapers that stopped refreshing a shop.
func (h *ProductHandler) StockStatusByShop(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	shops, err := h.Products.StockStatusByShop(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if len(shops) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no products found"})
	}

	statuses, err := h.Products.DistinctStockStatuses(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var totalProducts int64
	for _, s := range shops {
		totalProducts += s.Count
	}

	return c.JSON(http.StatusOK, echo.Map{
		"shops":               shops,
		"totalShops":          len(shops),
		"totalProducts":       totalProducts,
		"uniqueStockStatuses": statuses,
	})
}
