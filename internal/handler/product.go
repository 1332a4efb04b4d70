package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mahirlabib/pricescope/internal/model"
	"github.com/mahirlabib/pricescope/internal/queue"
	"github.com/mahirlabib/pricescope/internal/repository"
	"github.com/mahirlabib/pricescope/internal/service"
)

// ProductHandler serves the catalog: public browsing plus the admin-side
// mutations and the scraper upsert feed.
type ProductHandler struct {
	Products *repository.ProductRepo
}

func NewProductHandler(p *repository.ProductRepo) *ProductHandler {
	return &ProductHandler{Products: p}
}

func productID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// GetProduct returns one product by id and bumps its click counter. A
// failed counter bump is logged and swallowed: losing a view count must
// not break the detail page.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Products.IncrementClicks(ctx, id); err != nil {
		log.Printf("catalog: click count for product %d not recorded: %v", id, err)
	} else {
		p.TotalClicks++
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProduct inserts a catalog entry directly (admin). The upsert feed
// is the usual write path; this exists for manual additions.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var p model.Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := p.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	p.PriceTimeline = nil // starts empty regardless of payload

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Products.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrURLExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product url already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	saved, err := h.Products.GetByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "product created successfully", "data": saved})
}

// UpdateProduct overwrites a product by id (admin). This path does not
// touch the price timeline; only the upsert feed records price history.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var in model.Product
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := in.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	timeline := p.PriceTimeline // preserved verbatim
	in.ID = p.ID
	in.PriceTimeline = timeline
	if err := h.Products.Update(ctx, &in); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	saved, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load product failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "product updated successfully", "data": saved})
}

// UpsertProduct is the scraper feed: create-if-absent, update-if-present
// keyed by url. On update the superseded price lands on the timeline and,
// when the price actually moved, a price-change event goes out to the
// broker. Publish failures only get logged: the audit trail is best
// effort, the catalog write is not.
func (h *ProductHandler) UpsertProduct(c echo.Context) error {
	var in model.Product
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := in.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	in.PriceTimeline = nil

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := time.Now().UTC()
	saved, oldPrice, created, err := h.Products.UpsertByURL(ctx, in, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save product failed"})
	}

	if !created && oldPrice != saved.Price {
		_ = service.PublishPriceChanged(ctx, queue.PriceChangedEvent{
			ProductID: saved.ID,
			URL:       saved.URL,
			Name:      saved.Name,
			Shop:      saved.Shop,
			OldPrice:  oldPrice,
			NewPrice:  saved.Price,
			ChangedAt: now.Format(time.RFC3339),
		})
	}

	msg := "product updated successfully"
	if created {
		msg = "product created successfully"
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": msg, "data": saved})
}

// DeleteProduct removes a product by id (admin).
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBrands lists the distinct brands for the filter sidebar.
func (h *ProductHandler) GetBrands(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	brands, err := h.Products.Brands(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if brands == nil {
		brands = []string{}
	}
	return c.JSON(http.StatusOK, brands)
}

// GetCategories maps categories to their subcategories for navigation.
func (h *ProductHandler) GetCategories(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	tree, err := h.Products.CategoryTree(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tree)
}
