package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mahirlabib/pricescope/internal/middleware"
	"github.com/mahirlabib/pricescope/internal/model"
	"github.com/mahirlabib/pricescope/internal/repository"
)

// ListHandler serves the per-user product lists: favorites, wishlist and
// the compare tray. Every endpoint is a toggle, so membership decides
// whether the call adds or removes. Each toggle is a read-modify-write on
// the user row; the favorite toggle additionally moves the product's
// denormalized counter in a second, independent write (no transaction
// spans the two, see AdjustFavorites).
type ListHandler struct {
	Users    *repository.UserRepo
	Products *repository.ProductRepo
}

func NewListHandler(u *repository.UserRepo, p *repository.ProductRepo) *ListHandler {
	return &ListHandler{Users: u, Products: p}
}

type toggleReq struct {
	ProductID     uint64  `json:"productId"`
	ExpectedPrice float64 `json:"expectedPrice"` // wishlist only
}

// loadOwner binds the toggle request and fetches the calling user.
func (h *ListHandler) loadOwner(c echo.Context, req *toggleReq) (model.User, bool) {
	if err := c.Bind(req); err != nil || req.ProductID == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "productId required"})
		return model.User{}, false
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return model.User{}, false
	}
	return u, true
}

// ToggleFavorite flips favorite membership and keeps the product's
// favorite counter in step. The counter write happens after the list
// write; if it fails the toggle reports failure even though the list
// already moved, because a silently drifting counter is worse than a
// retried toggle.
func (h *ListHandler) ToggleFavorite(c echo.Context) error {
	var req toggleReq
	u, ok := h.loadOwner(c, &req)
	if !ok {
		return nil
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, added := model.ToggleFavorite(u.FavoriteList, req.ProductID)
	if err := h.Users.SaveFavorites(ctx, u.ID, list); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save favorites failed"})
	}

	if err := h.Products.AdjustFavorites(ctx, req.ProductID, model.FavoriteDelta(added)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update favorite count failed"})
	}

	msg := "product removed from favorites"
	if added {
		msg = "product added to favorites"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "favoriteList": list})
}

// ToggleWishlist flips wishlist membership. Adding requires a positive
// expected price; toggling an existing entry removes it even when the
// request carries a different price. The stored price is never updated
// in place.
func (h *ListHandler) ToggleWishlist(c echo.Context) error {
	var req toggleReq
	u, ok := h.loadOwner(c, &req)
	if !ok {
		return nil
	}

	list, added, err := model.ToggleWishlist(u.WishlistSet, req.ProductID, req.ExpectedPrice)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "expected price must be greater than zero"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SaveWishlist(ctx, u.ID, list); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save wishlist failed"})
	}

	msg := "product removed from wishlist"
	if added {
		msg = "product added to wishlist"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "wishlist": list})
}

// ToggleCompare flips compare membership, refusing a third member.
func (h *ListHandler) ToggleCompare(c echo.Context) error {
	var req toggleReq
	u, ok := h.loadOwner(c, &req)
	if !ok {
		return nil
	}

	list, added, err := model.ToggleCompare(u.Compares, req.ProductID)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "You can only compare up to 2 products"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.SaveCompares(ctx, u.ID, list); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save compares failed"})
	}

	msg := "product removed from comparison"
	if added {
		msg = "product added to comparison"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg, "compares": list})
}

// wishlistItem is a wishlist entry with the product record populated.
type wishlistItem struct {
	Product       model.Product `json:"product"`
	ExpectedPrice float64       `json:"expectedPrice"`
	Notified      bool          `json:"notified"`
}

// GetUserLists returns the three lists with product records populated.
// References to deleted products are dropped from the response rather
// than erroring; the stored lists are left as-is.
func (h *ListHandler) GetUserLists(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	favorites, err := h.Products.GetManyByIDs(ctx, u.FavoriteList)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load favorites failed"})
	}
	compares, err := h.Products.GetManyByIDs(ctx, u.Compares)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load compares failed"})
	}

	wishIDs := make([]uint64, len(u.WishlistSet))
	for i, e := range u.WishlistSet {
		wishIDs[i] = e.ProductID
	}
	wishProducts, err := h.Products.GetManyByIDs(ctx, wishIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load wishlist failed"})
	}
	byID := make(map[uint64]model.Product, len(wishProducts))
	for _, p := range wishProducts {
		byID[p.ID] = p
	}
	wishlist := make([]wishlistItem, 0, len(u.WishlistSet))
	for _, e := range u.WishlistSet {
		if p, ok := byID[e.ProductID]; ok {
			wishlist = append(wishlist, wishlistItem{Product: p, ExpectedPrice: e.ExpectedPrice, Notified: e.Notified})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"favoriteList": favorites,
		"wishlist":     wishlist,
		"compares":     compares,
	})
}
