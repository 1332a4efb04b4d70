package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mahirlabib/pricescope/internal/model"
	"github.com/mahirlabib/pricescope/internal/repository"
)

// AdminUserHandler is the admin-only view of the accounts table.
type AdminUserHandler struct {
	Users *repository.UserRepo
}

func NewAdminUserHandler(u *repository.UserRepo) *AdminUserHandler {
	return &AdminUserHandler{Users: u}
}

func pageParams(c echo.Context, defLimit int) (int, int) {
	page, limit := 1, defLimit
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n > 0 {
		limit = n
	}
	return page, limit
}

// searchPageParams decides the search paging mode: without paging
// parameters the full match set comes back in one page (limit 0 disables
// pagination in the repository); supplying either page or limit switches
// to paginated mode with the usual defaults.
func searchPageParams(c echo.Context) (int, int) {
	if c.QueryParam("limit") == "" && c.QueryParam("page") == "" {
		return 1, 0
	}
	return pageParams(c, 10)
}

func userPageResp(c echo.Context, users []model.User, total int64, page, limit int) error {
	if len(users) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no users found"})
	}
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{
		"users":          users,
		"currentPage":    page,
		"totalPages":     totalPages,
		"totalUsers":     total,
		"resultsPerPage": limit,
	}})
}

// ListUsers pages through every account.
func (h *AdminUserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page, limit := pageParams(c, 10)
	users, total, err := h.Users.List(ctx, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return userPageResp(c, users, total, page, limit)
}

// SearchUsers matches one term against name, username and email. Without
// a limit parameter the full match set comes back in one page.
func (h *AdminUserHandler) SearchUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	term := strings.TrimSpace(c.QueryParam("search"))
	page, limit := searchPageParams(c)

	users, total, err := h.Users.SearchAny(ctx, term, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if limit <= 0 {
		limit = len(users)
		if limit == 0 {
			limit = 1
		}
	}
	return userPageResp(c, users, total, page, limit)
}

// GetUser fetches one account by id.
func (h *AdminUserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// UpdateUser edits another account's profile fields without a password
// confirmation; the role check at the route gate is the authorization.
func (h *AdminUserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if v := strings.TrimSpace(req.Username); v != "" {
		u.Username = v
	}
	if v := strings.ToLower(strings.TrimSpace(req.Email)); v != "" {
		u.Email = v
	}

	if err := h.Users.UpdateProfile(ctx, &u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is already taken"})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated successfully", "user": u})
}

// DeleteUser removes another account by id.
func (h *AdminUserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted successfully"})
}
