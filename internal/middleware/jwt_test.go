package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahirlabib/pricescope/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, uint64, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var uid uint64
	var role string
	h := func(c echo.Context) error {
		uid = UserID(c)
		role, _ = c.Get(CtxRole).(string)
		return c.NoContent(http.StatusOK)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	require.NoError(t, h(c))
	return rec, uid, role
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "user", 15)
	require.NoError(t, err)

	rec, uid, role := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "user", role)
}

func TestJWTAuthRejects(t *testing.T) {
	valid, err := utils.NewAccessToken(testSecret, 1, "user", 15)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other-secret", 1, "user", 15)
	require.NoError(t, err)
	expired, err := utils.NewAccessToken(testSecret, 1, "user", -5)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Token " + valid.Token,
		"wrong secret":   "Bearer " + foreign.Token,
		"expired":        "Bearer " + expired.Token,
		"garbage":        "Bearer not.a.jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, uid, _ := runProtected(t, header, JWTAuth(testSecret))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, uid)
		})
	}
}

func TestRequireRole(t *testing.T) {
	admin, err := utils.NewAccessToken(testSecret, 7, "admin", 15)
	require.NoError(t, err)
	user, err := utils.NewAccessToken(testSecret, 8, "user", 15)
	require.NoError(t, err)

	rec, _, _ := runProtected(t, "Bearer "+admin.Token, JWTAuth(testSecret), RequireRole("admin"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _, _ = runProtected(t, "Bearer "+user.Token, JWTAuth(testSecret), RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// RequireRole without JWTAuth sees no role at all.
	rec, _, _ = runProtected(t, "", RequireRole("admin"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
