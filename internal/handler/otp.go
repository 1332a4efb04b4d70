package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mahirlabib/pricescope/internal/queue"
	"github.com/mahirlabib/pricescope/internal/repository"
	"github.com/mahirlabib/pricescope/internal/service"
	"github.com/mahirlabib/pricescope/internal/utils"
)

// OTP endpoints. One live code per email: regenerating overwrites the
// previous record, the Redis TTL handles expiry. Delivery goes through the
// mail queue; this process never sends email itself.

type otpReq struct {
	FirstName string `json:"firstName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

type otpVerifyReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	OTP      string `json:"otp"`
}

// SendEmailVerificationOTP issues a code for a new registration. It
// refuses addresses or usernames that already belong to an account, so the
// register flow fails fast instead of at the unique index.
func (h *AuthHandler) SendEmailVerificationOTP(c echo.Context) error {
	var req otpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	existing, err := h.Users.GetByLogin(ctx, req.Email, req.Username)
	if err == nil {
		if existing.Email == req.Email {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return h.issueOTP(c, req.Email, req.FirstName, "verify email")
}

// SendPasswordResetOTP issues a code for an existing account, looked up by
// email or username.
func (h *AuthHandler) SendPasswordResetOTP(c echo.Context) error {
	var req otpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" && req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email or username is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, req.Email, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return h.issueOTP(c, u.Email, u.FirstName, "reset password")
}

func (h *AuthHandler) issueOTP(c echo.Context, email, firstName, procedure string) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	code, err := utils.GenerateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate OTP failed"})
	}
	ttl := time.Duration(h.Cfg.OTPTTLMin) * time.Minute
	if err := h.OTPs.Put(ctx, email, code, ttl); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store OTP failed"})
	}

	// Mail delivery failing should not invalidate the stored code; the
	// client can request a resend.
	if err := service.PublishOTPEmail(ctx, queue.OTPEmailEvent{
		Email:     email,
		FirstName: firstName,
		OTP:       code,
		Procedure: procedure,
		ExpiresIn: int(ttl.Seconds()),
	}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send OTP failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to your email"})
}

// VerifyPasswordResetOTP checks the code for the account, consumes it and
// returns a token pair so the client can call the protected reset-password
// endpoint.
func (h *AuthHandler) VerifyPasswordResetOTP(c echo.Context) error {
	var req otpVerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByLogin(ctx, req.Email, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email or username"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	code, err := h.OTPs.Get(ctx, u.Email)
	if err != nil || code != req.OTP {
		// Expired codes disappear from the store, so "expired" and
		// "wrong" both land here.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid OTP, please try again"})
	}
	_ = h.OTPs.Consume(ctx, u.Email)

	return h.issuePair(c, ctx, u, http.StatusOK)
}
