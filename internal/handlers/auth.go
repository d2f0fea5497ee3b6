package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/auracommerce/storefront/internal/auth"
	"github.com/auracommerce/storefront/internal/logging"
	"github.com/auracommerce/storefront/internal/middleware"
)

type AuthHandler struct {
	Auth *auth.Service
}

func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, auth.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "operation failed")
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		LastName string `json:"lastName"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and name are required")
	}

	profile, err := h.Auth.Register(ctx, req.Email, req.Password, req.Name, req.LastName)
	if err != nil {
		return authError(err)
	}

	token, err := h.Auth.SessionToken(ctx)
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"user": profile, "token": token})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	profile, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return authError(err)
	}

	token, err := h.Auth.SessionToken(ctx)
	if err != nil {
		return authError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"user": profile, "token": token})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context()); err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	profile, err := h.Auth.CurrentUser(c.Request().Context())
	if err != nil {
		return authError(err)
	}
	if profile == nil {
		return c.JSON(http.StatusOK, map[string]any{"user": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"user": profile})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var patch auth.ProfilePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	profile, err := h.Auth.UpdateProfile(ctx, middleware.UserID(c), patch)
	if err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"user": profile})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "new password is required")
	}

	if err := h.Auth.ChangePassword(ctx, middleware.UserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return authError(err)
	}

	token, err := h.Auth.SessionToken(ctx)
	if err != nil {
		return authError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "password changed", "token": token})
}
