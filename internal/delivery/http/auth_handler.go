package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FilipeAphrody/loggate/internal/usecase"
)

// AuthHandler represents the HTTP delivery layer for the token lifecycle.
type AuthHandler struct {
	usecase *usecase.AuthUsecase
}

// NewAuthHandler registers the token lifecycle routes to the provided echo group.
func NewAuthHandler(e *echo.Group, u *usecase.AuthUsecase) {
	handler := &AuthHandler{usecase: u}

	e.POST("/token", handler.Login)
	e.POST("/token/refresh", handler.Refresh)
	e.POST("/logout", handler.Logout)
}

// refreshRequest defines the expected JSON payload for the refresh and
// logout endpoints.
type refreshRequest struct {
	Username     string `json:"username"`
	RefreshToken string `json:"refresh_token"`
}

// Login handles the password grant. The body is form-encoded
// (username, password), OAuth2 password-flow style.
func (h *AuthHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx := c.Request().Context()
	resp, err := h.usecase.Login(ctx, username, password)

	if err != nil {
		if errors.Is(err, usecase.ErrTooManyAttempts) {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": err.Error()})
		}

		if errors.Is(err, usecase.ErrInvalidCredentials) {
			c.Response().Header().Set("WWW-Authenticate", "Bearer")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a stored refresh token for a new access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	resp, err := h.usecase.Refresh(ctx, req.Username, req.RefreshToken)

	if err != nil {
		// A wrong token and an expired token are distinct outcomes; both
		// map to 401 but keep their own detail.
		if errors.Is(err, usecase.ErrInvalidRefreshToken) || errors.Is(err, usecase.ErrRefreshTokenExpired) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the stored refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	err := h.usecase.Logout(ctx, req.Username, req.RefreshToken)

	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRefreshToken) || errors.Is(err, usecase.ErrRefreshTokenExpired) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}
