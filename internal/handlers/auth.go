package handlers

import (
	"net/http"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.CredentialsInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if input.Username == "" || input.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.authService.Login(ctx, input)
	if err != nil {
		return domainError(err, "failed to login")
	}

	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) RegisterOperator(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.CredentialsInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	operator, err := h.authService.Register(ctx, input)
	if err != nil {
		return domainError(err, "failed to register operator")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"operator": operator.ToResponse(),
	})
}
