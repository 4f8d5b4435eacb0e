package handlers

import (
	"net/http"

	"gallery-auction/internal/domain"
	"gallery-auction/internal/services"
	"gallery-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	auth *services.AuthService
	log  logger.Logger
}

func NewAuthHandler(auth *services.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type LoginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type AdminCodeRequest struct {
	Code string `json:"code"`
}

type UpdateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}

	user, err := h.auth.Authenticate(c.Request().Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CheckAdminCode gates the admin login screen with the shared access code.
func (h *AuthHandler) CheckAdminCode(c echo.Context) error {
	var req AdminCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if !h.auth.CheckAdminCode(req.Code) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Invalid access code"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user, err := h.auth.UpdateUser(c.Request().Context(), c.Param("id"), services.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, user)
}
