package handlers

import (
	"errors"
	"net/http"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

// respondError maps a service error onto an HTTP status with a JSON error
// body. Unknown errors are logged and reported as a plain 500 so internals
// never leak to the client.
func respondError(c echo.Context, log logger.Logger, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": vErr.Error()})
	}

	var rejection *domain.BidRejection
	if errors.As(err, &rejection) {
		body := map[string]interface{}{
			"error":  rejection.Error(),
			"reason": string(rejection.Reason),
		}
		if rejection.Reason == domain.RejectBidTooLow {
			body["current_price"] = rejection.CurrentPrice
		}
		return c.JSON(http.StatusConflict, body)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	case errors.Is(err, domain.ErrNotConfigured):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Auction window not configured"})
	case errors.Is(err, domain.ErrEmailTaken):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already registered"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrRoleMismatch):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Account exists with a different role"})
	}

	log.Error("Request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
