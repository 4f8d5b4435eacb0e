package handlers

import (
	"net/http"
	"time"

	"gallery-auction/internal/services"
	"gallery-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AuctionHandler struct {
	auction *services.AuctionService
	log     logger.Logger
}

func NewAuctionHandler(auction *services.AuctionService, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{auction: auction, log: log}
}

type ConfigureWindowRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Status returns the configured window with its state and, while active,
// the countdown.
func (h *AuctionHandler) Status(c echo.Context) error {
	status, err := h.auction.Status(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, status)
}

// Configure overwrites the auction window from the admin form.
func (h *AuctionHandler) Configure(c echo.Context) error {
	var req ConfigureWindowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	cfg, err := h.auction.Configure(c.Request().Context(), req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, cfg)
}
