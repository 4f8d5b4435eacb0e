package handlers

import (
	"net/http"

	"gallery-auction/internal/services"
	"gallery-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	payments *services.PaymentService
	log      logger.Logger
}

func NewPaymentHandler(payments *services.PaymentService, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

type CheckoutRequest struct {
	BidderName string `json:"bidder_name"`
	Bank       string `json:"bank"`
}

// Summary lists the bidder's won artworks with the total owed.
func (h *PaymentHandler) Summary(c echo.Context) error {
	bidder := c.QueryParam("bidder")
	if bidder == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Bidder name required"})
	}

	summary, err := h.payments.Summary(c.Request().Context(), bidder)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *PaymentHandler) Banks(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"banks": h.payments.Banks()})
}

// Checkout resolves the chosen bank to its redirect URL. The actual
// payment happens on the bank's site; nothing is charged here.
func (h *PaymentHandler) Checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	redirect, err := h.payments.Checkout(c.Request().Context(), req.BidderName, req.Bank)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"redirect_url": redirect})
}
