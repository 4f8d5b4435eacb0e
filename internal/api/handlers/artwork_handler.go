package handlers

import (
	"net/http"

	"gallery-auction/internal/domain"
	"gallery-auction/internal/services"
	"gallery-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ArtworkHandler struct {
	artworks *services.ArtworkService
	bids     *services.BidService
	log      logger.Logger
}

func NewArtworkHandler(artworks *services.ArtworkService, bids *services.BidService, log logger.Logger) *ArtworkHandler {
	return &ArtworkHandler{artworks: artworks, bids: bids, log: log}
}

type ArtworkRequest struct {
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	DateText    string   `json:"date_text"`
	Description string   `json:"description"`
	ImageRefs   []string `json:"image_refs"`
	BasePrice   int64    `json:"base_price"`
}

func (r *ArtworkRequest) toInput() services.ArtworkInput {
	return services.ArtworkInput{
		Name:        r.Name,
		Artist:      r.Artist,
		DateText:    r.DateText,
		Description: r.Description,
		ImageRefs:   r.ImageRefs,
		BasePrice:   r.BasePrice,
	}
}

type SubmitBidRequest struct {
	BidderName string `json:"bidder_name"`
	Amount     int64  `json:"amount"`
}

func (h *ArtworkHandler) Create(c echo.Context) error {
	var req ArtworkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	artwork, err := h.artworks.Register(c.Request().Context(), req.toInput())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, artwork)
}

func (h *ArtworkHandler) List(c echo.Context) error {
	artworks, err := h.artworks.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artworks)
}

func (h *ArtworkHandler) Get(c echo.Context) error {
	artwork, err := h.artworks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artwork)
}

func (h *ArtworkHandler) Update(c echo.Context) error {
	var req ArtworkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	artwork, err := h.artworks.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, artwork)
}

func (h *ArtworkHandler) Delete(c echo.Context) error {
	if err := h.artworks.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage stores a multipart image under the "image" form field and
// appends its locator to the artwork.
func (h *ArtworkHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Image file required"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unreadable image file"})
	}
	defer src.Close()

	locator, err := h.artworks.UploadImage(
		c.Request().Context(),
		c.Param("id"),
		file.Filename,
		src,
		file.Size,
		file.Header.Get("Content-Type"),
	)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"locator": locator})
}

func (h *ArtworkHandler) SubmitBid(c echo.Context) error {
	var req SubmitBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	bid, err := h.bids.SubmitBid(c.Request().Context(), c.Param("id"), req.BidderName, req.Amount)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, bid)
}

func (h *ArtworkHandler) BidHistory(c echo.Context) error {
	history, err := h.bids.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if history == nil {
		history = []domain.Bid{}
	}
	return c.JSON(http.StatusOK, history)
}
