package services

import (
	"context"
	"sort"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
)

// Banks available in the simulated checkout, with their redirect pages.
// No settlement happens; the flow ends at the bank's public site.
var bankRedirects = map[string]string{
	"Bancolombia":     "https://www.bancolombia.com/personas",
	"Davivienda":      "https://www.davivienda.com",
	"Banco de Bogotá": "https://www.bancodebogota.com",
	"BBVA":            "https://www.bbva.com.co",
	"Nequi":           "https://www.nequi.com.co",
}

var paymentMethods = []string{"Tarjeta de crédito", "Tarjeta débito (PSE)"}

// PaymentService builds the post-auction payment summary and resolves the
// simulated bank redirect.
type PaymentService struct {
	auction *AuctionService
	log     logger.Logger
}

func NewPaymentService(auction *AuctionService, log logger.Logger) *PaymentService {
	return &PaymentService{
		auction: auction,
		log:     log,
	}
}

type WonArtwork struct {
	ArtworkID string `json:"artwork_id"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
}

type PaymentSummary struct {
	Artworks []WonArtwork `json:"artworks"`
	Total    int64        `json:"total"`
	Methods  []string     `json:"methods"`
}

// Summary lists the artworks bidderName won, with the total owed. Before
// the window closes every bidder's summary is empty.
func (s *PaymentService) Summary(ctx context.Context, bidderName string) (*PaymentSummary, error) {
	won, err := s.auction.WonArtworks(ctx, bidderName)
	if err != nil {
		return nil, err
	}

	summary := &PaymentSummary{Methods: paymentMethods}
	for _, artwork := range won {
		amount := artwork.EffectivePrice()
		summary.Artworks = append(summary.Artworks, WonArtwork{
			ArtworkID: artwork.ID,
			Name:      artwork.Name,
			Amount:    amount,
		})
		summary.Total += amount
	}
	return summary, nil
}

// Banks returns the selectable banks in a stable order.
func (s *PaymentService) Banks() []string {
	banks := make([]string, 0, len(bankRedirects))
	for bank := range bankRedirects {
		banks = append(banks, bank)
	}
	sort.Strings(banks)
	return banks
}

// Checkout resolves the chosen bank to its redirect URL.
func (s *PaymentService) Checkout(ctx context.Context, bidderName, bank string) (string, error) {
	redirect, ok := bankRedirects[bank]
	if !ok {
		return "", &domain.ValidationError{Field: "bank", Reason: "unknown bank"}
	}

	summary, err := s.Summary(ctx, bidderName)
	if err != nil {
		return "", err
	}
	if len(summary.Artworks) == 0 {
		return "", &domain.ValidationError{Field: "bidder", Reason: "no won artworks to pay for"}
	}

	s.log.Info("Checkout redirect issued", "bidder", bidderName, "bank", bank, "total", summary.Total)
	return redirect, nil
}
