package services

import (
	"context"
	"strings"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
)

// BidService validates and records bids. Preconditions run in a fixed
// order: window active, positive amount, strictly greater than the
// effective current price. Acceptance is serialized through the bid gate
// so two bids racing for the same price cannot both pass, and the history
// append itself is atomic at the store.
type BidService struct {
	artworks domain.ArtworkRepository
	auction  *AuctionService
	gate     domain.BidGate
	eventPub domain.EventPublisher
	log      logger.Logger
	now      func() time.Time
}

func NewBidService(
	artworks domain.ArtworkRepository,
	auction *AuctionService,
	gate domain.BidGate,
	eventPub domain.EventPublisher,
	log logger.Logger,
) *BidService {
	return &BidService{
		artworks: artworks,
		auction:  auction,
		gate:     gate,
		eventPub: eventPub,
		log:      log,
		now:      time.Now,
	}
}

// SubmitBid records a bid on an artwork, returning the appended entry.
// The window state is re-evaluated here, never trusted from an earlier
// display refresh: a bid landing in the final instants of the window must
// be re-checked.
func (s *BidService) SubmitBid(ctx context.Context, artworkID, bidderName string, amount int64) (*domain.Bid, error) {
	state, err := s.auction.State(ctx)
	if err != nil {
		return nil, err
	}
	if state != domain.StateActive {
		return nil, &domain.BidRejection{Reason: domain.RejectAuctionNotOpen, State: state}
	}

	if amount <= 0 {
		return nil, &domain.BidRejection{Reason: domain.RejectInvalidAmount, State: state}
	}

	bidderName = strings.TrimSpace(bidderName)
	if bidderName == "" {
		return nil, &domain.ValidationError{Field: "bidder_name", Reason: "required"}
	}

	artwork, err := s.artworks.Get(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	// The effective price is recomputed from the history on every
	// submission; the gate is only seeded from it when cold.
	effective := artwork.EffectivePrice()
	accepted, current, err := s.gate.TryBid(ctx, artworkID, amount, effective)
	if err != nil {
		return nil, &domain.DependencyError{Op: "bid gate", Err: err}
	}
	if !accepted {
		return nil, &domain.BidRejection{
			Reason:       domain.RejectBidTooLow,
			State:        state,
			CurrentPrice: current,
		}
	}

	bid := domain.Bid{
		BidderName: bidderName,
		Amount:     amount,
		PlacedAt:   s.now().UTC(),
	}
	if err := s.artworks.AppendBid(ctx, artworkID, bid); err != nil {
		// The gate already advanced to an amount the history never
		// recorded. Drop it so the next submission reseeds from the real
		// history instead of a phantom price.
		if resetErr := s.gate.Reset(ctx, artworkID); resetErr != nil {
			s.log.Warn("Failed to reset bid gate after append error", "artwork_id", artworkID, "error", resetErr)
		}
		return nil, err
	}

	if err := s.eventPub.Publish(ctx, &domain.GalleryEvent{
		Type:       domain.EventBidAccepted,
		ArtworkID:  artworkID,
		BidderName: bid.BidderName,
		Amount:     bid.Amount,
		Timestamp:  bid.PlacedAt,
	}); err != nil {
		// The bid is already in the history; a lost event only delays
		// the live feed until the next refresh.
		s.log.Warn("Failed to publish bid event", "artwork_id", artworkID, "error", err)
	}

	s.log.Info("Bid accepted", "artwork_id", artworkID, "bidder", bidderName, "amount", amount)
	return &bid, nil
}

func (s *BidService) History(ctx context.Context, artworkID string) ([]domain.Bid, error) {
	if _, err := s.artworks.Get(ctx, artworkID); err != nil {
		return nil, err
	}
	return s.artworks.BidHistory(ctx, artworkID)
}
