package services

import (
	"context"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
)

// AuctionService owns the singleton auction window: reading it together
// with the freshly evaluated state, and overwriting it from the admin
// configuration form.
type AuctionService struct {
	configRepo domain.AuctionConfigRepository
	artworks   domain.ArtworkRepository
	log        logger.Logger
	now        func() time.Time
}

func NewAuctionService(configRepo domain.AuctionConfigRepository, artworks domain.ArtworkRepository, log logger.Logger) *AuctionService {
	return &AuctionService{
		configRepo: configRepo,
		artworks:   artworks,
		log:        log,
		now:        time.Now,
	}
}

// WindowStatus is the display view of the auction window.
type WindowStatus struct {
	Config    *domain.AuctionConfig `json:"config"`
	State     domain.AuctionState   `json:"-"`
	StateName string                `json:"state"`
	Countdown *domain.Countdown     `json:"countdown,omitempty"`
}

// Status returns the configured window with its state evaluated against
// the current clock. The countdown is present only while active.
func (s *AuctionService) Status(ctx context.Context) (*WindowStatus, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	state := domain.EvaluateState(now, cfg.StartTime, cfg.EndTime)

	status := &WindowStatus{
		Config:    cfg,
		State:     state,
		StateName: state.String(),
	}
	if state == domain.StateActive {
		countdown := domain.DecomposeCountdown(domain.TimeRemaining(now, cfg.EndTime))
		status.Countdown = &countdown
	}
	return status, nil
}

// State re-evaluates the window state from the clock. Callers validating a
// bid must use this rather than any previously cached state.
func (s *AuctionService) State(ctx context.Context) (domain.AuctionState, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return domain.StatePending, err
	}
	return domain.EvaluateState(s.now().UTC(), cfg.StartTime, cfg.EndTime), nil
}

// Configure overwrites the auction window. The end must fall strictly
// after the start; there is no other restriction, a window entirely in the
// past simply evaluates as closed.
func (s *AuctionService) Configure(ctx context.Context, start, end time.Time) (*domain.AuctionConfig, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &domain.ValidationError{Field: "window", Reason: "start_time and end_time are required"}
	}
	if !end.After(start) {
		return nil, &domain.ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}

	cfg := &domain.AuctionConfig{StartTime: start.UTC(), EndTime: end.UTC()}
	if err := s.configRepo.Set(ctx, cfg); err != nil {
		return nil, err
	}

	s.log.Info("Auction window configured", "start", cfg.StartTime, "end", cfg.EndTime)
	return cfg, nil
}

// WonArtworks lists the artworks whose closing bid belongs to bidderName.
// Only meaningful once the window is closed; before that it returns an
// empty list. Artworks with no bids contribute no winner.
func (s *AuctionService) WonArtworks(ctx context.Context, bidderName string) ([]*domain.Artwork, error) {
	state, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	if state != domain.StateClosed {
		return nil, nil
	}

	artworks, err := s.artworks.List(ctx)
	if err != nil {
		return nil, err
	}

	var won []*domain.Artwork
	for _, artwork := range artworks {
		if winner, ok := artwork.Winner(); ok && winner == bidderName {
			won = append(won, artwork)
		}
	}
	return won, nil
}
