package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
)

func newPaymentFixture(t *testing.T, now time.Time) (*PaymentService, *fakeArtworkRepo) {
	t.Helper()
	ctx := context.Background()
	configRepo := &fakeConfigRepo{}
	artworks := newFakeArtworkRepo()

	// Window already closed relative to now.
	err := configRepo.Set(ctx, &domain.AuctionConfig{
		StartTime: now.Add(-48 * time.Hour),
		EndTime:   now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	auction := NewAuctionService(configRepo, artworks, logger.NewNop())
	auction.now = fixedClock(now)
	return NewPaymentService(auction, logger.NewNop()), artworks
}

func TestSummaryTotalsWonArtworks(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	svc, artworks := newPaymentFixture(t, now)

	works := []*domain.Artwork{
		{ID: "a1", Name: "Amanecer", BasePrice: 1000, BidHistory: []domain.Bid{
			{BidderName: "Elena", Amount: 1500000},
		}},
		{ID: "a2", Name: "Nocturno", BasePrice: 500, BidHistory: []domain.Bid{
			{BidderName: "Marco", Amount: 2000},
			{BidderName: "Elena", Amount: 2500},
		}},
		{ID: "a3", Name: "Ajeno", BasePrice: 800, BidHistory: []domain.Bid{
			{BidderName: "Marco", Amount: 900},
		}},
	}
	for _, w := range works {
		if err := artworks.Create(ctx, w); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	summary, err := svc.Summary(ctx, "Elena")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary.Artworks) != 2 {
		t.Fatalf("won %d artworks, want 2", len(summary.Artworks))
	}
	if summary.Total != 1500000+2500 {
		t.Fatalf("total = %d, want %d", summary.Total, 1500000+2500)
	}
	if len(summary.Methods) == 0 {
		t.Fatal("summary carries no payment methods")
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	svc, artworks := newPaymentFixture(t, now)

	artwork := &domain.Artwork{ID: "a1", Name: "Amanecer", BasePrice: 1000, BidHistory: []domain.Bid{
		{BidderName: "Elena", Amount: 2000},
	}}
	if err := artworks.Create(ctx, artwork); err != nil {
		t.Fatalf("Create: %v", err)
	}

	redirect, err := svc.Checkout(ctx, "Elena", "Nequi")
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if !strings.HasPrefix(redirect, "https://") {
		t.Fatalf("redirect %q is not an https URL", redirect)
	}

	var vErr *domain.ValidationError
	if _, err := svc.Checkout(ctx, "Elena", "No Such Bank"); !errors.As(err, &vErr) || vErr.Field != "bank" {
		t.Fatalf("unknown bank: got %v", err)
	}
	if _, err := svc.Checkout(ctx, "Marco", "Nequi"); !errors.As(err, &vErr) || vErr.Field != "bidder" {
		t.Fatalf("no winnings: got %v", err)
	}
}

func TestBanksStableOrder(t *testing.T) {
	now := time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)
	svc, _ := newPaymentFixture(t, now)

	banks := svc.Banks()
	if len(banks) == 0 {
		t.Fatal("no banks configured")
	}
	for i := 1; i < len(banks); i++ {
		if banks[i] < banks[i-1] {
			t.Fatalf("banks not sorted: %v", banks)
		}
	}
}
