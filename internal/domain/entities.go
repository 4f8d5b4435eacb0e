package domain

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AuctionConfig is the singleton auction window. Overwrite semantics, no
// history kept.
type AuctionConfig struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Bid is immutable once appended. BidderName is denormalized by design:
// renaming a user does not rewrite historical bids.
type Bid struct {
	BidderName string    `json:"bidder_name"`
	Amount     int64     `json:"amount"`
	PlacedAt   time.Time `json:"placed_at"`
}

type Artwork struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Artist      string    `json:"artist"`
	DateText    string    `json:"date_text"`
	Description string    `json:"description"`
	ImageRefs   []string  `json:"image_refs"`
	BasePrice   int64     `json:"base_price"`
	BidHistory  []Bid     `json:"bid_history"`
	CreatedAt   time.Time `json:"created_at"`
}

// EffectivePrice is the last bid amount, or the base price when no bids
// exist. Always recomputed from the history, never cached in a field.
func (a *Artwork) EffectivePrice() int64 {
	if n := len(a.BidHistory); n > 0 {
		return a.BidHistory[n-1].Amount
	}
	return a.BasePrice
}

// Winner returns the bidder of the last history entry. An artwork with an
// empty history has no winner.
func (a *Artwork) Winner() (string, bool) {
	if n := len(a.BidHistory); n > 0 {
		return a.BidHistory[n-1].BidderName, true
	}
	return "", false
}

type GalleryEventType string

const (
	EventBidAccepted    GalleryEventType = "bid_accepted"
	EventAuctionStarted GalleryEventType = "auction_started"
	EventAuctionClosed  GalleryEventType = "auction_closed"
)

// GalleryEvent travels over pub/sub to every instance and from there to
// connected websocket clients.
type GalleryEvent struct {
	Type       GalleryEventType `json:"type"`
	ArtworkID  string           `json:"artwork_id,omitempty"`
	BidderName string           `json:"bidder_name,omitempty"`
	Amount     int64            `json:"amount,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}
