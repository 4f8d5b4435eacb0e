package domain

import (
	"context"
	"io"
)

// Repository interfaces
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
}

type ArtworkRepository interface {
	Create(ctx context.Context, artwork *Artwork) error
	Get(ctx context.Context, artworkID string) (*Artwork, error)
	// List returns artworks ordered by creation time, newest first,
	// each with its full bid history.
	List(ctx context.Context) ([]*Artwork, error)
	Update(ctx context.Context, artwork *Artwork) error
	UpdateImageRefs(ctx context.Context, artworkID string, refs []string) error
	Delete(ctx context.Context, artworkID string) error
	// AppendBid is an atomic append: concurrent appends on the same
	// artwork must all land, in submission order.
	AppendBid(ctx context.Context, artworkID string, bid Bid) error
	BidHistory(ctx context.Context, artworkID string) ([]Bid, error)
}

type AuctionConfigRepository interface {
	// Get returns ErrNotConfigured when the window was never set.
	Get(ctx context.Context) (*AuctionConfig, error)
	// Set overwrites the singleton window.
	Set(ctx context.Context, cfg *AuctionConfig) error
}

// BidGate serializes concurrent bid acceptance on one artwork. TryBid
// compares amount against the gate's current price with the strict-greater
// rule, seeding the gate from fallback when cold, and reports the price
// the comparison ran against.
type BidGate interface {
	TryBid(ctx context.Context, artworkID string, amount, fallback int64) (bool, int64, error)
	Reset(ctx context.Context, artworkID string) error
}

// StateCache remembers the last announced window state so transitions are
// broadcast exactly once.
type StateCache interface {
	SetState(ctx context.Context, state AuctionState) error
	GetState(ctx context.Context) (AuctionState, bool, error)
}

// Event interfaces
type EventPublisher interface {
	Publish(ctx context.Context, event *GalleryEvent) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *GalleryEvent) error

// ObjectStore holds image binaries. Upload returns the public locator.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, locator string) error
	Exists(ctx context.Context, locator string) (bool, error)
	// Owns reports whether a locator points into this store, i.e. whether
	// deleting the artwork should cascade to the object.
	Owns(locator string) bool
}

// GalleryBroadcaster pushes a message to every connected gallery client.
type GalleryBroadcaster interface {
	Broadcast(message interface{}) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}
