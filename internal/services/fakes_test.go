package services

import (
	"context"
	"io"
	"strings"
	"sync"

	"gallery-auction/internal/domain"
)

// In-memory collaborators for service tests.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		clone := *user
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type fakeArtworkRepo struct {
	mu       sync.Mutex
	artworks map[string]*domain.Artwork
	order    []string
}

func newFakeArtworkRepo() *fakeArtworkRepo {
	return &fakeArtworkRepo{artworks: make(map[string]*domain.Artwork)}
}

func (r *fakeArtworkRepo) Create(ctx context.Context, artwork *domain.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *artwork
	r.artworks[artwork.ID] = &clone
	r.order = append([]string{artwork.ID}, r.order...)
	return nil
}

func (r *fakeArtworkRepo) Get(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	artwork, ok := r.artworks[artworkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *artwork
	clone.BidHistory = append([]domain.Bid(nil), artwork.BidHistory...)
	return &clone, nil
}

func (r *fakeArtworkRepo) List(ctx context.Context) ([]*domain.Artwork, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Artwork, 0, len(r.order))
	for _, id := range r.order {
		artwork := r.artworks[id]
		clone := *artwork
		clone.BidHistory = append([]domain.Bid(nil), artwork.BidHistory...)
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeArtworkRepo) Update(ctx context.Context, artwork *domain.Artwork) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.artworks[artwork.ID]
	if !ok {
		return domain.ErrNotFound
	}
	clone := *artwork
	clone.BidHistory = existing.BidHistory
	r.artworks[artwork.ID] = &clone
	return nil
}

func (r *fakeArtworkRepo) UpdateImageRefs(ctx context.Context, artworkID string, refs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	artwork, ok := r.artworks[artworkID]
	if !ok {
		return domain.ErrNotFound
	}
	artwork.ImageRefs = append([]string(nil), refs...)
	return nil
}

func (r *fakeArtworkRepo) Delete(ctx context.Context, artworkID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.artworks[artworkID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.artworks, artworkID)
	for i, id := range r.order {
		if id == artworkID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeArtworkRepo) AppendBid(ctx context.Context, artworkID string, bid domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	artwork, ok := r.artworks[artworkID]
	if !ok {
		return domain.ErrNotFound
	}
	artwork.BidHistory = append(artwork.BidHistory, bid)
	return nil
}

func (r *fakeArtworkRepo) BidHistory(ctx context.Context, artworkID string) ([]domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	artwork, ok := r.artworks[artworkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]domain.Bid(nil), artwork.BidHistory...), nil
}

type fakeConfigRepo struct {
	mu  sync.Mutex
	cfg *domain.AuctionConfig
}

func (r *fakeConfigRepo) Get(ctx context.Context) (*domain.AuctionConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return nil, domain.ErrNotConfigured
	}
	clone := *r.cfg
	return &clone, nil
}

func (r *fakeConfigRepo) Set(ctx context.Context, cfg *domain.AuctionConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cfg
	r.cfg = &clone
	return nil
}

// fakeBidGate mirrors the Redis gate's compare-and-set semantics.
type fakeBidGate struct {
	mu     sync.Mutex
	prices map[string]int64
}

func newFakeBidGate() *fakeBidGate {
	return &fakeBidGate{prices: make(map[string]int64)}
}

func (g *fakeBidGate) TryBid(ctx context.Context, artworkID string, amount, fallback int64) (bool, int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.prices[artworkID]
	if !ok {
		current = fallback
		g.prices[artworkID] = current
	}
	if amount > current {
		g.prices[artworkID] = amount
		return true, current, nil
	}
	return false, current, nil
}

func (g *fakeBidGate) Reset(ctx context.Context, artworkID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.prices, artworkID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*domain.GalleryEvent
}

func (p *fakePublisher) Publish(ctx context.Context, event *domain.GalleryEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// fakeObjectStore owns locators with the fake:// prefix.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	locator := "fake://" + key
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[locator] = data
	return locator, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, locator)
	s.deleted = append(s.deleted, locator)
	return nil
}

func (s *fakeObjectStore) Exists(ctx context.Context, locator string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[locator]
	return ok, nil
}

func (s *fakeObjectStore) Owns(locator string) bool {
	return strings.HasPrefix(locator, "fake://")
}
