package services

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
	"gallery-auction/pkg/utils"
)

// ArtworkService manages the catalog: admin CRUD, image uploads, and the
// delete cascade that removes image objects the catalog exclusively owns.
type ArtworkService struct {
	artworks domain.ArtworkRepository
	images   domain.ObjectStore
	gate     domain.BidGate
	ingestor *ImageIngestor
	log      logger.Logger
}

func NewArtworkService(
	artworks domain.ArtworkRepository,
	images domain.ObjectStore,
	gate domain.BidGate,
	ingestor *ImageIngestor,
	log logger.Logger,
) *ArtworkService {
	return &ArtworkService{
		artworks: artworks,
		images:   images,
		gate:     gate,
		ingestor: ingestor,
		log:      log,
	}
}

// ArtworkInput carries the admin registration/edit form.
type ArtworkInput struct {
	Name        string
	Artist      string
	DateText    string
	Description string
	ImageRefs   []string
	BasePrice   int64
}

func (in *ArtworkInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(in.Artist) == "" {
		return &domain.ValidationError{Field: "artist", Reason: "required"}
	}
	if in.BasePrice <= 0 {
		return &domain.ValidationError{Field: "base_price", Reason: "must be a positive number"}
	}
	if len(in.ImageRefs) == 0 {
		return &domain.ValidationError{Field: "image_refs", Reason: "at least one image is required"}
	}
	return nil
}

func (s *ArtworkService) Register(ctx context.Context, input ArtworkInput) (*domain.Artwork, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	artwork := &domain.Artwork{
		ID:          utils.GenerateID("artwork"),
		Name:        strings.TrimSpace(input.Name),
		Artist:      strings.TrimSpace(input.Artist),
		DateText:    strings.TrimSpace(input.DateText),
		Description: strings.TrimSpace(input.Description),
		ImageRefs:   input.ImageRefs,
		BasePrice:   input.BasePrice,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.artworks.Create(ctx, artwork); err != nil {
		return nil, err
	}

	// Remote URLs are re-homed into the object store in the background;
	// until (or unless) a fetch succeeds the original URL stays in place.
	if s.ingestor != nil {
		for _, ref := range artwork.ImageRefs {
			if !s.images.Owns(ref) {
				s.ingestor.Enqueue(artwork.ID, ref)
			}
		}
	}

	s.log.Info("Artwork registered", "artwork_id", artwork.ID, "name", artwork.Name)
	return artwork, nil
}

func (s *ArtworkService) Get(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	return s.artworks.Get(ctx, artworkID)
}

func (s *ArtworkService) List(ctx context.Context) ([]*domain.Artwork, error) {
	return s.artworks.List(ctx)
}

// Update edits metadata, image refs and base price. The bid gate is reset
// so a changed base price takes effect on the next bid; the bid history is
// never touched here.
func (s *ArtworkService) Update(ctx context.Context, artworkID string, input ArtworkInput) (*domain.Artwork, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	artwork, err := s.artworks.Get(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	removed := missingRefs(artwork.ImageRefs, input.ImageRefs)

	artwork.Name = strings.TrimSpace(input.Name)
	artwork.Artist = strings.TrimSpace(input.Artist)
	artwork.DateText = strings.TrimSpace(input.DateText)
	artwork.Description = strings.TrimSpace(input.Description)
	artwork.ImageRefs = input.ImageRefs
	artwork.BasePrice = input.BasePrice

	if err := s.artworks.Update(ctx, artwork); err != nil {
		return nil, err
	}

	if err := s.gate.Reset(ctx, artworkID); err != nil {
		s.log.Warn("Failed to reset bid gate", "artwork_id", artworkID, "error", err)
	}

	s.deleteOwnedObjects(ctx, removed)

	s.log.Info("Artwork updated", "artwork_id", artworkID)
	return artwork, nil
}

// Delete removes the artwork, its history, and every image object the
// store owns. External image URLs are left alone.
func (s *ArtworkService) Delete(ctx context.Context, artworkID string) error {
	artwork, err := s.artworks.Get(ctx, artworkID)
	if err != nil {
		return err
	}

	if err := s.artworks.Delete(ctx, artworkID); err != nil {
		return err
	}

	if err := s.gate.Reset(ctx, artworkID); err != nil {
		s.log.Warn("Failed to reset bid gate", "artwork_id", artworkID, "error", err)
	}

	s.deleteOwnedObjects(ctx, artwork.ImageRefs)

	s.log.Info("Artwork deleted", "artwork_id", artworkID)
	return nil
}

// UploadImage stores an image binary and appends its public locator to the
// artwork's refs.
func (s *ArtworkService) UploadImage(ctx context.Context, artworkID, filename string, r io.Reader, size int64, contentType string) (string, error) {
	artwork, err := s.artworks.Get(ctx, artworkID)
	if err != nil {
		return "", err
	}

	key := "artworks/" + utils.GenerateID("img") + path.Ext(filename)
	locator, err := s.images.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return "", &domain.DependencyError{Op: "image upload", Err: err}
	}

	refs := append(artwork.ImageRefs, locator)
	if err := s.artworks.UpdateImageRefs(ctx, artworkID, refs); err != nil {
		return "", err
	}

	return locator, nil
}

func (s *ArtworkService) deleteOwnedObjects(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if !s.images.Owns(ref) {
			continue
		}
		exists, err := s.images.Exists(ctx, ref)
		if err != nil || !exists {
			continue
		}
		if err := s.images.Delete(ctx, ref); err != nil {
			s.log.Warn("Failed to delete image object", "locator", ref, "error", err)
		}
	}
}

// missingRefs returns the refs present in old but absent from updated.
func missingRefs(old, updated []string) []string {
	keep := make(map[string]struct{}, len(updated))
	for _, ref := range updated {
		keep[ref] = struct{}{}
	}

	var missing []string
	for _, ref := range old {
		if _, ok := keep[ref]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing
}
