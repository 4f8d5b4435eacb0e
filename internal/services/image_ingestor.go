package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"
	"gallery-auction/pkg/utils"
)

// ImageIngestor downloads remote artwork images and re-homes them in the
// object store. It replaces the original's one-thread-per-image download:
// a bounded worker pool fetches, and a single apply loop performs the
// repository updates, so results arriving after Stop are simply dropped.
type ImageIngestor struct {
	artworks domain.ArtworkRepository
	images   domain.ObjectStore
	client   *http.Client
	jobs     chan ingestJob
	results  chan ingestResult
	workers  int
	log      logger.Logger

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

type ingestJob struct {
	artworkID string
	sourceURL string
}

type ingestResult struct {
	artworkID string
	sourceURL string
	locator   string
}

func NewImageIngestor(
	artworks domain.ArtworkRepository,
	images domain.ObjectStore,
	workers int,
	fetchTimeout time.Duration,
	log logger.Logger,
) *ImageIngestor {
	if workers <= 0 {
		workers = 1
	}
	return &ImageIngestor{
		artworks: artworks,
		images:   images,
		client:   &http.Client{Timeout: fetchTimeout},
		jobs:     make(chan ingestJob, 64),
		results:  make(chan ingestResult, 64),
		workers:  workers,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (ing *ImageIngestor) Start(ctx context.Context) {
	ctx, ing.cancel = context.WithCancel(ctx)

	var wg sync.WaitGroup
	for i := 0; i < ing.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ing.workerLoop(ctx)
		}()
	}

	go func() {
		wg.Wait()
		close(ing.results)
	}()

	go ing.applyLoop(ctx)
}

func (ing *ImageIngestor) Stop() {
	ing.stopOnce.Do(func() {
		if ing.cancel != nil {
			ing.cancel()
		}
		<-ing.done
	})
}

// Enqueue schedules a fetch. A full queue drops the job: the artwork keeps
// its original URL, which is the degraded-but-working outcome anyway.
func (ing *ImageIngestor) Enqueue(artworkID, sourceURL string) {
	select {
	case ing.jobs <- ingestJob{artworkID: artworkID, sourceURL: sourceURL}:
	default:
		ing.log.Warn("Image ingest queue full, keeping original URL", "artwork_id", artworkID, "url", sourceURL)
	}
}

func (ing *ImageIngestor) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ing.jobs:
			locator, err := ing.fetchAndStore(ctx, job)
			if err != nil {
				// Degrade: the original URL stays in the refs.
				ing.log.Warn("Image fetch failed", "artwork_id", job.artworkID, "url", job.sourceURL, "error", err)
				continue
			}
			select {
			case ing.results <- ingestResult{artworkID: job.artworkID, sourceURL: job.sourceURL, locator: locator}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (ing *ImageIngestor) fetchAndStore(ctx context.Context, job ingestJob) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.sourceURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := ing.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	key := "artworks/" + utils.GenerateID("img") + extFromURL(job.sourceURL)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	locator, err := ing.images.Upload(ctx, key, resp.Body, resp.ContentLength, contentType)
	if err != nil {
		return "", err
	}
	return locator, nil
}

// applyLoop is the single writer for ingest outcomes; it swaps the source
// URL for the stored locator in the artwork's refs.
func (ing *ImageIngestor) applyLoop(ctx context.Context) {
	defer close(ing.done)

	for {
		select {
		case <-ctx.Done():
			return
		case result, ok := <-ing.results:
			if !ok {
				return
			}
			if err := ing.replaceRef(ctx, result); err != nil {
				ing.log.Warn("Failed to record ingested image", "artwork_id", result.artworkID, "error", err)
			}
		}
	}
}

func (ing *ImageIngestor) replaceRef(ctx context.Context, result ingestResult) error {
	artwork, err := ing.artworks.Get(ctx, result.artworkID)
	if err != nil {
		// Artwork deleted while the fetch was in flight; drop the object.
		if err == domain.ErrNotFound {
			return ing.images.Delete(ctx, result.locator)
		}
		return err
	}

	refs := make([]string, len(artwork.ImageRefs))
	replaced := false
	for i, ref := range artwork.ImageRefs {
		if ref == result.sourceURL {
			refs[i] = result.locator
			replaced = true
		} else {
			refs[i] = ref
		}
	}
	if !replaced {
		// Ref edited away in the meantime; nothing to update.
		return ing.images.Delete(ctx, result.locator)
	}

	return ing.artworks.UpdateImageRefs(ctx, result.artworkID, refs)
}

func extFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return path.Ext(u.Path)
}
