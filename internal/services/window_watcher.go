package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"

	"github.com/robfig/cron/v3"
)

// WindowWatcher periodically re-evaluates the auction window and announces
// each state transition exactly once on the event channel. Announcing is
// leader-gated so replicas do not duplicate the broadcast; the state
// itself stays a pure function of the clock, the watcher only narrates it.
type WindowWatcher struct {
	auction    *AuctionService
	stateCache domain.StateCache
	eventPub   domain.EventPublisher
	leader     domain.LeaderElection
	instanceID string
	interval   time.Duration
	cron       *cron.Cron
	log        logger.Logger
}

func NewWindowWatcher(
	auction *AuctionService,
	stateCache domain.StateCache,
	eventPub domain.EventPublisher,
	leader domain.LeaderElection,
	instanceID string,
	interval time.Duration,
	log logger.Logger,
) *WindowWatcher {
	return &WindowWatcher{
		auction:    auction,
		stateCache: stateCache,
		eventPub:   eventPub,
		leader:     leader,
		instanceID: instanceID,
		interval:   interval,
		cron:       cron.New(cron.WithSeconds()),
		log:        log,
	}
}

func (w *WindowWatcher) Start(ctx context.Context) error {
	w.log.Info("Starting window watcher", "interval", w.interval)

	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, func() {
		w.tick(ctx)
	}); err != nil {
		return err
	}

	w.cron.Start()
	return nil
}

func (w *WindowWatcher) Stop() error {
	w.log.Info("Stopping window watcher")
	w.cron.Stop()
	return nil
}

func (w *WindowWatcher) tick(ctx context.Context) {
	isLeader, err := w.leader.IsLeader(ctx, w.instanceID)
	if err != nil {
		w.log.Error("Leader check failed", "error", err)
		return
	}
	if !isLeader {
		return
	}

	current, err := w.auction.State(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			return
		}
		w.log.Error("Failed to evaluate window state", "error", err)
		return
	}

	announced, known, err := w.stateCache.GetState(ctx)
	if err != nil {
		w.log.Error("Failed to read announced state", "error", err)
		return
	}
	if known && announced == current {
		return
	}

	if err := w.stateCache.SetState(ctx, current); err != nil {
		w.log.Error("Failed to record announced state", "error", err)
		return
	}

	// First observation after startup only primes the cache; a transition
	// needs a known previous state.
	if !known {
		return
	}

	event := &domain.GalleryEvent{Timestamp: time.Now().UTC()}
	switch current {
	case domain.StateActive:
		event.Type = domain.EventAuctionStarted
	case domain.StateClosed:
		event.Type = domain.EventAuctionClosed
	default:
		// Moving back to pending happens only when an admin reconfigures
		// the window; nothing to announce.
		return
	}

	if err := w.eventPub.Publish(ctx, event); err != nil {
		w.log.Error("Failed to publish window transition", "type", event.Type, "error", err)
		return
	}

	w.log.Info("Window transition announced", "from", announced, "to", current)
}
