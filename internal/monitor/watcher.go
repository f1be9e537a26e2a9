package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks the ledger.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithStaleAfter sets how long an order may sit at one status before the
// watcher mentions it.
func WithStaleAfter(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.staleAfter = d
	}
}

// WithWatchClock overrides the time source.
func WithWatchClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// Watcher periodically looks for orders stuck at one status and nudges the
// kitchen. Each order is mentioned at most once per staleAfter.
type Watcher struct {
	orders     OrderReader
	notifier   domain.Notifier
	log        *logger.Logger
	interval   time.Duration
	staleAfter time.Duration
	now        func() time.Time

	mu       sync.Mutex
	reported map[string]time.Time // order ID -> last mention
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(orders OrderReader, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		orders:     orders,
		notifier:   notifier,
		log:        log,
		interval:   1 * time.Minute,
		staleAfter: 15 * time.Minute,
		now:        time.Now,
		reported:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s, stale after=%s)", w.interval, w.staleAfter)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watcher cycle over the ledger.
func (w *Watcher) check(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	stale := w.orders.Stale(w.staleAfter, now)
	current := make(map[string]bool, len(stale))

	var parts []string
	for _, o := range stale {
		current[o.ID] = true
		if last, ok := w.reported[o.ID]; ok && now.Sub(last) < w.staleAfter {
			continue
		}
		w.reported[o.ID] = now
		parts = append(parts, fmt.Sprintf("%s for %s (%s for %s)",
			o.DishName, o.UserID, o.Status, now.Sub(o.UpdatedAt).Round(time.Minute)))
	}

	// Orders that moved on are forgotten.
	for id := range w.reported {
		if !current[id] {
			delete(w.reported, id)
		}
	}

	if len(parts) == 0 {
		w.log.Debug("watcher: %d stale order(s), nothing new to report", len(stale))
		return
	}

	msg := fmt.Sprintf("[Kitchen] Waiting on %s.", joinNames(parts))
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

// joinNames joins names as "a, b and c".
func joinNames(names []string) string {
	if len(names) <= 1 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
