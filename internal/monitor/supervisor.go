// Package monitor implements the background kitchen supervisor that watches
// ingredient levels and idle orders and notifies the admin.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// StockReader reports ingredients below a threshold.
type StockReader interface {
	Low(threshold float64) []domain.Ingredient
}

// OrderReader reports orders that have not moved for a while.
type OrderReader interface {
	Stale(olderThan time.Duration, now time.Time) []domain.Order
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor checks stock.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithNotifyCooldown sets the minimum time between repeated notifications
// about the same ingredient.
func WithNotifyCooldown(d time.Duration) Option {
	return func(s *Supervisor) {
		s.notifyCooldown = d
	}
}

// WithLowStockThreshold sets the quantity below which an ingredient is low.
func WithLowStockThreshold(v float64) Option {
	return func(s *Supervisor) {
		s.threshold = v
	}
}

// WithMaxReminders sets how many reminders follow the first alert before the
// supervisor goes quiet about an ingredient.
func WithMaxReminders(n int) Option {
	return func(s *Supervisor) {
		s.maxReminders = n
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithWatcher enables the stale order watcher with the given ledger and options.
func WithWatcher(orders OrderReader, opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watcherOrders = orders
		s.watcherOpts = opts
	}
}

// Supervisor runs in the background and raises low stock alerts.
// Optionally runs a Watcher on a slower cycle for idle orders.
type Supervisor struct {
	stock          StockReader
	notifier       domain.Notifier
	log            *logger.Logger
	tickInterval   time.Duration
	notifyCooldown time.Duration
	threshold      float64
	maxReminders   int
	now            func() time.Time

	watcherOrders OrderReader
	watcherOpts   []WatcherOption
	watcher       *Watcher

	alertsMu sync.Mutex
	alerts   map[string]*alert // ingredient key -> alert state

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

type alert struct {
	lastNotified time.Time
	reminders    int
}

// New creates a kitchen supervisor with the given dependencies and options.
func New(stock StockReader, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		stock:          stock,
		notifier:       notifier,
		log:            log,
		tickInterval:   30 * time.Second,
		notifyCooldown: 10 * time.Minute,
		threshold:      3,
		maxReminders:   3,
		now:            time.Now,
		alerts:         make(map[string]*alert),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background supervisor loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("kitchen supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	if s.watcherOrders != nil {
		opts := append([]WatcherOption{WithWatchClock(s.now)}, s.watcherOpts...)
		s.watcher = NewWatcher(s.watcherOrders, s.notifier, s.log, opts...)
		go s.watcher.Run(childCtx)
	}

	s.log.Info("kitchen supervisor started (tick=%s, threshold=%g)", s.tickInterval, s.threshold)
}

// Stop gracefully shuts down the supervisor.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("kitchen supervisor stopped")
}

// loop is the main tick loop.
func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one cycle over the low ingredients.
func (s *Supervisor) tick(ctx context.Context) {
	s.alertsMu.Lock()
	defer s.alertsMu.Unlock()

	now := s.now()
	low := s.stock.Low(s.threshold)
	seen := make(map[string]bool, len(low))

	for _, ing := range low {
		key := ing.Key()
		seen[key] = true

		a, ok := s.alerts[key]
		if !ok {
			s.alerts[key] = &alert{lastNotified: now}
			msg := fmt.Sprintf("[Stock] %s is running low: %g left.", ing.Name, ing.Amount)
			if err := s.notifier.NotifyUrgent(ctx, msg); err != nil {
				s.log.Error("supervisor: low stock notify: %v", err)
			}
			continue
		}

		if a.reminders >= s.maxReminders {
			continue // Stop nagging.
		}
		if now.Sub(a.lastNotified) < s.notifyCooldown {
			continue // Cooldown active.
		}

		msg := fmt.Sprintf("[Stock] Still low on %s (%g left).", ing.Name, ing.Amount)
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.log.Error("supervisor: reminder notify: %v", err)
		}
		a.lastNotified = now
		a.reminders++
	}

	// Restocked ingredients start over.
	for key := range s.alerts {
		if !seen[key] {
			s.log.Debug("supervisor: %s back above threshold", key)
			delete(s.alerts, key)
		}
	}
}
