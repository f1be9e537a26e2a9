package monitor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages), len(m.urgent)
}

// fakeStock reports a fixed list filtered by threshold.
type fakeStock struct {
	mu    sync.Mutex
	items []domain.Ingredient
}

func (f *fakeStock) Low(threshold float64) []domain.Ingredient {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ingredient
	for _, ing := range f.items {
		if ing.Amount < threshold {
			out = append(out, ing)
		}
	}
	return out
}

func (f *fakeStock) set(items ...domain.Ingredient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSupervisorLowStockAlerts(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	stock := &fakeStock{}
	stock.set(domain.Ingredient{Name: "Tomato", Amount: 1}, domain.Ingredient{Name: "Cheese", Amount: 9})
	c := &clock{t: time.Date(2026, time.May, 4, 18, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	sup := New(stock, notifier, log,
		WithLowStockThreshold(3),
		WithNotifyCooldown(10*time.Minute),
		WithMaxReminders(2),
		WithClock(c.now),
	)

	sup.tick(ctx)
	if _, urgent := notifier.counts(); urgent != 1 {
		t.Fatalf("expected one urgent alert, got %d", urgent)
	}
	if !strings.Contains(notifier.urgent[0], "Tomato") {
		t.Fatalf("unexpected alert: %q", notifier.urgent[0])
	}

	// Within cooldown: quiet.
	c.advance(time.Minute)
	sup.tick(ctx)
	if normal, _ := notifier.counts(); normal != 0 {
		t.Fatalf("expected no reminder during cooldown, got %d", normal)
	}

	// Two reminders, then silence.
	for i := 0; i < 4; i++ {
		c.advance(10 * time.Minute)
		sup.tick(ctx)
	}
	if normal, urgent := notifier.counts(); normal != 2 || urgent != 1 {
		t.Fatalf("expected 2 reminders and 1 alert, got %d and %d", normal, urgent)
	}

	// Restock resets the alert; running low again alerts again.
	stock.set(domain.Ingredient{Name: "Tomato", Amount: 8})
	sup.tick(ctx)
	stock.set(domain.Ingredient{Name: "Tomato", Amount: 2})
	sup.tick(ctx)
	if _, urgent := notifier.counts(); urgent != 2 {
		t.Fatalf("expected a fresh alert after restock, got %d", urgent)
	}
}

func TestSupervisorStartStop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	stock := &fakeStock{}
	stock.set(domain.Ingredient{Name: "Basil", Amount: 0})
	ctx := context.Background()

	sup := New(stock, notifier, log, WithTickInterval(20*time.Millisecond))
	sup.Start(ctx)
	sup.Start(ctx) // second start is ignored
	time.Sleep(100 * time.Millisecond)
	sup.Stop()
	sup.Stop()

	if _, urgent := notifier.counts(); urgent != 1 {
		t.Fatalf("expected exactly one alert, got %d", urgent)
	}
}
