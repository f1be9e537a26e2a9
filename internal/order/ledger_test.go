package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
	"github.com/hammamikhairi/ottoserve/internal/storage"
)

// flakyRepo fails SaveOrders while fail is set.
type flakyRepo struct {
	*storage.MemoryStore
	fail bool
}

func (r *flakyRepo) SaveOrders(ctx context.Context, orders []domain.Order) error {
	if r.fail {
		return &domain.IOError{Path: "orders", Err: errors.New("disk full")}
	}
	return r.MemoryStore.SaveOrders(ctx, orders)
}

var t0 = time.Date(2026, time.May, 4, 18, 0, 0, 0, time.UTC)

func newLedger(t *testing.T, saved ...domain.Order) (*Ledger, *flakyRepo) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	repo := &flakyRepo{MemoryStore: storage.NewMemoryStore(log)}
	ctx := context.Background()
	if err := repo.MemoryStore.SaveOrders(ctx, saved); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l, err := Open(ctx, repo, log)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return l, repo
}

func TestOpen(t *testing.T) {
	l, _ := newLedger(t,
		domain.Order{UserID: "U2", DishName: "Burger", Status: domain.OrderReady},
		domain.Order{ID: "a", UserID: "U1", DishName: "Pizza"},
		domain.Order{ID: "a", UserID: "U3", DishName: "Soup"},
		domain.Order{ID: "b", UserID: "", DishName: "Pizza"},
		domain.Order{ID: "c", UserID: "U4", DishName: "Pizza", Status: 9},
	)

	all := l.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 orders, got %+v", all)
	}
	if all[0].ID == "" {
		t.Fatal("expected an ID to be assigned")
	}
	if o, err := l.Current("U2"); err != nil || o.Status != domain.OrderReady {
		t.Fatalf("expected U2 at Ready, got %+v (%v)", o, err)
	}
}

func TestPlaceAndCurrent(t *testing.T) {
	l, repo := newLedger(t)
	ctx := context.Background()

	first, err := l.Place(ctx, "U1", "Pizza", t0)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if first.Status != domain.OrderReceived || first.ID == "" || !first.PlacedAt.Equal(t0) {
		t.Fatalf("unexpected order: %+v", first)
	}
	second, err := l.Place(ctx, "U1", "Soup", t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("order IDs must be unique")
	}

	cur, err := l.Current("U1")
	if err != nil || cur.ID != second.ID {
		t.Fatalf("expected most recent order, got %+v (%v)", cur, err)
	}
	if got := orderByID(t, l, first.ID); got.DishName != "Pizza" {
		t.Fatalf("unexpected first order %+v", got)
	}
	if h := l.ForUser("U1"); len(h) != 2 || h[0].ID != first.ID || h[1].ID != second.ID {
		t.Fatalf("unexpected per-user history %+v", h)
	}
	if len(l.ForUser("U9")) != 0 {
		t.Fatal("unexpected history for unknown user")
	}

	saved, _ := repo.LoadOrders(ctx)
	if len(saved) != 2 {
		t.Fatalf("expected 2 saved orders, got %d", len(saved))
	}

	if _, err := l.Current("U9"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.Place(ctx, " ", "Pizza", t0); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

// orderByID finds an order in the full ledger listing.
func orderByID(t *testing.T, l *Ledger, id string) domain.Order {
	t.Helper()
	for _, o := range l.All() {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("order %s not in ledger", id)
	return domain.Order{}
}

func TestUpdate(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()
	o, _ := l.Place(ctx, "U1", "Pizza", t0)

	tests := []struct {
		name    string
		mutate  func(o domain.Order) domain.Order
		wantErr error
	}{
		{"one step", func(o domain.Order) domain.Order { o.Status = domain.OrderPreparing; return o }, nil},
		{"same status", func(o domain.Order) domain.Order { o.UpdatedAt = t0.Add(time.Hour); return o }, nil},
		{"skip ahead", func(o domain.Order) domain.Order { o.Status = domain.OrderReady; return o }, domain.ErrInvalid},
		{"backwards", func(o domain.Order) domain.Order { o.Status = domain.OrderReceived; return o }, domain.ErrInvalid},
		{"change dish", func(o domain.Order) domain.Order { o.DishName = "Soup"; return o }, domain.ErrInvalid},
		{"unknown id", func(o domain.Order) domain.Order { o.ID = "nope"; return o }, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := orderByID(t, l, o.ID)
			err := l.Update(ctx, tt.mutate(cur))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if after := orderByID(t, l, o.ID); after != cur {
					t.Fatalf("failed update changed the order: %+v", after)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if got := orderByID(t, l, o.ID); got.Status != domain.OrderPreparing {
		t.Fatalf("expected Preparing, got %s", got.Status)
	}
}

func TestSaveFailureRollsBack(t *testing.T) {
	l, repo := newLedger(t)
	ctx := context.Background()
	o, _ := l.Place(ctx, "U1", "Pizza", t0)
	repo.fail = true

	if _, err := l.Place(ctx, "U2", "Soup", t0); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("place: expected ErrStorage, got %v", err)
	}
	next := o
	next.Status = domain.OrderPreparing
	if err := l.Update(ctx, next); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("update: expected ErrStorage, got %v", err)
	}

	all := l.All()
	if len(all) != 1 || all[0].Status != domain.OrderReceived {
		t.Fatalf("expected ledger unchanged, got %+v", all)
	}
	if _, err := l.Current("U2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected failed placement to be forgotten, got %v", err)
	}
}

func TestStaleAndCounts(t *testing.T) {
	l, _ := newLedger(t,
		domain.Order{ID: "old", UserID: "U1", DishName: "Pizza", Status: domain.OrderCooking, UpdatedAt: t0},
		domain.Order{ID: "new", UserID: "U2", DishName: "Pizza", Status: domain.OrderReceived, UpdatedAt: t0.Add(50 * time.Minute)},
		domain.Order{ID: "done", UserID: "U3", DishName: "Soup", Status: domain.OrderReady, UpdatedAt: t0},
		domain.Order{ID: "cook", UserID: "U4", DishName: "Soup", Status: domain.OrderCooking, UpdatedAt: t0.Add(time.Hour)},
	)

	stale := l.Stale(30*time.Minute, t0.Add(time.Hour))
	if len(stale) != 1 || stale[0].ID != "old" {
		t.Fatalf("expected only the old order, got %+v", stale)
	}

	counts := l.Counts()
	if counts[domain.OrderCooking] != 2 || counts[domain.OrderReceived] != 1 || counts[domain.OrderReady] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
