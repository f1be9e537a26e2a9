// Package order keeps the order ledger: every order ever placed, indexed by
// ID and by the user who placed it.
package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Ledger holds orders in placement order. Safe for concurrent use.
type Ledger struct {
	mu     sync.RWMutex
	orders []domain.Order
	byID   map[string]int
	repo   domain.OrderRepository
	log    *logger.Logger
}

// Open loads the saved ledger from repo. Orders without a user or dish, or
// with a repeated ID, are skipped. Orders without an ID get a fresh one.
func Open(ctx context.Context, repo domain.OrderRepository, log *logger.Logger) (*Ledger, error) {
	saved, err := repo.LoadOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading orders: %w", err)
	}

	l := &Ledger{
		byID: make(map[string]int),
		repo: repo,
		log:  log,
	}
	for _, o := range saved {
		if o.UserID == "" || o.DishName == "" || !o.Status.Valid() {
			log.Warn("skipping corrupted order %+v", o)
			continue
		}
		if o.ID == "" {
			o.ID = newID()
		}
		if _, dup := l.byID[o.ID]; dup {
			log.Warn("skipping duplicate order %s", o.ID)
			continue
		}
		l.byID[o.ID] = len(l.orders)
		l.orders = append(l.orders, o)
	}
	log.Debug("orders loaded, count=%d", len(l.orders))
	return l, nil
}

// Place records a new order at Received.
func (l *Ledger) Place(ctx context.Context, userID, dishName string, at time.Time) (domain.Order, error) {
	userID = strings.TrimSpace(userID)
	dishName = strings.TrimSpace(dishName)
	if userID == "" {
		return domain.Order{}, &domain.ValidationError{Field: "order user", Reason: "cannot be empty"}
	}
	if dishName == "" {
		return domain.Order{}, &domain.ValidationError{Field: "order dish", Reason: "cannot be empty"}
	}

	o := domain.Order{
		ID:        newID(),
		UserID:    userID,
		DishName:  dishName,
		Status:    domain.OrderReceived,
		PlacedAt:  at,
		UpdatedAt: at,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.byID[o.ID] = len(l.orders)
	l.orders = append(l.orders, o)
	if err := l.save(ctx); err != nil {
		l.orders = l.orders[:len(l.orders)-1]
		delete(l.byID, o.ID)
		return domain.Order{}, err
	}
	l.log.Info("order %s placed: user=%s dish=%s", o.ID, o.UserID, o.DishName)
	return o, nil
}

// Update replaces a stored order. The status may stay the same or move one
// step forward; the user and dish cannot change.
func (l *Ledger) Update(ctx context.Context, o domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.byID[o.ID]
	if !ok {
		return &domain.NotFoundError{Entity: "order", Key: o.ID}
	}
	prev := l.orders[i]
	if o.UserID != prev.UserID || o.DishName != prev.DishName {
		return &domain.ValidationError{Field: "order", Reason: "user and dish are fixed once placed"}
	}
	if o.Status != prev.Status && o.Status != prev.Status.Next() {
		return &domain.ValidationError{
			Field:  "order status",
			Reason: fmt.Sprintf("cannot move from %s to %s", prev.Status, o.Status),
		}
	}

	l.orders[i] = o
	if err := l.save(ctx); err != nil {
		l.orders[i] = prev
		return err
	}
	l.log.Debug("order %s updated: %s -> %s", o.ID, prev.Status, o.Status)
	return nil
}

// Current returns the most recently placed order of a user.
func (l *Ledger) Current(userID string) (domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.orders) - 1; i >= 0; i-- {
		if l.orders[i].UserID == userID {
			return l.orders[i], nil
		}
	}
	return domain.Order{}, &domain.NotFoundError{Entity: "order", Key: userID}
}

// All returns every order in placement order.
func (l *Ledger) All() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Order(nil), l.orders...)
}

// ForUser returns a user's orders in placement order.
func (l *Ledger) ForUser(userID string) []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.Order
	for _, o := range l.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Stale returns orders that are not Ready and have not changed for at least
// olderThan.
func (l *Ledger) Stale(olderThan time.Duration, now time.Time) []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.Order
	for _, o := range l.orders {
		if o.Status.Terminal() {
			continue
		}
		if now.Sub(o.UpdatedAt) >= olderThan {
			out = append(out, o)
		}
	}
	return out
}

// Counts returns the number of orders at each status.
func (l *Ledger) Counts() map[domain.OrderStatus]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[domain.OrderStatus]int, len(domain.OrderStatuses()))
	for _, o := range l.orders {
		out[o.Status]++
	}
	return out
}

// save writes the full ledger through the repository. Callers hold l.mu.
func (l *Ledger) save(ctx context.Context) error {
	if err := l.repo.SaveOrders(ctx, l.orders); err != nil {
		l.log.Error("saving orders: %v", err)
		return fmt.Errorf("saving orders: %w", err)
	}
	return nil
}
