// Package storage provides persistence backends for the stock, menu, order
// ledger and user registry. Every backend stores whole snapshots: the owning
// manager hands over its full state on each mutation.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Compile-time interface check.
var _ domain.Repositories = (*MemoryStore)(nil)

// MemoryStore keeps snapshots in memory. Safe for concurrent access. Used by
// tests and by -store=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	stock  []domain.Ingredient
	dishes []domain.Dish
	orders []domain.Order
	users  []domain.User
	log    *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// LoadStock returns a copy of the saved stock.
func (s *MemoryStore) LoadStock(ctx context.Context) ([]domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ingredient(nil), s.stock...), nil
}

// SaveStock replaces the saved stock.
func (s *MemoryStore) SaveStock(ctx context.Context, stock []domain.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving stock snapshot, count=%d", len(stock))
	s.stock = append([]domain.Ingredient(nil), stock...)
	return nil
}

// LoadMenu returns a copy of the saved menu.
func (s *MemoryStore) LoadMenu(ctx context.Context) ([]domain.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDishes(s.dishes), nil
}

// SaveMenu replaces the saved menu.
func (s *MemoryStore) SaveMenu(ctx context.Context, dishes []domain.Dish) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving menu snapshot, count=%d", len(dishes))
	s.dishes = cloneDishes(dishes)
	return nil
}

// LoadOrders returns a copy of the saved ledger.
func (s *MemoryStore) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order(nil), s.orders...), nil
}

// SaveOrders replaces the saved ledger.
func (s *MemoryStore) SaveOrders(ctx context.Context, orders []domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving order snapshot, count=%d", len(orders))
	s.orders = append([]domain.Order(nil), orders...)
	return nil
}

// LoadUsers returns a copy of the saved users.
func (s *MemoryStore) LoadUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...), nil
}

// SaveUsers replaces the saved users.
func (s *MemoryStore) SaveUsers(ctx context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving user snapshot, count=%d", len(users))
	s.users = append([]domain.User(nil), users...)
	return nil
}

func cloneDishes(in []domain.Dish) []domain.Dish {
	if in == nil {
		return nil
	}
	out := make([]domain.Dish, len(in))
	for i := range in {
		out[i] = *in[i].Clone()
	}
	return out
}
