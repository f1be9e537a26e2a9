// Package menu holds the ordered dish list offered to customers.
package menu

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Menu is an ordered collection of dishes keyed by name. Lookups scan in
// order and the first match wins; duplicate names are allowed. Safe for
// concurrent use.
type Menu struct {
	mu     sync.RWMutex
	dishes []*domain.Dish
	repo   domain.MenuRepository
	log    *logger.Logger
}

// Open loads the saved menu from repo. Dishes that fail validation are
// skipped.
func Open(ctx context.Context, repo domain.MenuRepository, log *logger.Logger) (*Menu, error) {
	saved, err := repo.LoadMenu(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading menu: %w", err)
	}

	m := &Menu{repo: repo, log: log}
	for i := range saved {
		d := saved[i].Clone()
		if err := d.Validate(); err != nil {
			log.Warn("skipping corrupted dish %q: %v", d.Name, err)
			continue
		}
		m.dishes = append(m.dishes, d)
	}
	log.Debug("menu loaded, count=%d", len(m.dishes))
	return m, nil
}

// Add appends a dish to the menu.
func (m *Menu) Add(ctx context.Context, d *domain.Dish) error {
	if d == nil {
		return &domain.ValidationError{Field: "dish", Reason: "cannot be empty"}
	}
	if err := d.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.dishes
	m.dishes = append(append([]*domain.Dish(nil), prev...), d.Clone())
	if err := m.save(ctx); err != nil {
		m.dishes = prev
		return err
	}
	m.log.Info("dish added: %s (%.2f)", d.Name, d.Price)
	return nil
}

// Edit changes the description and price of the first dish named name.
func (m *Menu) Edit(ctx context.Context, name, description string, price float64) (*domain.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.find(name)
	if !ok {
		return nil, &domain.NotFoundError{Entity: "dish", Key: name}
	}

	edited := m.dishes[i].Clone()
	edited.Description = strings.TrimSpace(description)
	edited.Price = price
	if err := edited.Validate(); err != nil {
		return nil, err
	}

	prev := m.dishes[i]
	m.dishes[i] = edited
	if err := m.save(ctx); err != nil {
		m.dishes[i] = prev
		return nil, err
	}
	m.log.Info("dish updated: %s (%.2f)", edited.Name, edited.Price)
	return edited.Clone(), nil
}

// Remove deletes the first dish named name.
func (m *Menu) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.find(name)
	if !ok {
		return &domain.NotFoundError{Entity: "dish", Key: name}
	}

	prev := m.dishes
	next := make([]*domain.Dish, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	m.dishes = append(next, prev[i+1:]...)
	if err := m.save(ctx); err != nil {
		m.dishes = prev
		return err
	}
	m.log.Info("dish removed: %s", name)
	return nil
}

// List returns copies of every dish in menu order.
func (m *Menu) List() []domain.Dish {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Dish, 0, len(m.dishes))
	for _, d := range m.dishes {
		out = append(out, *d.Clone())
	}
	return out
}

// Get returns a copy of the first dish named name.
func (m *Menu) Get(name string) (*domain.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.find(name)
	if !ok {
		m.log.Debug("dish not found: %s", name)
		return nil, &domain.NotFoundError{Entity: "dish", Key: name}
	}
	return m.dishes[i].Clone(), nil
}

// At returns a copy of the dish at index, counting from zero as List does.
func (m *Menu) At(index int) (*domain.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index < 0 || index >= len(m.dishes) {
		return nil, &domain.NotFoundError{Entity: "dish number", Key: strconv.Itoa(index)}
	}
	return m.dishes[index].Clone(), nil
}

// Len returns the number of dishes.
func (m *Menu) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.dishes)
}

// Seed fills an empty menu with the built-in sample dishes and reports how
// many were added. A menu that already has dishes is left alone.
func (m *Menu) Seed(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.dishes) > 0 {
		return 0, nil
	}
	samples := sampleDishes()
	m.dishes = samples
	if err := m.save(ctx); err != nil {
		m.dishes = nil
		return 0, err
	}
	m.log.Debug("seeded %d dishes", len(samples))
	return len(samples), nil
}

// find returns the index of the first dish named name. Callers hold m.mu.
func (m *Menu) find(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, d := range m.dishes {
		if d.Name == name {
			return i, true
		}
	}
	return 0, false
}

// save writes the full menu through the repository. Callers hold m.mu.
func (m *Menu) save(ctx context.Context) error {
	snapshot := make([]domain.Dish, 0, len(m.dishes))
	for _, d := range m.dishes {
		snapshot = append(snapshot, *d)
	}
	if err := m.repo.SaveMenu(ctx, snapshot); err != nil {
		m.log.Error("saving menu: %v", err)
		return fmt.Errorf("saving menu: %w", err)
	}
	return nil
}
