// Package stock implements the ingredient store: quantities on hand keyed by
// case-insensitive name, persisted as a full snapshot after every change.
package stock

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Store owns the ingredient stock. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items []domain.Ingredient // insertion order, as persisted
	index map[string]int      // ingredient key -> position in items
	repo  domain.StockRepository
	log   *logger.Logger
}

// Receipt records what a recipe debit took, aggregated per ingredient, so
// the debit can be refunded if a later step fails.
type Receipt struct {
	Lines []domain.Ingredient
}

// Open loads the stock snapshot from repo. Rows with an empty name or a
// negative amount are skipped; repeated names are merged.
func Open(ctx context.Context, repo domain.StockRepository, log *logger.Logger) (*Store, error) {
	rows, err := repo.LoadStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stock: %w", err)
	}

	s := &Store{
		index: make(map[string]int),
		repo:  repo,
		log:   log,
	}
	for _, row := range rows {
		key := row.Key()
		if key == "" || row.Amount < 0 {
			log.Warn("skipping corrupted stock row %+v", row)
			continue
		}
		row.Amount = domain.RoundAmount(row.Amount)
		if i, ok := s.index[key]; ok {
			s.items[i].Amount = domain.RoundAmount(s.items[i].Amount + row.Amount)
			continue
		}
		s.index[key] = len(s.items)
		s.items = append(s.items, row)
	}
	log.Debug("stock loaded, count=%d", len(s.items))
	return s, nil
}

// Credit adds amount to an existing ingredient, or inserts a new one.
func (s *Store) Credit(ctx context.Context, name string, amount float64) (domain.Ingredient, error) {
	ing, err := domain.NewIngredient(name, amount)
	if err != nil {
		return domain.Ingredient{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.Ingredient
	err = s.mutate(ctx, func() error {
		out = s.credit(ing)
		return nil
	})
	if err != nil {
		return domain.Ingredient{}, err
	}
	s.log.Info("credited %g %s (now %g)", amount, out.Name, out.Amount)
	return out, nil
}

// Debit removes amount from an ingredient. It never drives the quantity
// below zero.
func (s *Store) Debit(ctx context.Context, name string, amount float64) (domain.Ingredient, error) {
	if !domain.IsPositive(amount) {
		return domain.Ingredient{}, &domain.ValidationError{Field: "ingredient amount", Reason: "must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out domain.Ingredient
	err := s.mutate(ctx, func() error {
		i, err := s.check(name, amount)
		if err != nil {
			return err
		}
		s.items[i].Amount = domain.RoundAmount(s.items[i].Amount - amount)
		out = s.items[i]
		return nil
	})
	if err != nil {
		return domain.Ingredient{}, err
	}
	s.log.Info("debited %g %s (now %g)", amount, out.Name, out.Amount)
	return out, nil
}

// DebitRecipe debits every recipe line or none of them. All lines are
// checked before anything is changed; the first line that cannot be covered
// (in listed order) is reported. Lines naming the same ingredient are summed.
func (s *Store) DebitRecipe(ctx context.Context, recipe []domain.Ingredient) (*Receipt, error) {
	lines, err := aggregate(recipe)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return &Receipt{}, nil
	}

	// Phase one: every line must be covered.
	positions := make([]int, len(lines))
	for n, line := range lines {
		i, err := s.check(line.Name, line.Amount)
		if err != nil {
			s.log.Debug("recipe debit rejected: %v", err)
			return nil, err
		}
		positions[n] = i
	}

	// Phase two: commit all.
	rec := &Receipt{}
	err = s.mutate(ctx, func() error {
		for n, line := range lines {
			i := positions[n]
			s.items[i].Amount = domain.RoundAmount(s.items[i].Amount - line.Amount)
			rec.Lines = append(rec.Lines, domain.Ingredient{Name: s.items[i].Name, Amount: line.Amount})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("debited recipe of %d ingredient(s)", len(rec.Lines))
	return rec, nil
}

// Refund credits back everything a receipt took.
func (s *Store) Refund(ctx context.Context, rec *Receipt) error {
	if rec == nil || len(rec.Lines) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate(ctx, func() error {
		for _, line := range rec.Lines {
			s.credit(line)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("refunded %d ingredient(s)", len(rec.Lines))
	return nil
}

// Check reports whether the whole recipe could be debited right now,
// without changing anything.
func (s *Store) Check(recipe []domain.Ingredient) error {
	lines, err := aggregate(recipe)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, line := range lines {
		if _, err := s.check(line.Name, line.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Get returns an ingredient by name, ignoring case.
func (s *Store) Get(name string) (domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[domain.IngredientKey(name)]
	if !ok {
		return domain.Ingredient{}, &domain.NotFoundError{Entity: "ingredient", Key: name}
	}
	return s.items[i], nil
}

// List returns every ingredient in insertion order.
func (s *Store) List() []domain.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ingredient(nil), s.items...)
}

// Low returns ingredients whose quantity is below threshold.
func (s *Store) Low(threshold float64) []domain.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Ingredient
	for _, ing := range s.items {
		if ing.Amount < threshold {
			out = append(out, ing)
		}
	}
	return out
}

// check returns the position of name if amount can be taken from it.
// Callers hold s.mu.
func (s *Store) check(name string, amount float64) (int, error) {
	i, ok := s.index[domain.IngredientKey(name)]
	if !ok {
		return 0, &domain.NotFoundError{Entity: "ingredient", Key: name}
	}
	if have := s.items[i].Amount; domain.RoundAmount(amount) > have {
		return 0, &domain.InsufficientStockError{Ingredient: s.items[i].Name, Required: amount, Available: have}
	}
	return i, nil
}

// credit adds ing to the stock and returns the resulting entry. Callers hold
// s.mu for writing.
func (s *Store) credit(ing domain.Ingredient) domain.Ingredient {
	key := ing.Key()
	ing.Amount = domain.RoundAmount(ing.Amount)
	if i, ok := s.index[key]; ok {
		s.items[i].Amount = domain.RoundAmount(s.items[i].Amount + ing.Amount)
		return s.items[i]
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, ing)
	return ing
}

// mutate applies fn and persists the result. If fn or the save fails, the
// in-memory stock is restored. Callers hold s.mu for writing.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	prevItems := append([]domain.Ingredient(nil), s.items...)
	prevIndex := make(map[string]int, len(s.index))
	for k, v := range s.index {
		prevIndex[k] = v
	}
	restore := func() {
		s.items = prevItems
		s.index = prevIndex
	}

	if err := fn(); err != nil {
		restore()
		return err
	}
	if err := s.repo.SaveStock(ctx, s.items); err != nil {
		restore()
		s.log.Error("saving stock: %v", err)
		return fmt.Errorf("saving stock: %w", err)
	}
	return nil
}

// aggregate validates recipe lines and sums repeated ingredients, keeping the
// order of first appearance.
func aggregate(recipe []domain.Ingredient) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	seen := make(map[string]int)
	for _, line := range recipe {
		if err := line.Validate(); err != nil {
			return nil, err
		}
		key := line.Key()
		if i, ok := seen[key]; ok {
			out[i].Amount = domain.RoundAmount(out[i].Amount + line.Amount)
			continue
		}
		seen[key] = len(out)
		line.Amount = domain.RoundAmount(line.Amount)
		out = append(out, line)
	}
	return out, nil
}
