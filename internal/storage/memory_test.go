package storage

import (
	"context"
	"testing"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

func TestMemoryStoreRepositories(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	testRepositories(t, NewMemoryStore(log))
}

func TestMemoryStoreCopiesSnapshots(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	dishes := []domain.Dish{{Name: "Pizza", Description: "x", Price: 1, Ingredients: []domain.Ingredient{{Name: "Tomato", Amount: 3}}}}
	if err := store.SaveMenu(ctx, dishes); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's slice must not reach the store.
	dishes[0].Ingredients[0].Amount = 100

	loaded, err := store.LoadMenu(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded[0].Ingredients[0].Amount != 3 {
		t.Fatalf("expected stored amount 3, got %g", loaded[0].Ingredients[0].Amount)
	}

	// Nor mutating what Load returned.
	loaded[0].Ingredients[0].Amount = 50
	again, _ := store.LoadMenu(ctx)
	if again[0].Ingredients[0].Amount != 3 {
		t.Fatalf("load returned shared storage, got %g", again[0].Ingredients[0].Amount)
	}
}
