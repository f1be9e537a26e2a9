package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
)

// testRepositories saves one snapshot of each kind and checks it loads back
// unchanged. Shared by every backend.
func testRepositories(t *testing.T, repo domain.Repositories) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 12, 30, 0, 0, time.UTC)

	// Empty backend loads as empty.
	if stock, err := repo.LoadStock(ctx); err != nil || len(stock) != 0 {
		t.Fatalf("empty stock: got %v (%v)", stock, err)
	}

	stock := []domain.Ingredient{
		{Name: "Tomato", Amount: 10},
		{Name: "sun_dried tomato", Amount: 2.5},
		{Name: "Cheese", Amount: 5},
	}
	if err := repo.SaveStock(ctx, stock); err != nil {
		t.Fatalf("save stock: %v", err)
	}
	gotStock, err := repo.LoadStock(ctx)
	if err != nil {
		t.Fatalf("load stock: %v", err)
	}
	if len(gotStock) != len(stock) {
		t.Fatalf("expected %d ingredients, got %d", len(stock), len(gotStock))
	}
	for i := range stock {
		if gotStock[i] != stock[i] {
			t.Fatalf("ingredient %d: expected %+v, got %+v", i, stock[i], gotStock[i])
		}
	}

	dishes := []domain.Dish{
		{Name: "Pizza_Margherita", Description: "tomato_cheese", Price: 12.5, Ingredients: []domain.Ingredient{
			{Name: "Tomato", Amount: 3}, {Name: "Cheese", Amount: 2},
		}},
		{Name: "Water", Description: "Still", Price: 1},
	}
	if err := repo.SaveMenu(ctx, dishes); err != nil {
		t.Fatalf("save menu: %v", err)
	}
	gotMenu, err := repo.LoadMenu(ctx)
	if err != nil {
		t.Fatalf("load menu: %v", err)
	}
	if len(gotMenu) != 2 {
		t.Fatalf("expected 2 dishes, got %d", len(gotMenu))
	}
	if gotMenu[0].Name != "Pizza_Margherita" || gotMenu[0].Description != "tomato_cheese" {
		t.Fatalf("dish 0 mangled: %+v", gotMenu[0])
	}
	if len(gotMenu[0].Ingredients) != 2 || gotMenu[0].Ingredients[1] != (domain.Ingredient{Name: "Cheese", Amount: 2}) {
		t.Fatalf("dish 0 recipe mangled: %+v", gotMenu[0].Ingredients)
	}
	if len(gotMenu[1].Ingredients) != 0 {
		t.Fatalf("dish 1 should have no ingredients, got %+v", gotMenu[1].Ingredients)
	}

	orders := []domain.Order{
		{ID: "b", UserID: "U1", DishName: "Pizza_Margherita", Status: domain.OrderPreparing, PlacedAt: now, UpdatedAt: now.Add(time.Minute)},
		{ID: "a", UserID: "U2", DishName: "Water", Status: domain.OrderReady, PlacedAt: now, UpdatedAt: now},
	}
	if err := repo.SaveOrders(ctx, orders); err != nil {
		t.Fatalf("save orders: %v", err)
	}
	gotOrders, err := repo.LoadOrders(ctx)
	if err != nil {
		t.Fatalf("load orders: %v", err)
	}
	if len(gotOrders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(gotOrders))
	}
	for i := range orders {
		want, got := orders[i], gotOrders[i]
		if got.ID != want.ID || got.UserID != want.UserID || got.DishName != want.DishName || got.Status != want.Status {
			t.Fatalf("order %d: expected %+v, got %+v", i, want, got)
		}
		if !got.UpdatedAt.Equal(want.UpdatedAt) || !got.PlacedAt.Equal(want.PlacedAt) {
			t.Fatalf("order %d timestamps: expected %v/%v, got %v/%v", i, want.PlacedAt, want.UpdatedAt, got.PlacedAt, got.UpdatedAt)
		}
	}

	users := []domain.User{{
		ID: "AB12345", Username: "johnsmith", Password: "secret123", Email: "john@gmail.com",
		Name: "John", Surname: "Smith", Phone: "+994501234567", Gender: domain.GenderFemale,
		Birthdate: time.Date(1990, time.May, 4, 0, 0, 0, 0, time.UTC), Card: "4111",
	}}
	if err := repo.SaveUsers(ctx, users); err != nil {
		t.Fatalf("save users: %v", err)
	}
	gotUsers, err := repo.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(gotUsers) != 1 {
		t.Fatalf("expected 1 user, got %d", len(gotUsers))
	}
	u := gotUsers[0]
	if u.ID != "AB12345" || u.Email != "john@gmail.com" || u.Gender != domain.GenderFemale || u.Card != "4111" {
		t.Fatalf("user mangled: %+v", u)
	}
	if y, m, d := u.Birthdate.Date(); y != 1990 || m != time.May || d != 4 {
		t.Fatalf("birthdate mangled: %v", u.Birthdate)
	}

	// Saving a shorter snapshot replaces, not merges.
	if err := repo.SaveStock(ctx, stock[:1]); err != nil {
		t.Fatalf("save shorter stock: %v", err)
	}
	if gotStock, _ := repo.LoadStock(ctx); len(gotStock) != 1 {
		t.Fatalf("expected snapshot replace, got %d ingredients", len(gotStock))
	}
}
