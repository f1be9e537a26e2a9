package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

var importTime = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

func TestParseLegacyIngredient(t *testing.T) {
	tests := []struct {
		line    string
		want    domain.Ingredient
		wantErr bool
	}{
		{"Tomato_10", domain.Ingredient{Name: "Tomato", Amount: 10}, false},
		{"Olive oil_2.5", domain.Ingredient{Name: "Olive oil", Amount: 2.5}, false},
		{"Tomato", domain.Ingredient{}, true},
		{"Tomato_lots", domain.Ingredient{}, true},
		{"Olive_Oil_5", domain.Ingredient{Name: "Olive_Oil", Amount: 5}, false},
		{"Tomato_0", domain.Ingredient{Name: "Tomato", Amount: 0}, false},
		{"Tomato_-1", domain.Ingredient{}, true},
		{"_0", domain.Ingredient{}, true},
		{"_3", domain.Ingredient{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseLegacyIngredient(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseLegacyDish(t *testing.T) {
	d, err := ParseLegacyDish("Pizza_Cheese and tomato_12.5_Tomato:3_Cheese:2_junk")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Name != "Pizza" || d.Description != "Cheese and tomato" || d.Price != 12.5 {
		t.Fatalf("unexpected dish: %+v", d)
	}
	want := []domain.Ingredient{{Name: "Tomato", Amount: 3}, {Name: "Cheese", Amount: 2}}
	if len(d.Ingredients) != len(want) {
		t.Fatalf("expected %d ingredients, got %+v", len(want), d.Ingredients)
	}
	for i := range want {
		if d.Ingredients[i] != want[i] {
			t.Fatalf("ingredient %d: expected %+v, got %+v", i, want[i], d.Ingredients[i])
		}
	}

	for _, bad := range []string{"Pizza_desc", "Pizza_desc_free", "Pizza_desc_-1", "Pizza_desc_3_Tomato:x"} {
		if _, err := ParseLegacyDish(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseLegacyOrderReady(t *testing.T) {
	o, err := ParseLegacyOrder("U2_Burger_4", importTime)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if o.UserID != "U2" || o.DishName != "Burger" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if o.Status != domain.OrderReady {
		t.Fatalf("expected Ready, got %s", o.Status)
	}
	if o.ID == "" {
		t.Fatal("expected an assigned order ID")
	}

	for _, bad := range []string{"U2", "U2_Burger", "U2_Burger_9", "U2_Burger_x"} {
		if _, err := ParseLegacyOrder(bad, importTime); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseLegacyOrderNames(t *testing.T) {
	tests := []struct {
		line    string
		user    string
		dish    string
		status  domain.OrderStatus
		wantErr bool
	}{
		{"U1ABCDE_Veggie_Burger_2", "U1ABCDE", "Veggie_Burger", domain.OrderCooking, false},
		{"U1_Pizza_0", "U1", "Pizza", domain.OrderReceived, false},
		{"U1_Pizza", "", "", 0, true},
		{"U1_Pizza_9", "", "", 0, true},
		{"U1__3", "", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			o, err := ParseLegacyOrder(tt.line, importTime)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", o)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.UserID != tt.user || o.DishName != tt.dish || o.Status != tt.status {
				t.Fatalf("expected %s/%s/%s, got %s/%s/%s", tt.user, tt.dish, tt.status, o.UserID, o.DishName, o.Status)
			}
		})
	}
}

func TestParseLegacyUser(t *testing.T) {
	u, err := ParseLegacyUser("AB12345_johnsmith_secret123_john@gmail.com_John_Smith_+994501234567_Male_4/5/1990")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.ID != "AB12345" || u.Username != "johnsmith" || u.Phone != "+994501234567" || u.Gender != domain.GenderMale {
		t.Fatalf("unexpected user: %+v", u)
	}
	if y, m, d := u.Birthdate.Date(); y != 1990 || m != time.May || d != 4 {
		t.Fatalf("unexpected birthdate: %v", u.Birthdate)
	}

	for _, bad := range []string{
		"AB12345_johnsmith",
		"AB12345_johnsmith_secret123_john@gmail.com_John_Smith_+994501234567_Male_someday",
		"AB12345_johnsmith_secret123_john@gmail.com_John_Smith_+994501234567_Male_31/2/1990",
	} {
		if _, err := ParseLegacyUser(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseLegacySkipsBadLines(t *testing.T) {
	in := "Tomato_10\n\nbroken\nCheese_5\r\n"
	got, skipped, err := ParseLegacy(strings.NewReader(in), ParseLegacyIngredient)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Cheese" {
		t.Fatalf("expected Tomato and Cheese, got %+v", got)
	}
	if len(skipped) != 1 || !strings.HasPrefix(skipped[0], "3:") {
		t.Fatalf("expected line 3 skipped, got %v", skipped)
	}
}

func TestImportLegacy(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		LegacyStockFile:  "Tomato_10\nCheese_5\n",
		LegacyMenuFile:   "Pizza_Cheese and tomato_12.5_Tomato:3_Cheese:2\n",
		LegacyOrdersFile: "U2_Burger_4\nU1_Pizza_0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	log := logger.New(logger.LevelOff, nil)
	dst := NewMemoryStore(log)
	ctx := context.Background()

	// Existing users must survive an import that has no user file.
	existing := []domain.User{{ID: "ZZ99999"}}
	if err := dst.SaveUsers(ctx, existing); err != nil {
		t.Fatalf("seed users: %v", err)
	}

	rep, err := ImportLegacy(ctx, dir, dst, log, importTime)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if rep.Ingredients != 2 || rep.Dishes != 1 || rep.Orders != 2 || rep.Users != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	orders, _ := dst.LoadOrders(ctx)
	if len(orders) != 2 || orders[0].Status != domain.OrderReady || orders[1].Status != domain.OrderReceived {
		t.Fatalf("unexpected orders: %+v", orders)
	}
	users, _ := dst.LoadUsers(ctx)
	if len(users) != 1 || users[0].ID != "ZZ99999" {
		t.Fatalf("users were overwritten: %+v", users)
	}
}

func TestImportLegacyUnreadableDir(t *testing.T) {
	dir := t.TempDir()
	// A directory where a file is expected cannot be read as text.
	if err := os.Mkdir(filepath.Join(dir, LegacyStockFile), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	log := logger.New(logger.LevelOff, nil)
	_, err := ImportLegacy(context.Background(), dir, NewMemoryStore(log), log, importTime)
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
