package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store, err := NewFileStore(filepath.Join(t.TempDir(), "data"), log)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	return store
}

func TestFileStoreRepositories(t *testing.T) {
	testRepositories(t, newFileStore(t))
}

func TestFileStoreWritesHeader(t *testing.T) {
	store := newFileStore(t)
	ctx := context.Background()

	if err := store.SaveStock(ctx, []domain.Ingredient{{Name: "Tomato", Amount: 10}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(store.Dir(), StockFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 record, got %d lines: %q", len(lines), raw)
	}
	if lines[0] != `{"format":"ottoserve","kind":"stock","version":1}` {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != `{"name":"Tomato","amount":10}` {
		t.Fatalf("unexpected record %q", lines[1])
	}

	// No temp files are left behind.
	entries, _ := os.ReadDir(store.Dir())
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStoreRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong kind", `{"format":"ottoserve","kind":"menu","version":1}` + "\n"},
		{"future version", `{"format":"ottoserve","kind":"stock","version":99}` + "\n"},
		{"foreign format", `{"format":"other","kind":"stock","version":1}` + "\n"},
		{"legacy text", "Tomato_10\n"},
		{"corrupt record", `{"format":"ottoserve","kind":"stock","version":1}` + "\n{\"name\":\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFileStore(t)
			path := filepath.Join(store.Dir(), StockFile)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			_, err := store.LoadStock(context.Background())
			if !errors.Is(err, domain.ErrStorage) {
				t.Fatalf("expected ErrStorage, got %v", err)
			}
			var ioErr *domain.IOError
			if !errors.As(err, &ioErr) || ioErr.Path != path {
				t.Fatalf("expected IOError for %s, got %v", path, err)
			}
		})
	}
}

func TestFileStoreRejectsUnknownStatus(t *testing.T) {
	store := newFileStore(t)
	content := `{"format":"ottoserve","kind":"orders","version":1}` + "\n" +
		`{"id":"x","user_id":"U1","dish":"Pizza","status":7}` + "\n"
	if err := os.WriteFile(filepath.Join(store.Dir(), OrdersFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.LoadOrders(context.Background()); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected wrapped ErrInvalid, got %v", err)
	}
}

func TestFileStoreSkipsCorruptedUsers(t *testing.T) {
	store := newFileStore(t)
	content := `{"format":"ottoserve","kind":"users","version":1}` + "\n" +
		`{"id":"AB12345","username":"nigar.aliyeva","gender":"Female","birthdate":"2000-02-29"}` + "\n" +
		`{"id":"CD12345","username":"bad.gender","gender":"Robot","birthdate":"1990-05-04"}` + "\n" +
		`{"id":"EF12345","username":"bad.birthdate","gender":"Male","birthdate":"someday"}` + "\n" +
		`{"id":"GH12345","username":"karim.aliyev","gender":"Male","birthdate":"1990-05-04"}` + "\n"
	if err := os.WriteFile(filepath.Join(store.Dir(), UsersFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	users, err := store.LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 2 || users[0].ID != "AB12345" || users[1].ID != "GH12345" {
		t.Fatalf("expected the two readable users, got %+v", users)
	}
}
