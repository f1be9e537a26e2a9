package storage

import (
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/ottoserve/internal/logger"
)

func TestSQLStoreRepositories(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ottoserve.db"), log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	testRepositories(t, store)
}
