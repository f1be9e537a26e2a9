package main

import (
	"flag"
	"fmt"
	"io"
	"time"
)

// Environment variables read at startup (a .env file is loaded first).
const (
	envDataDir       = "OTTOSERVE_DATA_DIR"
	envAdminUser     = "OTTOSERVE_ADMIN_USER"
	envAdminPassword = "OTTOSERVE_ADMIN_PASSWORD"
)

// Storage backends selectable with -store.
const (
	storeFile   = "file"
	storeSQLite = "sqlite"
	storeMemory = "memory"
)

type config struct {
	dataDir         string
	store           string
	seed            bool
	importLegacy    string
	lowStock        float64
	monitorInterval time.Duration
	staleAfter      time.Duration
	plain           bool
	verbose         bool
	quiet           bool
	logFile         string
	adminUser       string
	adminPassword   string
}

// parseConfig reads flags from args with defaults taken from the
// environment.
func parseConfig(args []string, getenv func(string) string, errOut io.Writer) (*config, error) {
	cfg := &config{
		dataDir:       orDefault(getenv(envDataDir), ".ottoserve"),
		adminUser:     orDefault(getenv(envAdminUser), "admin"),
		adminPassword: orDefault(getenv(envAdminPassword), "admin"),
	}

	fs := flag.NewFlagSet("ottoserve", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&cfg.dataDir, "data-dir", cfg.dataDir, "directory holding the data files (env "+envDataDir+")")
	fs.StringVar(&cfg.store, "store", storeFile, "storage backend: file, sqlite or memory")
	fs.BoolVar(&cfg.seed, "seed", false, "fill an empty menu and stock with sample data")
	fs.StringVar(&cfg.importLegacy, "import-legacy", "", "import the old underscore-separated .txt files from this directory")
	fs.Float64Var(&cfg.lowStock, "low-stock", 3, "quantity below which an ingredient counts as low")
	fs.DurationVar(&cfg.monitorInterval, "monitor-interval", 30*time.Second, "how often to check for low stock (0 disables the kitchen monitor)")
	fs.DurationVar(&cfg.staleAfter, "stale-after", 15*time.Minute, "how long an order may sit at one status before the kitchen is nudged")
	fs.BoolVar(&cfg.plain, "plain", false, "line-oriented console without the status bar")
	fs.BoolVar(&cfg.verbose, "verbose", false, "enable verbose/debug logging")
	fs.BoolVar(&cfg.quiet, "quiet", false, "disable all logging")
	fs.StringVar(&cfg.logFile, "log-file", ".ottoserve/ottoserve.log", "file to write logs to (use \"stderr\" to log to console)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch cfg.store {
	case storeFile, storeSQLite, storeMemory:
	default:
		return nil, fmt.Errorf("unknown -store %q (want file, sqlite or memory)", cfg.store)
	}
	if cfg.lowStock < 0 {
		return nil, fmt.Errorf("-low-stock must not be negative")
	}
	if cfg.staleAfter <= 0 {
		return nil, fmt.Errorf("-stale-after must be positive")
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
