// OttoServe is a console restaurant ordering simulator: customers order from
// the menu, the admin runs the kitchen, and stock is debited as orders move.
//
// Usage:
//
//	ottoserve [-data-dir DIR] [-store file|sqlite|memory] [-seed] [-import-legacy DIR] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/ottoserve/internal/conversation"
	"github.com/hammamikhairi/ottoserve/internal/display"
	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/engine"
	"github.com/hammamikhairi/ottoserve/internal/logger"
	"github.com/hammamikhairi/ottoserve/internal/menu"
	"github.com/hammamikhairi/ottoserve/internal/monitor"
	"github.com/hammamikhairi/ottoserve/internal/order"
	"github.com/hammamikhairi/ottoserve/internal/stock"
	"github.com/hammamikhairi/ottoserve/internal/storage"
	"github.com/hammamikhairi/ottoserve/internal/user"
)

func main() {
	_ = godotenv.Load()

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.logFile != "" && cfg.logFile != "stderr" {
		dir := filepath.Dir(cfg.logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libraries that use the default log package go to the
	// same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logger.ParseLevel(cfg.verbose, cfg.quiet), logOut)

	// Set up context, cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	k, closeStore, err := openKitchen(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	status := newKitchenStatus(k.ledger, k.stock, cfg.lowStock)

	var con console
	var ui *display.UI
	if cfg.plain || !term.IsTerminal(os.Stdin.Fd()) {
		con = display.NewPlain(os.Stdin, os.Stdout)
	} else {
		ui = display.NewUI(status)
		con = ui
	}

	notifier := conversation.NewCLINotifier(log.With("notify"), con.PrintChat, con.PrintUrgent)
	eng := engine.New(k.stock, k.menu, k.ledger, log.With("engine"), engine.WithNotifier(notifier))

	if cfg.monitorInterval > 0 {
		supervisor := monitor.New(k.stock, notifier, log.With("monitor"),
			monitor.WithTickInterval(cfg.monitorInterval),
			monitor.WithLowStockThreshold(cfg.lowStock),
			monitor.WithWatcher(k.ledger,
				monitor.WithWatchInterval(cfg.monitorInterval*2),
				monitor.WithStaleAfter(cfg.staleAfter),
			),
		)
		supervisor.Start(ctx)
		defer supervisor.Stop()
	}

	app := &cliApp{
		engine:   eng,
		menu:     k.menu,
		stock:    k.stock,
		users:    k.users,
		parser:   conversation.NewKeywordParser(log.With("parser")),
		con:      con,
		status:   status,
		lowStock: cfg.lowStock,
		log:      log,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for the menu, 'quit' to go back or exit."))
	fmt.Println()

	if ui == nil {
		app.run(ctx)
		return
	}

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// kitchen bundles the managers built over one storage backend.
type kitchen struct {
	stock  *stock.Store
	menu   *menu.Menu
	ledger *order.Ledger
	users  *user.Registry
}

// openKitchen opens the configured backend, runs the legacy import and
// seeding if asked, and loads every manager.
func openKitchen(ctx context.Context, cfg *config, log *logger.Logger) (*kitchen, func(), error) {
	repo, closeFn, err := openStore(cfg, log.With("storage"))
	if err != nil {
		return nil, nil, err
	}
	fail := func(err error) (*kitchen, func(), error) {
		closeFn()
		return nil, nil, err
	}

	if cfg.importLegacy != "" {
		rep, err := storage.ImportLegacy(ctx, cfg.importLegacy, repo, log.With("legacy"), time.Now())
		if err != nil {
			return fail(fmt.Errorf("importing legacy data: %w", err))
		}
		fmt.Printf("Imported %d ingredients, %d dishes, %d orders and %d users from %s.\n",
			rep.Ingredients, rep.Dishes, rep.Orders, rep.Users, cfg.importLegacy)
		for _, s := range rep.Skipped {
			fmt.Printf("  skipped %s\n", s)
		}
	}

	k := &kitchen{}
	if k.stock, err = stock.Open(ctx, repo, log.With("stock")); err != nil {
		return fail(err)
	}
	if k.menu, err = menu.Open(ctx, repo, log.With("menu")); err != nil {
		return fail(err)
	}
	if k.ledger, err = order.Open(ctx, repo, log.With("orders")); err != nil {
		return fail(err)
	}
	k.users, err = user.Open(ctx, repo, log.With("users"), user.WithAdmin(cfg.adminUser, cfg.adminPassword))
	if err != nil {
		return fail(err)
	}

	if cfg.seed {
		if err := seed(ctx, k); err != nil {
			return fail(fmt.Errorf("seeding: %w", err))
		}
	}
	return k, closeFn, nil
}

func openStore(cfg *config, log *logger.Logger) (domain.Repositories, func(), error) {
	switch cfg.store {
	case storeMemory:
		return storage.NewMemoryStore(log), func() {}, nil
	case storeSQLite:
		if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data dir: %w", err)
		}
		s, err := storage.OpenSQLite(filepath.Join(cfg.dataDir, "ottoserve.db"), log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Error("closing database: %v", err)
			}
		}, nil
	default:
		s, err := storage.NewFileStore(cfg.dataDir, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}

// seed fills an empty menu and an empty stock with the sample data.
func seed(ctx context.Context, k *kitchen) error {
	if _, err := k.menu.Seed(ctx); err != nil {
		return err
	}
	if len(k.stock.List()) > 0 {
		return nil
	}
	for _, ing := range menu.SampleStock() {
		if _, err := k.stock.Credit(ctx, ing.Name, ing.Amount); err != nil {
			return err
		}
	}
	return nil
}
