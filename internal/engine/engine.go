// Package engine implements the order progression state machine: placing
// orders and moving them through the kitchen, debiting stock on the way.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
	"github.com/hammamikhairi/ottoserve/internal/stock"
)

// Stock is the part of the ingredient store the engine needs.
type Stock interface {
	DebitRecipe(ctx context.Context, recipe []domain.Ingredient) (*stock.Receipt, error)
	Refund(ctx context.Context, rec *stock.Receipt) error
}

// Menu resolves dishes by name.
type Menu interface {
	Get(name string) (*domain.Dish, error)
}

// Ledger stores orders.
type Ledger interface {
	Place(ctx context.Context, userID, dishName string, at time.Time) (domain.Order, error)
	Update(ctx context.Context, o domain.Order) error
	Current(userID string) (domain.Order, error)
	ForUser(userID string) []domain.Order
	All() []domain.Order
}

// Option configures the engine.
type Option func(*Engine)

// WithNotifier sets where progress messages go.
func WithNotifier(n domain.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithClock overrides the time source used for order timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine places and advances orders. It depends only on interfaces and is
// fully testable with in-memory stores.
type Engine struct {
	mu       sync.Mutex // serializes every order transition
	stock    Stock
	menu     Menu
	orders   Ledger
	notifier domain.Notifier
	now      func() time.Time
	log      *logger.Logger
}

// New creates an order engine with the given dependencies and options.
func New(st Stock, menu Menu, orders Ledger, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		stock:  st,
		menu:   menu,
		orders: orders,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PlaceOrder records a new order for the named dish. A user whose current
// order is not yet Ready cannot place another one.
func (e *Engine) PlaceOrder(ctx context.Context, userID, dishName string) (domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.menu.Get(dishName); err != nil {
		return domain.Order{}, fmt.Errorf("placing order: %w", err)
	}
	if cur, err := e.orders.Current(userID); err == nil && !cur.Status.Terminal() {
		e.log.Debug("user %s already has order %s at %s", userID, cur.ID, cur.Status)
		return domain.Order{}, fmt.Errorf("%w: %s is %s", domain.ErrOrderActive, cur.DishName, cur.Status)
	}

	o, err := e.orders.Place(ctx, userID, dishName, e.now())
	if err != nil {
		return domain.Order{}, fmt.Errorf("placing order: %w", err)
	}
	e.log.Info("order %s placed by %s for %s", o.ID, userID, dishName)
	return o, nil
}

// Advance moves the user's current order one status forward. Leaving
// Received debits the dish's recipe from stock; if the stock cannot cover it
// the order stays at Received. An order at Ready is returned unchanged.
func (e *Engine) Advance(ctx context.Context, userID string) (domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.orders.Current(userID)
	if err != nil {
		return domain.Order{}, err
	}

	if o.Status.Terminal() {
		e.log.Debug("order %s already ready", o.ID)
		e.notify(ctx, true, "Order for %s is ready for pickup!", o.DishName)
		return o, nil
	}

	var receipt *stock.Receipt
	if o.Status == domain.OrderReceived {
		dish, err := e.menu.Get(o.DishName)
		if err != nil {
			return o, fmt.Errorf("advancing order %s: %w", o.ID, err)
		}
		receipt, err = e.stock.DebitRecipe(ctx, dish.Ingredients)
		if err != nil {
			e.log.Warn("order %s cannot move to %s: %v", o.ID, o.Status.Next(), err)
			return o, fmt.Errorf("order cannot move to %s stage: %w", o.Status.Next(), err)
		}
	}

	next := o
	next.Status = o.Status.Next()
	next.UpdatedAt = e.now()
	if err := e.orders.Update(ctx, next); err != nil {
		if rerr := e.stock.Refund(ctx, receipt); rerr != nil {
			e.log.Error("refunding stock for order %s: %v", o.ID, rerr)
			return o, fmt.Errorf("advancing order %s: %w (refund failed: %v)", o.ID, err, rerr)
		}
		return o, fmt.Errorf("advancing order %s: %w", o.ID, err)
	}

	e.log.Info("order %s: %s -> %s", o.ID, o.Status, next.Status)
	if next.Status.Terminal() {
		e.notify(ctx, true, "Order for %s is ready for pickup!", next.DishName)
	} else {
		e.notify(ctx, false, "Order for %s progressed to status: %s", next.DishName, next.Status)
	}
	return next, nil
}

// Status returns the user's current order without changing anything.
func (e *Engine) Status(userID string) (domain.Order, error) {
	return e.orders.Current(userID)
}

// History returns a user's orders, oldest first.
func (e *Engine) History(userID string) []domain.Order {
	return e.orders.ForUser(userID)
}

// Orders returns every order in placement order.
func (e *Engine) Orders() []domain.Order {
	return e.orders.All()
}

func (e *Engine) notify(ctx context.Context, urgent bool, format string, args ...any) {
	if e.notifier == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	var err error
	if urgent {
		err = e.notifier.NotifyUrgent(ctx, msg)
	} else {
		err = e.notifier.Notify(ctx, msg)
	}
	if err != nil {
		e.log.Warn("notification failed: %v", err)
	}
}
