package domain

import "context"

// StockRepository persists the full ingredient stock as one snapshot.
type StockRepository interface {
	LoadStock(ctx context.Context) ([]Ingredient, error)
	SaveStock(ctx context.Context, stock []Ingredient) error
}

// MenuRepository persists the ordered dish list as one snapshot.
type MenuRepository interface {
	LoadMenu(ctx context.Context) ([]Dish, error)
	SaveMenu(ctx context.Context, dishes []Dish) error
}

// OrderRepository persists the order ledger as one snapshot.
type OrderRepository interface {
	LoadOrders(ctx context.Context) ([]Order, error)
	SaveOrders(ctx context.Context, orders []Order) error
}

// UserRepository persists registered users as one snapshot.
type UserRepository interface {
	LoadUsers(ctx context.Context) ([]User, error)
	SaveUsers(ctx context.Context, users []User) error
}

// Repositories bundles the four snapshots a storage backend provides.
type Repositories interface {
	StockRepository
	MenuRepository
	OrderRepository
	UserRepository
}

// IntentParser converts raw user input into structured intents for the
// panel the user is currently on.
type IntentParser interface {
	Parse(ctx context.Context, input string, panel Panel) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or to the terminal UI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
