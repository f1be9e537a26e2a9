package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Compile-time interface check.
var _ domain.Repositories = (*SQLStore)(nil)

type stockRow struct {
	Position int `gorm:"primaryKey;autoIncrement:false"`
	Name     string
	Amount   float64
}

func (stockRow) TableName() string { return "stock" }

type dishRow struct {
	Position    int `gorm:"primaryKey;autoIncrement:false"`
	Name        string
	Description string
	Price       float64
}

func (dishRow) TableName() string { return "dishes" }

type dishIngredientRow struct {
	DishPosition int `gorm:"primaryKey;autoIncrement:false"`
	Position     int `gorm:"primaryKey;autoIncrement:false"`
	Name         string
	Amount       float64
}

func (dishIngredientRow) TableName() string { return "dish_ingredients" }

type orderRow struct {
	ID        string `gorm:"primaryKey"`
	Seq       int    `gorm:"index"`
	UserID    string `gorm:"index"`
	DishName  string
	Status    int
	PlacedAt  time.Time
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (orderRow) TableName() string { return "orders" }

type userRow struct {
	ID        string `gorm:"primaryKey"`
	Position  int
	Username  string
	Password  string
	Email     string
	Name      string
	Surname   string
	Phone     string
	Gender    string
	Birthdate time.Time
	Card      string
}

func (userRow) TableName() string { return "users" }

// Positions are stored 1-based so no primary key is ever the zero value.

// SQLStore persists snapshots in a SQLite database through gorm. Each Save
// replaces the table contents inside a single transaction.
type SQLStore struct {
	db   *gorm.DB
	path string
	log  *logger.Logger
}

// OpenSQLite opens (or creates) the database file and migrates the schema.
func OpenSQLite(path string, log *logger.Logger) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent), // errors surface through our logger
	})
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: fmt.Errorf("open: %w", err)}
	}
	if err := db.AutoMigrate(&stockRow{}, &dishRow{}, &dishIngredientRow{}, &orderRow{}, &userRow{}); err != nil {
		return nil, &domain.IOError{Path: path, Err: fmt.Errorf("migrate: %w", err)}
	}
	log.Debug("opened sqlite store at %s", path)
	return &SQLStore{db: db, path: path, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadStock returns the stock in insertion order.
func (s *SQLStore) LoadStock(ctx context.Context) ([]domain.Ingredient, error) {
	var rows []stockRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, s.fail("load stock", err)
	}
	out := make([]domain.Ingredient, len(rows))
	for i, r := range rows {
		out[i] = domain.Ingredient{Name: r.Name, Amount: r.Amount}
	}
	return out, nil
}

// SaveStock replaces the stock table.
func (s *SQLStore) SaveStock(ctx context.Context, stock []domain.Ingredient) error {
	rows := make([]stockRow, len(stock))
	for i, ing := range stock {
		rows[i] = stockRow{Position: i + 1, Name: ing.Name, Amount: ing.Amount}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&stockRow{}).Error; err != nil {
			return err
		}
		return createAll(tx, rows)
	})
	if err != nil {
		return s.fail("save stock", err)
	}
	return nil
}

// LoadMenu returns dishes in menu order with their recipe lines.
func (s *SQLStore) LoadMenu(ctx context.Context) ([]domain.Dish, error) {
	var dishes []dishRow
	var ings []dishIngredientRow
	db := s.db.WithContext(ctx)
	if err := db.Order("position").Find(&dishes).Error; err != nil {
		return nil, s.fail("load menu", err)
	}
	if err := db.Order("dish_position, position").Find(&ings).Error; err != nil {
		return nil, s.fail("load menu", err)
	}

	byDish := make(map[int][]domain.Ingredient)
	for _, r := range ings {
		byDish[r.DishPosition] = append(byDish[r.DishPosition], domain.Ingredient{Name: r.Name, Amount: r.Amount})
	}
	out := make([]domain.Dish, len(dishes))
	for i, d := range dishes {
		out[i] = domain.Dish{
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			Ingredients: byDish[d.Position],
		}
	}
	return out, nil
}

// SaveMenu replaces the dish and recipe tables.
func (s *SQLStore) SaveMenu(ctx context.Context, dishes []domain.Dish) error {
	var dishRows []dishRow
	var ingRows []dishIngredientRow
	for i, d := range dishes {
		dishRows = append(dishRows, dishRow{Position: i + 1, Name: d.Name, Description: d.Description, Price: d.Price})
		for j, ing := range d.Ingredients {
			ingRows = append(ingRows, dishIngredientRow{DishPosition: i + 1, Position: j + 1, Name: ing.Name, Amount: ing.Amount})
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&dishIngredientRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&dishRow{}).Error; err != nil {
			return err
		}
		if err := createAll(tx, dishRows); err != nil {
			return err
		}
		return createAll(tx, ingRows)
	})
	if err != nil {
		return s.fail("save menu", err)
	}
	return nil
}

// LoadOrders returns the ledger in placement order.
func (s *SQLStore) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	var rows []orderRow
	if err := s.db.WithContext(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, s.fail("load orders", err)
	}
	out := make([]domain.Order, 0, len(rows))
	for _, r := range rows {
		status, err := domain.ParseOrderStatus(r.Status)
		if err != nil {
			return nil, s.fail("load orders", fmt.Errorf("order %s: %w", r.ID, err))
		}
		out = append(out, domain.Order{
			ID:        r.ID,
			UserID:    r.UserID,
			DishName:  r.DishName,
			Status:    status,
			PlacedAt:  r.PlacedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return out, nil
}

// SaveOrders replaces the orders table.
func (s *SQLStore) SaveOrders(ctx context.Context, orders []domain.Order) error {
	rows := make([]orderRow, len(orders))
	for i, o := range orders {
		rows[i] = orderRow{
			ID:        o.ID,
			Seq:       i + 1,
			UserID:    o.UserID,
			DishName:  o.DishName,
			Status:    int(o.Status),
			PlacedAt:  o.PlacedAt,
			UpdatedAt: o.UpdatedAt,
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&orderRow{}).Error; err != nil {
			return err
		}
		return createAll(tx, rows)
	})
	if err != nil {
		return s.fail("save orders", err)
	}
	return nil
}

// LoadUsers returns registered users in sign-up order. Rows with an unknown
// gender are skipped with a warning.
func (s *SQLStore) LoadUsers(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, s.fail("load users", err)
	}
	out := make([]domain.User, 0, len(rows))
	for _, r := range rows {
		gender, err := domain.ParseGender(r.Gender)
		if err != nil {
			s.log.Warn("skipping corrupted user row %s: %v", r.ID, err)
			continue
		}
		out = append(out, domain.User{
			ID:        r.ID,
			Username:  r.Username,
			Password:  r.Password,
			Email:     r.Email,
			Name:      r.Name,
			Surname:   r.Surname,
			Phone:     r.Phone,
			Gender:    gender,
			Birthdate: r.Birthdate,
			Card:      r.Card,
		})
	}
	return out, nil
}

// SaveUsers replaces the users table.
func (s *SQLStore) SaveUsers(ctx context.Context, users []domain.User) error {
	rows := make([]userRow, len(users))
	for i, u := range users {
		rows[i] = userRow{
			ID:        u.ID,
			Position:  i + 1,
			Username:  u.Username,
			Password:  u.Password,
			Email:     u.Email,
			Name:      u.Name,
			Surname:   u.Surname,
			Phone:     u.Phone,
			Gender:    u.Gender.String(),
			Birthdate: u.Birthdate,
			Card:      u.Card,
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&userRow{}).Error; err != nil {
			return err
		}
		return createAll(tx, rows)
	})
	if err != nil {
		return s.fail("save users", err)
	}
	return nil
}

func (s *SQLStore) fail(op string, err error) error {
	s.log.Error("%s: %v", op, err)
	return &domain.IOError{Path: s.path, Err: fmt.Errorf("%s: %w", op, err)}
}

// createAll inserts rows; gorm rejects an empty slice, so that is a no-op.
func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
