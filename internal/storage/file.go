package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Compile-time interface check.
var _ domain.Repositories = (*FileStore)(nil)

// Record format identifiers. Every file starts with a header line naming the
// format, the record kind and the version the records were written with.
const (
	formatName    = "ottoserve"
	formatVersion = 1

	kindStock  = "stock"
	kindMenu   = "menu"
	kindOrders = "orders"
	kindUsers  = "users"
)

// File names inside the data directory.
const (
	StockFile  = "stock.jsonl"
	MenuFile   = "menu.jsonl"
	OrdersFile = "orders.jsonl"
	UsersFile  = "users.jsonl"
)

const birthdateLayout = "2006-01-02"

type header struct {
	Format  string `json:"format"`
	Kind    string `json:"kind"`
	Version int    `json:"version"`
}

type ingredientRecord struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type dishRecord struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Ingredients []ingredientRecord `json:"ingredients,omitempty"`
}

type orderRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DishName  string    `json:"dish"`
	Status    int       `json:"status"`
	PlacedAt  time.Time `json:"placed_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userRecord struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Birthdate string `json:"birthdate"`
	Card      string `json:"card,omitempty"`
}

// FileStore persists each snapshot as a JSON Lines file in one directory.
// Writes go to a temporary file that is renamed over the old one, so a crash
// mid-write leaves the previous snapshot intact.
type FileStore struct {
	dir string
	log *logger.Logger
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.IOError{Path: dir, Err: err}
	}
	return &FileStore{dir: dir, log: log}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

// LoadStock reads the stock file. A missing file yields an empty stock.
func (s *FileStore) LoadStock(ctx context.Context) ([]domain.Ingredient, error) {
	recs, err := readRecords[ingredientRecord](s.path(StockFile), kindStock)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ingredient, len(recs))
	for i, r := range recs {
		out[i] = domain.Ingredient{Name: r.Name, Amount: r.Amount}
	}
	s.log.Debug("loaded %d stock records", len(out))
	return out, nil
}

// SaveStock rewrites the stock file.
func (s *FileStore) SaveStock(ctx context.Context, stock []domain.Ingredient) error {
	recs := make([]ingredientRecord, len(stock))
	for i, ing := range stock {
		recs[i] = ingredientRecord{Name: ing.Name, Amount: ing.Amount}
	}
	return writeSnapshot(s, StockFile, kindStock, recs)
}

// LoadMenu reads the menu file.
func (s *FileStore) LoadMenu(ctx context.Context) ([]domain.Dish, error) {
	recs, err := readRecords[dishRecord](s.path(MenuFile), kindMenu)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Dish, len(recs))
	for i, r := range recs {
		d := domain.Dish{Name: r.Name, Description: r.Description, Price: r.Price}
		for _, ing := range r.Ingredients {
			d.Ingredients = append(d.Ingredients, domain.Ingredient{Name: ing.Name, Amount: ing.Amount})
		}
		out[i] = d
	}
	s.log.Debug("loaded %d menu records", len(out))
	return out, nil
}

// SaveMenu rewrites the menu file.
func (s *FileStore) SaveMenu(ctx context.Context, dishes []domain.Dish) error {
	recs := make([]dishRecord, len(dishes))
	for i, d := range dishes {
		r := dishRecord{Name: d.Name, Description: d.Description, Price: d.Price}
		for _, ing := range d.Ingredients {
			r.Ingredients = append(r.Ingredients, ingredientRecord{Name: ing.Name, Amount: ing.Amount})
		}
		recs[i] = r
	}
	return writeSnapshot(s, MenuFile, kindMenu, recs)
}

// LoadOrders reads the order ledger file.
func (s *FileStore) LoadOrders(ctx context.Context) ([]domain.Order, error) {
	path := s.path(OrdersFile)
	recs, err := readRecords[orderRecord](path, kindOrders)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(recs))
	for i, r := range recs {
		status, err := domain.ParseOrderStatus(r.Status)
		if err != nil {
			return nil, &domain.IOError{Path: path, Err: fmt.Errorf("record %d: %w", i+1, err)}
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
	s.log.Debug("loaded %d order records", len(out))
	return out, nil
}

// SaveOrders rewrites the order ledger file.
func (s *FileStore) SaveOrders(ctx context.Context, orders []domain.Order) error {
	recs := make([]orderRecord, len(orders))
	for i, o := range orders {
		recs[i] = orderRecord{
			ID:        o.ID,
			UserID:    o.UserID,
			DishName:  o.DishName,
			Status:    int(o.Status),
			PlacedAt:  o.PlacedAt,
			UpdatedAt: o.UpdatedAt,
		}
	}
	return writeSnapshot(s, OrdersFile, kindOrders, recs)
}

// LoadUsers reads the user file. A record whose gender or birthdate cannot
// be read is skipped with a warning; other field rules are checked by the
// registry.
func (s *FileStore) LoadUsers(ctx context.Context) ([]domain.User, error) {
	path := s.path(UsersFile)
	recs, err := readRecords[userRecord](path, kindUsers)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(recs))
	for i, r := range recs {
		birth, err := time.Parse(birthdateLayout, r.Birthdate)
		if err != nil {
			s.log.Warn("skipping corrupted user record %d in %s: birthdate: %v", i+1, path, err)
			continue
		}
		gender, err := domain.ParseGender(r.Gender)
		if err != nil {
			s.log.Warn("skipping corrupted user record %d in %s: %v", i+1, path, err)
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
			Birthdate: birth,
			Card:      r.Card,
		})
	}
	s.log.Debug("loaded %d user records", len(out))
	return out, nil
}

// SaveUsers rewrites the user file.
func (s *FileStore) SaveUsers(ctx context.Context, users []domain.User) error {
	recs := make([]userRecord, len(users))
	for i, u := range users {
		recs[i] = userRecord{
			ID:        u.ID,
			Username:  u.Username,
			Password:  u.Password,
			Email:     u.Email,
			Name:      u.Name,
			Surname:   u.Surname,
			Phone:     u.Phone,
			Gender:    u.Gender.String(),
			Birthdate: u.Birthdate.Format(birthdateLayout),
			Card:      u.Card,
		}
	}
	return writeSnapshot(s, UsersFile, kindUsers, recs)
}

func (s *FileStore) path(name string) string { return filepath.Join(s.dir, name) }

func writeSnapshot[T any](s *FileStore, name, kind string, recs []T) error {
	path := s.path(name)
	if err := writeRecords(path, kind, recs); err != nil {
		s.log.Error("writing %s: %v", path, err)
		return err
	}
	s.log.Debug("wrote %s", path)
	return nil
}

// readRecords decodes a header line followed by one T per line.
func readRecords[T any](path, kind string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out []T
	sawHeader := false
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		if !sawHeader {
			var h header
			if err := json.Unmarshal(raw, &h); err != nil {
				return nil, &domain.IOError{Path: path, Err: fmt.Errorf("line %d: header: %w", line, err)}
			}
			if err := h.check(kind); err != nil {
				return nil, &domain.IOError{Path: path, Err: err}
			}
			sawHeader = true
			continue
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &domain.IOError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}
	return out, nil
}

func (h header) check(kind string) error {
	if h.Format != formatName {
		return fmt.Errorf("unexpected format %q", h.Format)
	}
	if h.Kind != kind {
		return fmt.Errorf("file holds %q records, expected %q", h.Kind, kind)
	}
	if h.Version < 1 || h.Version > formatVersion {
		return fmt.Errorf("unsupported version %d", h.Version)
	}
	return nil
}

// writeRecords encodes recs after a header into a temp file and renames it
// over path.
func writeRecords[T any](path, kind string, recs []T) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &domain.IOError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(header{Format: formatName, Kind: kind, Version: formatVersion}); err != nil {
		return &domain.IOError{Path: path, Err: err}
	}
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return &domain.IOError{Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &domain.IOError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &domain.IOError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &domain.IOError{Path: path, Err: err}
	}
	return nil
}
