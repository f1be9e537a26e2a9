package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// File names used by the underscore-delimited text format.
const (
	LegacyStockFile  = "StorageForIngredient.txt"
	LegacyMenuFile   = "Dishes.txt"
	LegacyOrdersFile = "Orders.txt"
	LegacyUsersFile  = "User.txt"
)

// LegacyReport counts what an import read and what it had to skip.
type LegacyReport struct {
	Ingredients int
	Dishes      int
	Orders      int
	Users       int
	Skipped     []string // "file:line: reason"
}

// ImportLegacy reads the underscore-delimited files found in dir and saves
// them into dst. Missing files are ignored. Rows that do not parse are
// skipped and listed in the report; the rest of the file still imports.
func ImportLegacy(ctx context.Context, dir string, dst domain.Repositories, log *logger.Logger, now time.Time) (*LegacyReport, error) {
	rep := &LegacyReport{}

	stock, err := importFile(dir, LegacyStockFile, rep, ParseLegacyIngredient)
	if err != nil {
		return nil, err
	}
	dishes, err := importFile(dir, LegacyMenuFile, rep, ParseLegacyDish)
	if err != nil {
		return nil, err
	}
	orders, err := importFile(dir, LegacyOrdersFile, rep, func(line string) (domain.Order, error) {
		return ParseLegacyOrder(line, now)
	})
	if err != nil {
		return nil, err
	}
	users, err := importFile(dir, LegacyUsersFile, rep, ParseLegacyUser)
	if err != nil {
		return nil, err
	}

	if stock != nil {
		if err := dst.SaveStock(ctx, stock); err != nil {
			return nil, err
		}
	}
	if dishes != nil {
		if err := dst.SaveMenu(ctx, dishes); err != nil {
			return nil, err
		}
	}
	if orders != nil {
		if err := dst.SaveOrders(ctx, orders); err != nil {
			return nil, err
		}
	}
	if users != nil {
		if err := dst.SaveUsers(ctx, users); err != nil {
			return nil, err
		}
	}

	rep.Ingredients, rep.Dishes, rep.Orders, rep.Users = len(stock), len(dishes), len(orders), len(users)
	for _, s := range rep.Skipped {
		log.Warn("legacy import skipped %s", s)
	}
	log.Info("legacy import from %s: %d ingredients, %d dishes, %d orders, %d users",
		dir, rep.Ingredients, rep.Dishes, rep.Orders, rep.Users)
	return rep, nil
}

// importFile returns nil (not an empty slice) when the file does not exist,
// so callers leave the destination untouched.
func importFile[T any](dir, name string, rep *LegacyReport, parse func(string) (T, error)) ([]T, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}
	defer f.Close()

	out, skipped, err := ParseLegacy(f, parse)
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}
	for _, s := range skipped {
		rep.Skipped = append(rep.Skipped, name+":"+s)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// ParseLegacy applies parse to every non-empty line of r. Lines that fail are
// reported as "line: reason" and left out of the result.
func ParseLegacy[T any](r io.Reader, parse func(string) (T, error)) ([]T, []string, error) {
	var out []T
	var skipped []string
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		v, err := parse(line)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%d: %v", n, err))
			continue
		}
		out = append(out, v)
	}
	return out, skipped, sc.Err()
}

// ParseLegacyIngredient parses "name_amount". The amount is split off at the
// last underscore, so names may contain underscores. A zero amount is kept as
// an out-of-stock row.
func ParseLegacyIngredient(line string) (domain.Ingredient, error) {
	name, amount, ok := cutLast(line, "_")
	if !ok {
		return domain.Ingredient{}, fmt.Errorf("missing amount")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("amount: %w", err)
	}
	if v == 0 {
		ing := domain.Ingredient{Name: strings.TrimSpace(name)}
		if ing.Name == "" {
			return domain.Ingredient{}, &domain.ValidationError{Field: "ingredient name", Reason: "cannot be empty"}
		}
		return ing, nil
	}
	return domain.NewIngredient(name, v)
}

// ParseLegacyDish parses "name_description_price(_ingredient:amount)*".
// Recipe fields without a colon are ignored.
func ParseLegacyDish(line string) (domain.Dish, error) {
	fields := strings.Split(line, "_")
	if len(fields) < 3 {
		return domain.Dish{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return domain.Dish{}, fmt.Errorf("price: %w", err)
	}
	var ings []domain.Ingredient
	for _, pair := range fields[3:] {
		name, amount, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return domain.Dish{}, fmt.Errorf("ingredient %q: %w", name, err)
		}
		ing, err := domain.NewIngredient(name, v)
		if err != nil {
			return domain.Dish{}, err
		}
		ings = append(ings, ing)
	}
	d, err := domain.NewDish(fields[0], fields[1], price, ings...)
	if err != nil {
		return domain.Dish{}, err
	}
	return *d, nil
}

// ParseLegacyOrder parses "userId_dishName_statusOrdinal". User IDs never
// contain underscores, so the user is cut at the first one and the status at
// the last; the dish name keeps whatever lies between. The old format has no
// order ID or timestamps, so a fresh ID is assigned and both times are now.
func ParseLegacyOrder(line string, now time.Time) (domain.Order, error) {
	userID, rest, ok := strings.Cut(line, "_")
	if !ok {
		return domain.Order{}, fmt.Errorf("missing dish")
	}
	dish, statusStr, ok := cutLast(rest, "_")
	if !ok {
		return domain.Order{}, fmt.Errorf("missing status")
	}
	ordinal, err := strconv.Atoi(strings.TrimSpace(statusStr))
	if err != nil {
		return domain.Order{}, fmt.Errorf("status: %w", err)
	}
	status, err := domain.ParseOrderStatus(ordinal)
	if err != nil {
		return domain.Order{}, err
	}
	if userID == "" || dish == "" {
		return domain.Order{}, fmt.Errorf("empty user or dish")
	}
	return domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		DishName:  dish,
		Status:    status,
		PlacedAt:  now,
		UpdatedAt: now,
	}, nil
}

// ParseLegacyUser parses
// "id_username_password_email_name_surname_number_gender_day/month/year".
// Only the structure is checked here; field rules belong to the registry.
func ParseLegacyUser(line string) (domain.User, error) {
	fields := strings.SplitN(line, "_", 9)
	if len(fields) != 9 {
		return domain.User{}, fmt.Errorf("expected 9 fields, got %d", len(fields))
	}
	var day, month, year int
	if _, err := fmt.Sscanf(fields[8], "%d/%d/%d", &day, &month, &year); err != nil {
		return domain.User{}, fmt.Errorf("birthdate: %w", err)
	}
	birth := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if birth.Day() != day || int(birth.Month()) != month {
		return domain.User{}, fmt.Errorf("birthdate %q is not a calendar date", fields[8])
	}
	// Anything other than "Male" was read back as Female.
	gender := domain.GenderFemale
	if fields[7] == "Male" {
		gender = domain.GenderMale
	}
	return domain.User{
		ID:        fields[0],
		Username:  fields[1],
		Password:  fields[2],
		Email:     fields[3],
		Name:      fields[4],
		Surname:   fields[5],
		Phone:     fields[6],
		Gender:    gender,
		Birthdate: birth,
	}, nil
}

// cutLast is strings.Cut at the last occurrence of sep.
func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
