// Package domain defines the core types and interfaces for the restaurant
// simulator. All other packages depend on domain; domain depends on nothing.
package domain

import (
	"math"
	"strings"
)

// Ingredient is a named quantity. In the stock it is the amount on hand; in a
// dish it is the amount one serving requires.
type Ingredient struct {
	Name   string
	Amount float64
}

// NewIngredient validates and returns an ingredient.
func NewIngredient(name string, amount float64) (Ingredient, error) {
	ing := Ingredient{Name: strings.TrimSpace(name), Amount: amount}
	if err := ing.Validate(); err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}

// Validate checks the name is set and the amount is a positive number.
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return &ValidationError{Field: "ingredient name", Reason: "cannot be empty"}
	}
	if !IsPositive(i.Amount) {
		return &ValidationError{Field: "ingredient amount", Reason: "must be positive"}
	}
	return nil
}

// Key returns the case-insensitive identity of the ingredient.
func (i Ingredient) Key() string { return IngredientKey(i.Name) }

// IngredientKey normalizes an ingredient name for lookups.
func IngredientKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsPositive reports whether v is a finite number greater than zero.
func IsPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// amountScale keeps quantities to six decimal places.
const amountScale = 1e6

// RoundAmount rounds v to the precision quantities are kept at, so sums and
// differences of decimal amounts such as 0.1 and 0.2 compare exactly.
func RoundAmount(v float64) float64 {
	return math.Round(v*amountScale) / amountScale
}

// Dish is a menu entry. Ingredients is the recipe for a single serving.
type Dish struct {
	Name        string
	Description string
	Price       float64
	Ingredients []Ingredient
}

// NewDish validates and returns a dish.
func NewDish(name, description string, price float64, ingredients ...Ingredient) (*Dish, error) {
	d := &Dish{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Ingredients: ingredients,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks every field of the dish and its recipe lines.
func (d *Dish) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "dish name", Reason: "cannot be empty"}
	}
	if d.Description == "" {
		return &ValidationError{Field: "dish description", Reason: "cannot be empty"}
	}
	if !IsPositive(d.Price) {
		return &ValidationError{Field: "dish price", Reason: "must be positive"}
	}
	for _, ing := range d.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate menu state.
func (d *Dish) Clone() *Dish {
	c := *d
	c.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	return &c
}
