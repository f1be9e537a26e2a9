package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers. The typed errors below match them
// through errors.Is, so callers can branch on the kind without a type switch.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalid           = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderActive       = errors.New("user already has an active order")
	ErrStorage           = errors.New("storage failure")
	ErrBadCredentials    = errors.New("wrong username or password")
)

// ValidationError reports a field that failed a format or range rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalid.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// NotFoundError reports a missing entity, e.g. Entity "dish", Key "Pizza".
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError reports an ingredient that cannot cover a debit.
type InsufficientStockError struct {
	Ingredient string
	Required   float64
	Available  float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %s in stock: need %g, have %g", e.Ingredient, e.Required, e.Available)
}

// Is reports whether target is ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// DuplicateError reports a value that must be unique but is already taken.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// Is reports whether target is ErrAlreadyExists.
func (e *DuplicateError) Is(target error) bool { return target == ErrAlreadyExists }

// IOError wraps a persistence failure with the location that failed.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Path, e.Err)
}

// Is reports whether target is ErrStorage.
func (e *IOError) Is(target error) bool { return target == ErrStorage }

func (e *IOError) Unwrap() error { return e.Err }
