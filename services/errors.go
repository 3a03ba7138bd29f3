package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be between 1 and 99")
	ErrItemNotInCart      = errors.New("item is not in the cart")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidCategory    = errors.New("unknown category")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNoLatestOrder      = errors.New("no recent order found")
	ErrNotDelivery        = errors.New("order is not a delivery order")
	ErrNotReservation     = errors.New("order is not a dine-in reservation")
	ErrReservationClosed  = errors.New("reservation is already closed")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEntryNotFound      = errors.New("session entry not found")
	ErrSuggesterDisabled  = errors.New("AI suggestions are not configured")
	ErrInvalidSuggestion  = errors.New("suggestion did not match the menu")
	ErrLocationRequired   = errors.New("Please enable your location to continue.")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SuggestionError is the single message shown when a combo suggestion
// cannot be produced.
type SuggestionError struct {
	Err error
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("Sorry, our AI chef is busy. Please try again later. (Error: %v)", e.Err)
}

func (e *SuggestionError) Unwrap() error {
	return e.Err
}
