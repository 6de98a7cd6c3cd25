package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("document was modified concurrently")
	ErrDuplicateReview     = errors.New("review already exists for this product")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrIncompleteSelection = errors.New("color and size must both be selected")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAlreadyExists       = errors.New("already exists")
)

// ValidationError is malformed caller input, rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type OutOfStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("only %d left in stock for product %s (requested %d)", e.Available, e.ProductID, e.Requested)
}

// Is lets errors.Is(err, ErrInsufficientStock) match.
func (e *OutOfStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
