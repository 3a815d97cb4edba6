package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrBatchNotFound signals a missing batch.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrStorageNotFound signals a missing storage container.
	ErrStorageNotFound = errors.New("storage not found")
	// ErrCategoryNotFound signals a missing category.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryCycle signals a parent change that would make the hierarchy cyclic.
	ErrCategoryCycle = errors.New("category cycle")
	// ErrInvalidInput signals a malformed request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapacityOutOfBounds signals a stored capacity outside the known range.
	ErrCapacityOutOfBounds = errors.New("capacity out of bounds")
)

// CategoryCycleError wraps ErrCategoryCycle with the rejected edge.
type CategoryCycleError struct {
	CategoryID int64
	ParentID   int64
}

func (e *CategoryCycleError) Error() string {
	return fmt.Sprintf("%s: %d cannot be placed under %d", ErrCategoryCycle.Error(), e.CategoryID, e.ParentID)
}

func (e *CategoryCycleError) Unwrap() error { return ErrCategoryCycle }

// NewCategoryCycle creates a category cycle error.
func NewCategoryCycle(categoryID, parentID int64) error {
	return &CategoryCycleError{CategoryID: categoryID, ParentID: parentID}
}
