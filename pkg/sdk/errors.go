package gallery

import "github.com/kailas-cloud/minigallery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrBatchNotFound       = domain.ErrBatchNotFound
	ErrStorageNotFound     = domain.ErrStorageNotFound
	ErrCategoryNotFound    = domain.ErrCategoryNotFound
	ErrCategoryCycle       = domain.ErrCategoryCycle
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrCapacityOutOfBounds = domain.ErrCapacityOutOfBounds
)
