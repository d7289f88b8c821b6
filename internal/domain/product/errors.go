package product

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCategoryNotFound    = errors.New("product category not found")
	ErrPhotoNotFound       = errors.New("product photo not found")
	ErrInvalidName         = errors.New("name must be between 2 and 200 characters")
	ErrInvalidAvailability = errors.New("invalid availability")

	// ErrConflict reports a database constraint violation that slipped
	// past the service-level pre-checks.
	ErrConflict = errors.New("constraint violated")
)
