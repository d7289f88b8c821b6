package producer

import "errors"

var (
	ErrProducerNotFound    = errors.New("producer not found")
	ErrPhotoNotFound       = errors.New("photo not found")
	ErrSaleModeNotFound    = errors.New("sale mode not found")
	ErrProfileExists       = errors.New("user already has a producer profile")
	ErrInvalidCoordinates  = errors.New("latitude must be in [-90,90] and longitude in [-180,180]")
	ErrInvalidRadius       = errors.New("radius must be in (0,1000] km")
	ErrInvalidCategory     = errors.New("unknown producer category")
	ErrInvalidName         = errors.New("name must be between 2 and 200 characters")
	ErrInvalidModeType     = errors.New("unknown sale mode type")
	ErrPhoneRequired       = errors.New("phone number is required for phone orders")
	ErrInvalidOpeningHours = errors.New("invalid opening hours")

	// ErrConflict reports a database constraint violation that slipped
	// past the service-level pre-checks, for example a concurrent
	// duplicate create. The message stays generic so schema details
	// never reach the caller.
	ErrConflict = errors.New("constraint violated")
)
