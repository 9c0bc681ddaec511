package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase and handler layers
var (
	// Booking errors
	ErrValidation        = errors.New("validation error")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// Orchestration errors
	ErrEventNotAvailable  = errors.New("event not available")
	ErrServiceUnavailable = errors.New("service unavailable")

	// Collaborator errors
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrPublishFailed       = errors.New("notification publish failed")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
