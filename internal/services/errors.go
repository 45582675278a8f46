package services

import "errors"

// Sentinel errors shared across services. Handlers map these onto HTTP
// responses; everything else surfaces as a 500.
var (
	// ErrUnauthenticated means no verified user is attached to the request.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotFound means the addressed record does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrStoreUnavailable means the data store could not be reached or
	// answered with a failure. Distinct from an empty result, which is a
	// successful outcome.
	ErrStoreUnavailable = errors.New("store temporarily unavailable")

	// ErrBookingFailed means the booking write itself was rejected by the
	// store after validation passed.
	ErrBookingFailed = errors.New("booking could not be completed")

	// ErrForbidden means the authenticated user may not act on the record.
	ErrForbidden = errors.New("operation not permitted")
)

// ValidationError reports rejected input. It carries the offending field
// so clients can point at the form control.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
