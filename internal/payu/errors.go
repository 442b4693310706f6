package payu

import "errors"

var (
	// ErrInvalidRequest marks missing or malformed initiation fields.
	ErrInvalidRequest = errors.New("invalid payment request")

	// ErrIntegrity marks a callback whose checksum does not match. No state
	// may be mutated once this is returned.
	ErrIntegrity = errors.New("payment verification failed")

	// ErrNotFound marks a verified callback that references an unknown
	// application.
	ErrNotFound = errors.New("application not found")
)
