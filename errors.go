package batch

import "errors"

var (
	// Declaration errors.
	ErrParse            = errors.New("batch: parse error")
	ErrDuplicateName    = errors.New("batch: duplicate name")
	ErrDuplicateAttr    = errors.New("batch: duplicate attribute")
	ErrMissingAttribute = errors.New("batch: missing required attribute")
	ErrUnknownAttribute = errors.New("batch: unknown attribute")
	ErrInvalidValue     = errors.New("batch: invalid attribute value")
	ErrUnknownExchange  = errors.New("batch: unknown exchange")
	ErrRoutingKey       = errors.New("batch: routing key does not fit exchange kind")
	ErrIdentCollision   = errors.New("batch: generated identifiers collide")

	// Job contract errors.
	ErrInvalidPriority = errors.New("batch: invalid priority")
	ErrInvalidStatus   = errors.New("batch: invalid status")
	ErrInvalidState    = errors.New("batch: invalid status transition")
	ErrUnroutable      = errors.New("batch: job route does not match topology")

	// Registry errors.
	ErrJobAlreadyExists = errors.New("batch: job already registered")
	ErrUnknownJob       = errors.New("batch: no handler registered for job")

	// Store errors.
	ErrJobNotFound = errors.New("batch: job status not found")
	ErrStoreClosed = errors.New("batch: store closed")

	// Execution errors.
	ErrTimeout = errors.New("batch: job timed out")

	// Codec errors.
	ErrUnknownCodec = errors.New("batch: unknown codec")
)
