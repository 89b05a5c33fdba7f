package protocol

import "errors"

var (
	// ErrMalformed is returned when a stream holds fewer words or bytes than
	// the fixed-shape record requires, or when a record cannot be parsed.
	ErrMalformed = errors.New("malformed record")

	// ErrRetryExhausted is returned when the pixel read runs out of attempts
	// before the buffer is filled.
	ErrRetryExhausted = errors.New("retry budget exhausted")

	// errIncomplete signals one more read attempt is needed
	errIncomplete = errors.New("incomplete read")
)
