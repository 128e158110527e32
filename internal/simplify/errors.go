package simplify

import (
	"errors"
	"fmt"
)

var (
	ErrModelCallFailed       = errors.New("model call failed")
	ErrChunkProcessingFailed = errors.New("chunk processing failed")
	ErrInvalidModelOutput    = errors.New("invalid model output")
)

// ModelError is returned by Generator implementations. The adapter that
// talks to the model decides Retryable from the transport's own status codes.
type ModelError struct {
	Op         string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *ModelError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a ModelError marked retryable.
func IsRetryable(err error) bool {
	var modelErr *ModelError
	return errors.As(err, &modelErr) && modelErr.Retryable
}
