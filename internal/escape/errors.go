package escape

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrIncomplete is returned when the input ends inside a sequence. Nothing
// has been consumed; retry with more bytes appended.
var ErrIncomplete = errors.New("escape: need more data")

// DecodeError reports a malformed sequence. Offset is relative to the start
// of the sequence.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("escape: %s at offset %d", e.Reason, e.Offset)
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	_, ok := errors.Cause(err).(*DecodeError)
	return ok
}
