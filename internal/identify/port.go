// internal/identify/port.go
package identify

import (
	"context"
	"errors"
)

// ErrCVAbsent is reported by a Port when the decoder positively indicates
// that a CV is not implemented, as opposed to a transport failure. Ports
// that cannot make this distinction cannot support the optional-register
// branches.
var ErrCVAbsent = errors.New("identify: cv not present")

// Port is the programming-track access the runner drives. Implementations
// perform one blocking register operation per call; retry and timeout
// policy is theirs, not the machine's.
type Port interface {
	ReadCV(ctx context.Context, cv uint16) (uint8, error)
	WriteCV(ctx context.Context, cv uint16, value uint8) error
}

// Sink receives advisory progress text, one message per issued register
// operation, and the final identification result exactly once.
type Sink interface {
	Progress(msg string)
	Done(res Result)
}
