package database

import (
	"errors"
	"fmt"

	"github.com/JailtonJunior94/txkit/pkg/database/param"
)

var (
	// ErrInvalidArgument reports a caller precondition violation.
	ErrInvalidArgument = param.ErrInvalidArgument
	ErrNoRows          = errors.New("no rows in result set")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrNoTransaction   = errors.New("no transaction in progress")
	ErrConnClosed      = errors.New("connection is closed")
)

// DriverError wraps every failure reported by a driver or provider.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// WrapDriverError wraps err as a *DriverError for op. It returns nil for a
// nil err and returns err unchanged when it already carries a DriverError.
func WrapDriverError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DriverError
	if errors.As(err, &de) {
		return err
	}
	return &DriverError{Op: op, Err: err}
}
