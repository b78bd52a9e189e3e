package param

import "errors"

// ErrInvalidArgument reports a caller precondition violation such as a nil
// parameter or an empty batch.
var ErrInvalidArgument = errors.New("invalid argument")
