package chiserver

import "errors"

var ErrInvalidConfig = errors.New("invalid server configuration")
