package lobby

import "errors"

var ErrClosed = errors.New("lobby closed")
