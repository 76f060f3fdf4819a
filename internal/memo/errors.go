package memo

import "errors"

// ErrNotFound reports an operation on a memo id that is not on the board.
var ErrNotFound = errors.New("memo not found")
