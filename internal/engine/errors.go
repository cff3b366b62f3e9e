package engine

import "errors"

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("engine: closed")
