package backend

import "errors"

// ErrReleased is returned by operations on a released backend.
var ErrReleased = errors.New("backend released")

// ErrIndexOutOfRange is returned when an index does not address a queue item.
var ErrIndexOutOfRange = errors.New("index out of range")
