package repository

import "errors"

// ErrNotFound is wrapped by stores when a key or row does not exist.
var ErrNotFound = errors.New("not found")
