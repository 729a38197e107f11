package storage

import "errors"

var (
	ErrNotFound     = errors.New("storage: not found")
	ErrInvalidLink  = errors.New("storage: invalid link")
	ErrLinkMismatch = errors.New("storage: link mismatch")
	ErrImmutable    = errors.New("storage: immutable object mismatch")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
