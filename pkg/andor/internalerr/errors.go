package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNoPlan           = errors.New("no plan")
	ErrNilRand          = errors.New("nil randomness source")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
