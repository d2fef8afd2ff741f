package apierrs

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInstrumentNotFound     = errors.New("instrument not found")
	ErrUserInstrumentNotFound = errors.New("user instrument not found")
	ErrEmptyTicker            = errors.New("empty ticker")
	ErrInvalidCount           = errors.New("count must be positive")
	ErrInsufficientLots       = errors.New("insufficient open lots")
	ErrPriceUnavailable       = errors.New("current price unavailable")
)
