package trading

import "errors"

// Order validation errors. All are returned synchronously to the caller and
// never retried; a rejected order mutates nothing.
var (
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrInvalidLimitPrice  = errors.New("limit price must be greater than zero")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)
