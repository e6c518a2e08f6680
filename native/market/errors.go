package market

import "errors"

var (
	ErrNilState          = errors.New("market: state not configured")
	ErrAlreadyRegistered = errors.New("market: listing already registered")
	ErrNoSuchListing     = errors.New("market: listing not found")
	ErrNotAvailable      = errors.New("market: listing not available")
	ErrPriceTooHigh      = errors.New("market: listing price exceeds ceiling")
	ErrInsufficientSpecs = errors.New("market: listing specs below requirements")
	ErrInvalidListing    = errors.New("market: invalid listing")
)
