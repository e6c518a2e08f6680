package compute

import "errors"

var (
	ErrNilState            = errors.New("compute: state not configured")
	ErrNilMarketplace      = errors.New("compute: marketplace authority not configured")
	ErrNilLedger           = errors.New("compute: ledger not configured")
	ErrInvalidDuration     = errors.New("compute: duration must be positive")
	ErrJobNotFound         = errors.New("compute: job not found")
	ErrRequestNotFound     = errors.New("compute: request not found")
	ErrAlreadyAccepted     = errors.New("compute: request already accepted")
	ErrUnauthorized        = errors.New("compute: caller not entitled")
	ErrJobInactive         = errors.New("compute: job no longer active")
	ErrClaimTimeOutOfRange = errors.New("compute: claim timestamp outside job window")
	ErrAlreadyPaid         = errors.New("compute: no new funds accrued")
	ErrInsufficientFunds   = errors.New("compute: insufficient balance")
	ErrEscrowMissing       = errors.New("compute: escrow token missing")
	ErrTokenNotEmpty       = errors.New("compute: token destroyed while holding value")
)
