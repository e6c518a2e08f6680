package types

import "math/big"

// Account is the balance-bearing record stored per address. The ledger runtime
// owns nonce and signature semantics; this module only moves Balance.
type Account struct {
	Nonce   uint64   `json:"nonce"`
	Balance *big.Int `json:"balance"`
}

// EnsureDefaults replaces nil amount fields with zero values so callers can do
// arithmetic without nil checks.
func (a *Account) EnsureDefaults() {
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
}
