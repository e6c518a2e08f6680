package compute

import (
	"fmt"
	"math/big"

	"gridchain/core/types"
)

// BalanceStore is the slice of account state the ledger needs.
type BalanceStore interface {
	GetAccount(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
}

// LedgerAdapter is the currency-transfer collaborator the engine consumes.
// Withdraw debits an account and mints a token holding the debited value;
// Deposit consumes a token's full value into an account.
type LedgerAdapter interface {
	Withdraw(addr [20]byte, amount *big.Int) (*Token, error)
	Deposit(addr [20]byte, token *Token) error
}

// Ledger implements LedgerAdapter over the account table. It is the only
// token mint in the module.
type Ledger struct {
	store BalanceStore
}

// NewLedger binds the ledger to an account backend.
func NewLedger(store BalanceStore) *Ledger {
	return &Ledger{store: store}
}

// Withdraw debits amount from the account and returns a token carrying the
// value. ErrInsufficientFunds is returned when the balance cannot cover it.
func (l *Ledger) Withdraw(addr [20]byte, amount *big.Int) (*Token, error) {
	if l == nil || l.store == nil {
		return nil, ErrNilLedger
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("compute: withdraw amount must be positive")
	}
	account, err := l.store.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	account.EnsureDefaults()
	if account.Balance.Cmp(amount) < 0 {
		return nil, ErrInsufficientFunds
	}
	account.Balance = new(big.Int).Sub(account.Balance, amount)
	if err := l.store.PutAccount(addr, account); err != nil {
		return nil, err
	}
	return mintToken(amount), nil
}

// Deposit credits the token's full value to the account and leaves the token
// empty, ready for Destroy.
func (l *Ledger) Deposit(addr [20]byte, token *Token) error {
	if l == nil || l.store == nil {
		return ErrNilLedger
	}
	amount, err := token.drain()
	if err != nil {
		return err
	}
	account, err := l.store.GetAccount(addr)
	if err != nil {
		return err
	}
	account.EnsureDefaults()
	account.Balance = new(big.Int).Add(account.Balance, amount)
	return l.store.PutAccount(addr, account)
}
