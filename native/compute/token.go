package compute

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

// Token is custody of escrowed funds. It deliberately is not a plain balance
// field: the amount is unexported, tokens are minted only by the Ledger when
// value leaves an account, and value leaves a token only through Split or a
// Deposit back into an account. Destroy refuses a token still holding value,
// so funds cannot be created or lost by a coding mistake.
type Token struct {
	amount *big.Int
}

func mintToken(amount *big.Int) *Token {
	if amount == nil {
		amount = big.NewInt(0)
	}
	return &Token{amount: new(big.Int).Set(amount)}
}

// Amount returns a copy of the value currently held.
func (t *Token) Amount() *big.Int {
	if t == nil || t.amount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(t.amount)
}

// Split extracts amount into a new token, reducing the receiver by the same
// value.
func (t *Token) Split(amount *big.Int) (*Token, error) {
	if t == nil || t.amount == nil {
		return nil, fmt.Errorf("compute: split of nil token")
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("compute: split amount must be positive")
	}
	if t.amount.Cmp(amount) < 0 {
		return nil, fmt.Errorf("compute: split amount exceeds token value")
	}
	t.amount.Sub(t.amount, amount)
	return mintToken(amount), nil
}

// Destroy consumes an empty token. It fails if the token still holds value;
// such a token must be deposited somewhere instead.
func (t *Token) Destroy() error {
	if t == nil || t.amount == nil {
		return nil
	}
	if t.amount.Sign() != 0 {
		return ErrTokenNotEmpty
	}
	t.amount = nil
	return nil
}

// drain empties the token and returns the value it held. Only the Ledger uses
// it, when depositing a token back into an account.
func (t *Token) drain() (*big.Int, error) {
	if t == nil || t.amount == nil {
		return nil, fmt.Errorf("compute: deposit of consumed token")
	}
	amount := t.amount
	t.amount = big.NewInt(0)
	return amount, nil
}

// EncodeRLP persists the held amount. The codec keeps the amount field
// unexported while letting the state manager store tokens like any record.
func (t *Token) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, t.Amount())
}

// DecodeRLP restores a stored token.
func (t *Token) DecodeRLP(s *rlp.Stream) error {
	amount := new(big.Int)
	if err := s.Decode(amount); err != nil {
		return err
	}
	t.amount = amount
	return nil
}
