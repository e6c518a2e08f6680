package state

import (
	"fmt"

	"gridchain/core/types"
)

var accountPrefix = []byte("accounts/")

func accountKey(addr [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", accountPrefix, addr))
}

// GetAccount loads the account record for addr, returning a zeroed account
// when none exists yet.
func (m *Manager) GetAccount(addr [20]byte) (*types.Account, error) {
	account := &types.Account{}
	if _, err := m.KVGet(accountKey(addr), account); err != nil {
		return nil, err
	}
	account.EnsureDefaults()
	return account, nil
}

// PutAccount persists the account record for addr.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account")
	}
	account.EnsureDefaults()
	if account.Balance.Sign() < 0 {
		return fmt.Errorf("state: negative balance for %x", addr)
	}
	return m.KVPut(accountKey(addr), account)
}
