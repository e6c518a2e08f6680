package core

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"gridchain/core/types"
	"gridchain/crypto"
)

// GenesisAlloc seeds one account balance at first boot.
type GenesisAlloc struct {
	Address string   `json:"address"`
	Balance *big.Int `json:"balance"`
}

// GenesisSpec is the JSON document a node may load on first start to fund
// initial accounts. The surrounding ledger runtime owns real issuance; this
// exists so a fresh network has spendable balances.
type GenesisSpec struct {
	NetworkName string         `json:"networkName,omitempty"`
	Alloc       []GenesisAlloc `json:"alloc"`
}

// LoadGenesisSpec reads and parses a genesis file.
func LoadGenesisSpec(path string) (*GenesisSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec := &GenesisSpec{}
	if err := json.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	return spec, nil
}

var genesisAppliedKey = []byte("genesis/applied")

// ApplyGenesis funds the allocations exactly once; subsequent calls are
// no-ops.
func (n *Node) ApplyGenesis(spec *GenesisSpec) error {
	if spec == nil {
		return nil
	}
	return n.withTx(func() error {
		applied, err := n.state.KVHas(genesisAppliedKey)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		for _, alloc := range spec.Alloc {
			addr, err := crypto.DecodeAddress(alloc.Address)
			if err != nil {
				return fmt.Errorf("genesis: %w", err)
			}
			if alloc.Balance == nil || alloc.Balance.Sign() < 0 {
				return fmt.Errorf("genesis: invalid balance for %s", alloc.Address)
			}
			var key [20]byte
			copy(key[:], addr.Bytes())
			account := &types.Account{Balance: new(big.Int).Set(alloc.Balance)}
			if err := n.state.PutAccount(key, account); err != nil {
				return err
			}
		}
		return n.state.KVPut(genesisAppliedKey, true)
	})
}
