package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"gridchain/storage"
)

// Manager mediates every state access in the module. Writes accumulate in an
// in-memory overlay until Commit flushes them to the backing database;
// Discard drops them. The node wraps each entry operation in exactly one
// overlay window, which is what makes every operation all-or-nothing.
type Manager struct {
	db      storage.Database
	pending map[string]pendingWrite
}

type pendingWrite struct {
	value   []byte
	deleted bool
}

// NewManager builds a manager over the supplied database.
func NewManager(db storage.Database) *Manager {
	return &Manager{
		db:      db,
		pending: make(map[string]pendingWrite),
	}
}

func (m *Manager) kvGetRaw(key []byte) ([]byte, bool, error) {
	if w, ok := m.pending[string(key)]; ok {
		if w.deleted {
			return nil, false, nil
		}
		return w.value, true, nil
	}
	data, err := m.db.Get(key)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

// KVPut stores the RLP encoding of value under key in the overlay.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.pending[string(key)] = pendingWrite{value: encoded}
	return nil
}

// KVGet retrieves the value stored under the supplied key and decodes it into
// the provided destination. The boolean return value indicates whether the key
// existed in state.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("kv: key must not be empty")
	}
	data, ok, err := m.kvGetRaw(key)
	if err != nil || !ok {
		return false, err
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// KVDelete removes the key from state.
func (m *Manager) KVDelete(key []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("kv: key must not be empty")
	}
	m.pending[string(key)] = pendingWrite{deleted: true}
	return nil
}

// KVHas reports whether the key exists without decoding it.
func (m *Manager) KVHas(key []byte) (bool, error) {
	_, ok, err := m.kvGetRaw(key)
	return ok, err
}

// Commit flushes the overlay to the database. The overlay is cleared even on
// partial failure; the caller treats a failed commit as fatal.
func (m *Manager) Commit() error {
	defer func() { m.pending = make(map[string]pendingWrite) }()
	for key, w := range m.pending {
		if w.deleted {
			if err := m.db.Delete([]byte(key)); err != nil {
				return err
			}
			continue
		}
		if err := m.db.Put([]byte(key), w.value); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops all uncommitted writes.
func (m *Manager) Discard() {
	m.pending = make(map[string]pendingWrite)
}

// nextCounter increments the dense counter stored at key and returns its new
// value. Counters start at 1 so a zero id never appears in state.
func (m *Manager) nextCounter(key []byte) (uint64, error) {
	var current uint64
	if _, err := m.KVGet(key, &current); err != nil {
		return 0, err
	}
	current++
	if err := m.KVPut(key, current); err != nil {
		return 0, err
	}
	return current, nil
}
