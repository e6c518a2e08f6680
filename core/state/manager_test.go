package state

import (
	"math/big"
	"testing"

	"gridchain/core/types"
	"gridchain/native/market"
	"gridchain/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(storage.NewMemDB())
}

func TestOverlayCommitAndDiscard(t *testing.T) {
	db := storage.NewMemDB()
	manager := NewManager(db)
	key := []byte("test/value")

	if err := manager.KVPut(key, uint64(7)); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Visible through the overlay before commit.
	var got uint64
	ok, err := manager.KVGet(key, &got)
	if err != nil || !ok || got != 7 {
		t.Fatalf("overlay read: ok=%v got=%d err=%v", ok, got, err)
	}
	// But not in the database yet.
	if _, err := db.Get(key); err != storage.ErrNotFound {
		t.Fatalf("uncommitted write reached the database")
	}

	manager.Discard()
	if ok, _ := manager.KVHas(key); ok {
		t.Fatalf("discarded write still visible")
	}

	if err := manager.KVPut(key, uint64(9)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got = 0
	if ok, err := manager.KVGet(key, &got); err != nil || !ok || got != 9 {
		t.Fatalf("committed read: ok=%v got=%d err=%v", ok, got, err)
	}
}

func TestOverlayDelete(t *testing.T) {
	manager := newTestManager(t)
	key := []byte("test/value")

	if err := manager.KVPut(key, uint64(1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if err := manager.KVDelete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// Deletion shadows the committed value inside the window.
	if ok, _ := manager.KVHas(key); ok {
		t.Fatalf("deleted key still visible in overlay")
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit delete: %v", err)
	}
	if ok, _ := manager.KVHas(key); ok {
		t.Fatalf("deleted key still visible after commit")
	}
}

func TestCountersStartAtOne(t *testing.T) {
	manager := newTestManager(t)

	id, err := manager.NextJobID()
	if err != nil {
		t.Fatalf("next job id: %v", err)
	}
	if id != 1 {
		t.Fatalf("first job id must be 1, got %d", id)
	}
	id, err = manager.NextJobID()
	if err != nil || id != 2 {
		t.Fatalf("second job id: %d err=%v", id, err)
	}
	// The request counter is independent.
	id, err = manager.NextRequestID()
	if err != nil || id != 1 {
		t.Fatalf("first request id: %d err=%v", id, err)
	}
}

func TestAccountRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	var owner [20]byte
	owner[0] = 1

	account, err := manager.GetAccount(owner)
	if err != nil {
		t.Fatalf("get missing account: %v", err)
	}
	if account.Balance.Sign() != 0 {
		t.Fatalf("missing account must be zeroed")
	}

	account.Balance = big.NewInt(500)
	account.Nonce = 3
	if err := manager.PutAccount(owner, account); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	reloaded, err := manager.GetAccount(owner)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Balance.Cmp(big.NewInt(500)) != 0 || reloaded.Nonce != 3 {
		t.Fatalf("round trip mismatch: %+v", reloaded)
	}

	negative := &types.Account{Balance: big.NewInt(-1)}
	if err := manager.PutAccount(owner, negative); err == nil {
		t.Fatalf("expected negative balance to be rejected")
	}
}

func TestListingRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	var host [20]byte
	host[0] = 2

	listing := &market.Listing{
		Host:           host,
		Specs:          market.MachineSpecs{Kind: market.SpecPhysical, GPUModel: "h100", CPUCores: 32, RAMGB: 128},
		PricePerSecond: big.NewInt(12),
		Available:      true,
	}
	if err := manager.ListingPut(listing); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	reloaded, ok, err := manager.ListingGet(host)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if reloaded.Specs.GPUModel != "h100" || reloaded.Specs.CPUCores != 32 {
		t.Fatalf("specs mismatch: %+v", reloaded.Specs)
	}
	if reloaded.PricePerSecond.Cmp(big.NewInt(12)) != 0 || !reloaded.Available {
		t.Fatalf("listing mismatch: %+v", reloaded)
	}

	if _, ok, err := manager.ListingGet([20]byte{0xff}); err != nil || ok {
		t.Fatalf("unknown host must be absent, ok=%v err=%v", ok, err)
	}
}
