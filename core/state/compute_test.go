package state

import (
	"math/big"
	"testing"

	"gridchain/native/compute"
)

func TestJobRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	var renter, host [20]byte
	renter[0], host[0] = 1, 2

	job := &compute.Job{
		ID:          1,
		Renter:      renter,
		Host:        host,
		StartTime:   1_000_000,
		MaxEndTime:  1_000_100,
		TotalEscrow: big.NewInt(500),
		Claimed:     big.NewInt(120),
		Active:      true,
	}
	if err := manager.JobPut(job); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	reloaded, ok, err := manager.JobGet(1)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if reloaded.StartTime != 1_000_000 || reloaded.MaxEndTime != 1_000_100 {
		t.Fatalf("window mismatch: [%d, %d]", reloaded.StartTime, reloaded.MaxEndTime)
	}
	if reloaded.TotalEscrow.Cmp(big.NewInt(500)) != 0 || reloaded.Claimed.Cmp(big.NewInt(120)) != 0 {
		t.Fatalf("accounting mismatch: %+v", reloaded)
	}
	if !reloaded.Active || reloaded.Renter != renter || reloaded.Host != host {
		t.Fatalf("job mismatch: %+v", reloaded)
	}

	if _, ok, err := manager.JobGet(99); err != nil || ok {
		t.Fatalf("unknown job must be absent")
	}
}

func TestJobPutRejectsNegativeStart(t *testing.T) {
	manager := newTestManager(t)
	job := &compute.Job{
		ID:          1,
		StartTime:   -5,
		MaxEndTime:  10,
		TotalEscrow: big.NewInt(1),
		Claimed:     big.NewInt(0),
	}
	if err := manager.JobPut(job); err == nil {
		t.Fatalf("expected negative start time to be rejected")
	}
}

func TestRequestAndEscrowLifecycle(t *testing.T) {
	manager := newTestManager(t)
	var requester [20]byte
	requester[0] = 3

	req := &compute.Request{
		ID:                 1,
		Requester:          requester,
		Specs:              compute.RequiredSpecs{MinCPUCores: 4, MinRAMGB: 16},
		ContainerImage:     "worker:v2",
		MaxCostPerSecond:   big.NewInt(3),
		MaxDurationSeconds: 60,
		EscrowAmount:       big.NewInt(180),
		Pending:            true,
	}
	if err := manager.RequestPut(req); err != nil {
		t.Fatalf("put request: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	reloaded, ok, err := manager.RequestGet(1)
	if err != nil || !ok {
		t.Fatalf("get request: ok=%v err=%v", ok, err)
	}
	if reloaded.ContainerImage != "worker:v2" || reloaded.EscrowAmount.Cmp(big.NewInt(180)) != 0 {
		t.Fatalf("request mismatch: %+v", reloaded)
	}

	if err := manager.RequestDelete(1); err != nil {
		t.Fatalf("delete request: %v", err)
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit delete: %v", err)
	}
	if _, ok, _ := manager.RequestGet(1); ok {
		t.Fatalf("deleted request still present")
	}
}

func TestRenterJobIndex(t *testing.T) {
	manager := newTestManager(t)
	var renter [20]byte
	renter[0] = 4

	ids, err := manager.RenterJobsGet(renter)
	if err != nil {
		t.Fatalf("get empty index: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty index")
	}

	for _, id := range []uint64{1, 2, 5} {
		if err := manager.RenterJobsAppend(renter, id); err != nil {
			t.Fatalf("append %d: %v", id, err)
		}
	}
	if err := manager.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	ids, err = manager.RenterJobsGet(renter)
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 5 {
		t.Fatalf("index mismatch: %v", ids)
	}
}
