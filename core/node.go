package core

import (
	"math/big"
	"sync"

	"gridchain/core/events"
	"gridchain/core/state"
	"gridchain/core/types"
	"gridchain/native/compute"
	"gridchain/native/market"
	"gridchain/native/reputation"
	"gridchain/storage"
)

// Node owns the state manager and the native engines and gives every entry
// operation the all-or-nothing semantics the engines assume: operations are
// serialized under one mutex, run against the state overlay, and either commit
// as a whole or leave no trace.
type Node struct {
	mu         sync.Mutex
	state      *state.Manager
	market     *market.Engine
	compute    *compute.Engine
	reputation *reputation.Ledger
	staged     *events.Staging
	recorder   *events.Recorder
}

// NewNode wires the engines over the supplied database.
func NewNode(db storage.Database) *Node {
	manager := state.NewManager(db)
	recorder := events.NewRecorder(1024)
	staged := events.NewStaging()

	marketEngine := market.NewEngine()
	marketEngine.SetState(manager)
	marketEngine.SetEmitter(staged)

	repLedger := reputation.NewLedger(manager)

	computeEngine := compute.NewEngine()
	computeEngine.SetState(manager)
	computeEngine.SetMarketplace(marketEngine.EscrowAuthority())
	computeEngine.SetLedger(compute.NewLedger(manager))
	computeEngine.SetReputation(repLedger)
	computeEngine.SetEmitter(staged)

	return &Node{
		state:      manager,
		market:     marketEngine,
		compute:    computeEngine,
		reputation: repLedger,
		staged:     staged,
		recorder:   recorder,
	}
}

// SetNowFunc overrides the compute engine's time source, for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.compute.SetNowFunc(now)
}

// withTx runs fn inside one overlay window: any error discards every write fn
// performed, success commits them atomically. Events emitted during fn are
// staged and reach the recorder only after a successful commit, so a failed
// operation leaves neither state nor events behind.
func (n *Node) withTx(fn func() error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := fn(); err != nil {
		n.state.Discard()
		n.staged.Discard()
		return err
	}
	if err := n.state.Commit(); err != nil {
		n.staged.Discard()
		return err
	}
	n.staged.Flush(n.recorder)
	return nil
}

// --- marketplace operations ---

// RegisterListing creates the host's single listing.
func (n *Node) RegisterListing(host [20]byte, specs market.MachineSpecs, pricePerSecond *big.Int) (*market.Listing, error) {
	var listing *market.Listing
	err := n.withTx(func() error {
		var err error
		listing, err = n.market.Register(host, specs, pricePerSecond)
		return err
	})
	return listing, err
}

// SetListingAvailability toggles the host's availability flag.
func (n *Node) SetListingAvailability(host [20]byte, desired bool) error {
	return n.withTx(func() error {
		return n.market.SetAvailability(host, desired)
	})
}

// GetListing returns the read-only listing projection.
func (n *Node) GetListing(host [20]byte) (*market.ListingView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.market.View(host)
}

// --- compute operations ---

// RentMachine rents the host's listing directly for durationSeconds.
func (n *Node) RentMachine(renter, host [20]byte, durationSeconds uint64) (*compute.Job, error) {
	var job *compute.Job
	err := n.withTx(func() error {
		var err error
		job, err = n.compute.RentDirect(renter, host, durationSeconds)
		return err
	})
	return job, err
}

// SubmitComputeRequest escrows the worst-case cost and opens a request.
func (n *Node) SubmitComputeRequest(requester [20]byte, containerImage, inputURI string, specs compute.RequiredSpecs, maxCostPerSecond *big.Int, maxDurationSeconds uint64) (*compute.Request, error) {
	var req *compute.Request
	err := n.withTx(func() error {
		var err error
		req, err = n.compute.SubmitRequest(requester, containerImage, inputURI, specs, maxCostPerSecond, maxDurationSeconds)
		return err
	})
	return req, err
}

// AcceptComputeRequest converts an open request into a job on the host's
// listing.
func (n *Node) AcceptComputeRequest(host [20]byte, requestID uint64) (*compute.Job, error) {
	var job *compute.Job
	err := n.withTx(func() error {
		var err error
		job, err = n.compute.AcceptRequest(host, requestID)
		return err
	})
	return job, err
}

// ClaimPayment releases the escrow accrued up to claimTimestamp to the host.
func (n *Node) ClaimPayment(host [20]byte, jobID uint64, claimTimestamp int64, reportedDurationSeconds uint64) (*big.Int, error) {
	var payable *big.Int
	err := n.withTx(func() error {
		var err error
		payable, err = n.compute.ClaimPayment(host, jobID, claimTimestamp, reportedDurationSeconds)
		return err
	})
	return payable, err
}

// TerminateJob ends an active job early, refunding unclaimed escrow to the
// renter.
func (n *Node) TerminateJob(renter [20]byte, jobID uint64) error {
	return n.withTx(func() error {
		return n.compute.TerminateJob(renter, jobID)
	})
}

// GetJob returns the stored job.
func (n *Node) GetJob(jobID uint64) (*compute.Job, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.compute.GetJob(jobID)
}

// GetComputeRequest returns an open request.
func (n *Node) GetComputeRequest(requestID uint64) (*compute.Request, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.compute.GetRequest(requestID)
}

// JobsByRenter lists the renter's job ids; unknown renters yield an empty
// list.
func (n *Node) JobsByRenter(renter [20]byte) ([]uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.compute.JobsByRenter(renter)
}

// --- reputation and account queries ---

// GetReputation returns the host's score; ok is false when the host has no
// completions yet.
func (n *Node) GetReputation(host [20]byte) (*reputation.Score, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.reputation.Get(host)
}

// Balance returns the account balance for addr.
func (n *Node) Balance(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	account, err := n.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return account.Balance, nil
}

// LatestEvents returns up to limit recent events, oldest first.
func (n *Node) LatestEvents(limit int) []types.Event {
	carriers := n.recorder.Latest(limit)
	out := make([]types.Event, 0, len(carriers))
	for _, c := range carriers {
		if carrier, ok := c.(interface{ Event() *types.Event }); ok {
			if evt := carrier.Event(); evt != nil {
				out = append(out, *evt)
			}
		}
	}
	return out
}
