package compute

import (
	"errors"
	"math/big"
	"testing"

	"gridchain/core/types"
)

type mockState struct {
	jobs           map[uint64]*Job
	jobEscrow      map[uint64]*Token
	requests       map[uint64]*Request
	requestEscrow  map[uint64]*Token
	renterJobs     map[[20]byte][]uint64
	jobCounter     uint64
	requestCounter uint64
}

func newMockState() *mockState {
	return &mockState{
		jobs:          make(map[uint64]*Job),
		jobEscrow:     make(map[uint64]*Token),
		requests:      make(map[uint64]*Request),
		requestEscrow: make(map[uint64]*Token),
		renterJobs:    make(map[[20]byte][]uint64),
	}
}

func (m *mockState) JobGet(id uint64) (*Job, bool, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, false, nil
	}
	return job.Clone(), true, nil
}

func (m *mockState) JobPut(job *Job) error {
	m.jobs[job.ID] = job.Clone()
	return nil
}

func (m *mockState) JobEscrowGet(id uint64) (*Token, bool, error) {
	token, ok := m.jobEscrow[id]
	if !ok {
		return nil, false, nil
	}
	return mintToken(token.Amount()), true, nil
}

func (m *mockState) JobEscrowPut(id uint64, token *Token) error {
	m.jobEscrow[id] = mintToken(token.Amount())
	return nil
}

func (m *mockState) JobEscrowDelete(id uint64) error {
	delete(m.jobEscrow, id)
	return nil
}

func (m *mockState) RequestGet(id uint64) (*Request, bool, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, false, nil
	}
	return req.Clone(), true, nil
}

func (m *mockState) RequestPut(req *Request) error {
	m.requests[req.ID] = req.Clone()
	return nil
}

func (m *mockState) RequestDelete(id uint64) error {
	delete(m.requests, id)
	return nil
}

func (m *mockState) RequestEscrowGet(id uint64) (*Token, bool, error) {
	token, ok := m.requestEscrow[id]
	if !ok {
		return nil, false, nil
	}
	return mintToken(token.Amount()), true, nil
}

func (m *mockState) RequestEscrowPut(id uint64, token *Token) error {
	m.requestEscrow[id] = mintToken(token.Amount())
	return nil
}

func (m *mockState) RequestEscrowDelete(id uint64) error {
	delete(m.requestEscrow, id)
	return nil
}

func (m *mockState) RenterJobsGet(renter [20]byte) ([]uint64, error) {
	return append([]uint64(nil), m.renterJobs[renter]...), nil
}

func (m *mockState) RenterJobsAppend(renter [20]byte, jobID uint64) error {
	m.renterJobs[renter] = append(m.renterJobs[renter], jobID)
	return nil
}

func (m *mockState) NextJobID() (uint64, error) {
	m.jobCounter++
	return m.jobCounter, nil
}

func (m *mockState) NextRequestID() (uint64, error) {
	m.requestCounter++
	return m.requestCounter, nil
}

type mockBalances struct {
	accounts map[[20]byte]*types.Account
}

func newMockBalances() *mockBalances {
	return &mockBalances{accounts: make(map[[20]byte]*types.Account)}
}

func (m *mockBalances) GetAccount(addr [20]byte) (*types.Account, error) {
	account, ok := m.accounts[addr]
	if !ok {
		account = &types.Account{}
		account.EnsureDefaults()
		return account, nil
	}
	copied := &types.Account{Nonce: account.Nonce, Balance: new(big.Int).Set(account.Balance)}
	return copied, nil
}

func (m *mockBalances) PutAccount(addr [20]byte, account *types.Account) error {
	m.accounts[addr] = &types.Account{Nonce: account.Nonce, Balance: new(big.Int).Set(account.Balance)}
	return nil
}

func (m *mockBalances) fund(addr [20]byte, amount int64) {
	m.accounts[addr] = &types.Account{Balance: big.NewInt(amount)}
}

func (m *mockBalances) balance(addr [20]byte) *big.Int {
	account, ok := m.accounts[addr]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(account.Balance)
}

// mockMarket records the claims and releases the engine performs against the
// listing authority and answers price queries from a flat table.
type mockMarket struct {
	prices     map[[20]byte]*big.Int
	claimed    map[[20]byte]uint64
	released   [][20]byte
	verifyErr  error
	claimErr   error
	releaseErr error
}

func newMockMarket() *mockMarket {
	return &mockMarket{
		prices:  make(map[[20]byte]*big.Int),
		claimed: make(map[[20]byte]uint64),
	}
}

func (m *mockMarket) ClaimForRent(host [20]byte, jobID uint64) (*big.Int, error) {
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	price, ok := m.prices[host]
	if !ok {
		return nil, errors.New("mock: unknown host")
	}
	if _, rented := m.claimed[host]; rented {
		return nil, errors.New("mock: already rented")
	}
	m.claimed[host] = jobID
	return new(big.Int).Set(price), nil
}

func (m *mockMarket) ReleaseAfterRent(host [20]byte) error {
	if m.releaseErr != nil {
		return m.releaseErr
	}
	delete(m.claimed, host)
	m.released = append(m.released, host)
	return nil
}

func (m *mockMarket) VerifyAcceptable(host [20]byte, maxPrice *big.Int, minCPUCores, minRAMGB uint32) error {
	if m.verifyErr != nil {
		return m.verifyErr
	}
	price, ok := m.prices[host]
	if !ok {
		return errors.New("mock: unknown host")
	}
	if maxPrice == nil || price.Cmp(maxPrice) > 0 {
		return errors.New("mock: price too high")
	}
	return nil
}

type mockReputation struct {
	completions map[[20]byte]uint64
	uptime      map[[20]byte]uint64
}

func newMockReputation() *mockReputation {
	return &mockReputation{
		completions: make(map[[20]byte]uint64),
		uptime:      make(map[[20]byte]uint64),
	}
}

func (m *mockReputation) RecordCompletion(host [20]byte, durationSeconds uint64) error {
	m.completions[host]++
	m.uptime[host] += durationSeconds
	return nil
}

type testFixture struct {
	engine     *Engine
	state      *mockState
	balances   *mockBalances
	market     *mockMarket
	reputation *mockReputation
	now        int64
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	fx := &testFixture{
		state:      newMockState(),
		balances:   newMockBalances(),
		market:     newMockMarket(),
		reputation: newMockReputation(),
		now:        1_000_000,
	}
	engine := NewEngine()
	engine.SetState(fx.state)
	engine.SetMarketplace(fx.market)
	engine.SetLedger(NewLedger(fx.balances))
	engine.SetReputation(fx.reputation)
	engine.SetNowFunc(func() int64 { return fx.now })
	fx.engine = engine
	return fx
}

func addr(b byte) [20]byte {
	var out [20]byte
	out[0] = b
	return out
}

func TestRentDirectEscrowsFullCost(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}
	if job.TotalEscrow.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("expected 500 escrowed, got %s", job.TotalEscrow)
	}
	if job.StartTime != fx.now || job.MaxEndTime != fx.now+100 {
		t.Fatalf("unexpected window: [%d, %d]", job.StartTime, job.MaxEndTime)
	}
	if !job.Active || job.Claimed.Sign() != 0 {
		t.Fatalf("new job must be active with nothing claimed")
	}
	if got := fx.balances.balance(renter); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("renter balance after escrow: %s", got)
	}
	escrow := fx.state.jobEscrow[job.ID]
	if escrow == nil || escrow.Amount().Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("escrow slot not funded")
	}
	if fx.market.claimed[host] != job.ID {
		t.Fatalf("listing not claimed for job %d", job.ID)
	}
	ids, _ := fx.engine.JobsByRenter(renter)
	if len(ids) != 1 || ids[0] != job.ID {
		t.Fatalf("renter index: %v", ids)
	}
}

func TestRentDirectValidation(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 10)

	if _, err := fx.engine.RentDirect(renter, host, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := fx.engine.RentDirect(renter, host, 100); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestClaimPaymentLinearAccrual(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}

	// 40 seconds in, 40*5=200 accrued.
	payable, err := fx.engine.ClaimPayment(host, job.ID, job.StartTime+40, 0)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if payable.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("first claim payable: %s", payable)
	}
	if got := fx.balances.balance(host); got.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("host balance after first claim: %s", got)
	}

	// Same timestamp again: nothing newly accrued.
	if _, err := fx.engine.ClaimPayment(host, job.ID, job.StartTime+40, 0); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}

	// 70 seconds in: only the 30-second delta is paid.
	payable, err = fx.engine.ClaimPayment(host, job.ID, job.StartTime+70, 0)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if payable.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("second claim payable: %s", payable)
	}

	stored := fx.state.jobs[job.ID]
	if !stored.Active {
		t.Fatalf("job must stay active before the window closes")
	}
	if stored.Claimed.Cmp(big.NewInt(350)) != 0 {
		t.Fatalf("claimed total: %s", stored.Claimed)
	}
	// Conservation: claimed plus remaining escrow equals the original total.
	remaining := fx.state.jobEscrow[job.ID].Amount()
	if new(big.Int).Add(stored.Claimed, remaining).Cmp(stored.TotalEscrow) != 0 {
		t.Fatalf("escrow leak: claimed=%s remaining=%s total=%s", stored.Claimed, remaining, stored.TotalEscrow)
	}
}

func TestClaimPaymentFinalClaimCompletesJob(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}

	payable, err := fx.engine.ClaimPayment(host, job.ID, job.MaxEndTime, 95)
	if err != nil {
		t.Fatalf("final claim: %v", err)
	}
	if payable.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("final claim payable: %s", payable)
	}
	stored := fx.state.jobs[job.ID]
	if stored.Active {
		t.Fatalf("job must be terminal after the escrow is exhausted")
	}
	if _, ok := fx.state.jobEscrow[job.ID]; ok {
		t.Fatalf("drained escrow slot must be removed")
	}
	if len(fx.market.released) != 1 || fx.market.released[0] != host {
		t.Fatalf("listing not released: %v", fx.market.released)
	}
	// The host-reported duration is what lands in reputation.
	if fx.reputation.completions[host] != 1 || fx.reputation.uptime[host] != 95 {
		t.Fatalf("reputation: completions=%d uptime=%d", fx.reputation.completions[host], fx.reputation.uptime[host])
	}
	if _, err := fx.engine.ClaimPayment(host, job.ID, job.MaxEndTime, 0); !errors.Is(err, ErrJobInactive) {
		t.Fatalf("expected ErrJobInactive on finished job, got %v", err)
	}
}

func TestClaimPaymentPartialSecondAccrual(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	// Price 3 over a 7 second window escrows 21; two seconds in exactly 6 has
	// accrued, never a rounded-up 7.
	fx.market.prices[host] = big.NewInt(3)
	fx.balances.fund(renter, 100)

	job, err := fx.engine.RentDirect(renter, host, 7)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}

	payable, err := fx.engine.ClaimPayment(host, job.ID, job.StartTime+2, 0)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if payable.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("expected floor accrual 6, got %s", payable)
	}
}

func TestClaimPaymentGuards(t *testing.T) {
	fx := newFixture(t)
	renter, host, stranger := addr(1), addr(2), addr(3)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}

	if _, err := fx.engine.ClaimPayment(host, 999, job.StartTime+10, 0); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := fx.engine.ClaimPayment(stranger, job.ID, job.StartTime+10, 0); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := fx.engine.ClaimPayment(host, job.ID, job.StartTime-1, 0); !errors.Is(err, ErrClaimTimeOutOfRange) {
		t.Fatalf("expected ErrClaimTimeOutOfRange before start, got %v", err)
	}
	if _, err := fx.engine.ClaimPayment(host, job.ID, job.MaxEndTime+1, 0); !errors.Is(err, ErrClaimTimeOutOfRange) {
		t.Fatalf("expected ErrClaimTimeOutOfRange after end, got %v", err)
	}
	// Claiming at the exact start accrues nothing.
	if _, err := fx.engine.ClaimPayment(host, job.ID, job.StartTime, 0); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid at start, got %v", err)
	}
}

func TestTerminateJobRefundsUnclaimedEscrow(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}
	if _, err := fx.engine.ClaimPayment(host, job.ID, job.StartTime+40, 0); err != nil {
		t.Fatalf("claim: %v", err)
	}

	fx.now = job.StartTime + 60
	if err := fx.engine.TerminateJob(renter, job.ID); err != nil {
		t.Fatalf("terminate: %v", err)
	}

	// 500 escrowed, 200 claimed, 300 back to the renter.
	if got := fx.balances.balance(renter); got.Cmp(big.NewInt(800)) != 0 {
		t.Fatalf("renter balance after refund: %s", got)
	}
	if got := fx.balances.balance(host); got.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("host keeps earned payout: %s", got)
	}
	stored := fx.state.jobs[job.ID]
	if stored.Active {
		t.Fatalf("terminated job must be terminal")
	}
	if _, ok := fx.state.jobEscrow[job.ID]; ok {
		t.Fatalf("escrow slot must be removed on termination")
	}
	if len(fx.market.released) != 1 || fx.market.released[0] != host {
		t.Fatalf("listing not released")
	}
	// Uptime credit is the wall-clock time served, not the committed window.
	if fx.reputation.uptime[host] != 60 {
		t.Fatalf("uptime credit: %d", fx.reputation.uptime[host])
	}
}

func TestTerminateJobGuards(t *testing.T) {
	fx := newFixture(t)
	renter, host, stranger := addr(1), addr(2), addr(3)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}

	if err := fx.engine.TerminateJob(stranger, job.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := fx.engine.TerminateJob(renter, 999); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if err := fx.engine.TerminateJob(renter, job.ID); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if err := fx.engine.TerminateJob(renter, job.ID); !errors.Is(err, ErrJobInactive) {
		t.Fatalf("expected ErrJobInactive on repeat, got %v", err)
	}
}

func TestTerminateJobClampsUptimeToWindow(t *testing.T) {
	fx := newFixture(t)
	renter, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(5)
	fx.balances.fund(renter, 1000)

	job, err := fx.engine.RentDirect(renter, host, 100)
	if err != nil {
		t.Fatalf("rent: %v", err)
	}

	fx.now = job.MaxEndTime + 500
	if err := fx.engine.TerminateJob(renter, job.ID); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	if fx.reputation.uptime[host] != 100 {
		t.Fatalf("uptime must clamp to the committed window, got %d", fx.reputation.uptime[host])
	}
}

func TestSubmitRequestEscrowsWorstCase(t *testing.T) {
	fx := newFixture(t)
	requester := addr(1)
	fx.balances.fund(requester, 1000)

	req, err := fx.engine.SubmitRequest(requester, "worker:v1", "s3://inputs/run1", RequiredSpecs{MinCPUCores: 8, MinRAMGB: 32}, big.NewInt(4), 120)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if req.EscrowAmount.Cmp(big.NewInt(480)) != 0 {
		t.Fatalf("worst-case escrow: %s", req.EscrowAmount)
	}
	if !req.Pending {
		t.Fatalf("new request must be pending")
	}
	if got := fx.balances.balance(requester); got.Cmp(big.NewInt(520)) != 0 {
		t.Fatalf("requester balance: %s", got)
	}
	escrow := fx.state.requestEscrow[req.ID]
	if escrow == nil || escrow.Amount().Cmp(big.NewInt(480)) != 0 {
		t.Fatalf("request escrow slot not funded")
	}
}

func TestSubmitRequestValidation(t *testing.T) {
	fx := newFixture(t)
	requester := addr(1)
	fx.balances.fund(requester, 1000)

	if _, err := fx.engine.SubmitRequest(requester, "worker:v1", "", RequiredSpecs{}, big.NewInt(0), 120); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for zero price, got %v", err)
	}
	if _, err := fx.engine.SubmitRequest(requester, "worker:v1", "", RequiredSpecs{}, big.NewInt(4), 0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration for zero duration, got %v", err)
	}
	if _, err := fx.engine.SubmitRequest(requester, "   ", "", RequiredSpecs{}, big.NewInt(4), 120); err == nil {
		t.Fatalf("expected error for blank container image")
	}
	if _, err := fx.engine.SubmitRequest(requester, "worker:v1", "", RequiredSpecs{}, big.NewInt(100), 120); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestAcceptRequestMovesEscrowIntoJob(t *testing.T) {
	fx := newFixture(t)
	requester, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(3)
	fx.balances.fund(requester, 1000)

	req, err := fx.engine.SubmitRequest(requester, "worker:v1", "", RequiredSpecs{MinCPUCores: 8, MinRAMGB: 32}, big.NewInt(4), 100)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	job, err := fx.engine.AcceptRequest(host, req.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if job.Renter != requester || job.Host != host {
		t.Fatalf("job parties wrong: %+v", job)
	}
	if job.TotalEscrow.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("job escrow must carry the request's worst-case amount, got %s", job.TotalEscrow)
	}
	if job.MaxEndTime-job.StartTime != 100 {
		t.Fatalf("job window must match the request's max duration")
	}
	if _, ok := fx.state.requests[req.ID]; ok {
		t.Fatalf("accepted request must be removed")
	}
	if _, ok := fx.state.requestEscrow[req.ID]; ok {
		t.Fatalf("request escrow slot must be removed")
	}
	escrow := fx.state.jobEscrow[job.ID]
	if escrow == nil || escrow.Amount().Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("job escrow slot must hold the moved funds")
	}
	if _, err := fx.engine.AcceptRequest(host, req.ID); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound on second accept, got %v", err)
	}
}

func TestAcceptRequestVerificationFailureLeavesRequestOpen(t *testing.T) {
	fx := newFixture(t)
	requester, host := addr(1), addr(2)
	fx.market.prices[host] = big.NewInt(3)
	fx.balances.fund(requester, 1000)

	req, err := fx.engine.SubmitRequest(requester, "worker:v1", "", RequiredSpecs{}, big.NewInt(4), 100)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	fx.market.verifyErr = errors.New("mock: specs too small")
	if _, err := fx.engine.AcceptRequest(host, req.ID); err == nil {
		t.Fatalf("expected verification failure")
	}
	stored, ok := fx.state.requests[req.ID]
	if !ok || !stored.Pending {
		t.Fatalf("failed accept must leave the request pending")
	}
	if _, ok := fx.state.requestEscrow[req.ID]; !ok {
		t.Fatalf("failed accept must leave the escrow in place")
	}

	fx.market.verifyErr = nil
	if _, err := fx.engine.AcceptRequest(host, req.ID); err != nil {
		t.Fatalf("accept after fix: %v", err)
	}
}

func TestGetRequestAndUnknownLookups(t *testing.T) {
	fx := newFixture(t)
	requester := addr(1)
	fx.balances.fund(requester, 1000)

	req, err := fx.engine.SubmitRequest(requester, "worker:v1", "ipfs://abc", RequiredSpecs{MinCPUCores: 2, MinRAMGB: 4}, big.NewInt(2), 50)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := fx.engine.GetRequest(req.ID)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if got.InputURI != "ipfs://abc" || got.Specs.MinCPUCores != 2 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if _, err := fx.engine.GetRequest(999); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
	if _, err := fx.engine.GetJob(999); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	ids, err := fx.engine.JobsByRenter(addr(9))
	if err != nil {
		t.Fatalf("jobs by unknown renter: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("unknown renter must yield an empty list")
	}
}
