package compute

import (
	"math/big"
	"time"

	"gridchain/core/events"
	"gridchain/core/types"
)

type engineState interface {
	JobGet(id uint64) (*Job, bool, error)
	JobPut(*Job) error
	JobEscrowGet(id uint64) (*Token, bool, error)
	JobEscrowPut(id uint64, token *Token) error
	JobEscrowDelete(id uint64) error
	RequestGet(id uint64) (*Request, bool, error)
	RequestPut(*Request) error
	RequestDelete(id uint64) error
	RequestEscrowGet(id uint64) (*Token, bool, error)
	RequestEscrowPut(id uint64, token *Token) error
	RequestEscrowDelete(id uint64) error
	RenterJobsGet(renter [20]byte) ([]uint64, error)
	RenterJobsAppend(renter [20]byte, jobID uint64) error
	NextJobID() (uint64, error)
	NextRequestID() (uint64, error)
}

// Marketplace is the capability surface the escrow engine holds over listings.
// The marketplace engine hands it out once, at node wiring time.
type Marketplace interface {
	ClaimForRent(host [20]byte, jobID uint64) (*big.Int, error)
	ReleaseAfterRent(host [20]byte) error
	VerifyAcceptable(host [20]byte, maxPrice *big.Int, minCPUCores, minRAMGB uint32) error
}

// ReputationRecorder receives completion facts when jobs reach a terminal
// state. Only this engine calls it.
type ReputationRecorder interface {
	RecordCompletion(host [20]byte, durationSeconds uint64) error
}

type computeEvent struct {
	evt *types.Event
}

func (e computeEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e computeEvent) Event() *types.Event { return e.evt }

// Engine drives the escrowed job lifecycle: direct rentals, pre-funded
// requests, streamed payment claims and early termination. Every entry
// operation runs inside the node's all-or-nothing state transaction, so a
// returned error means no effect.
type Engine struct {
	state      engineState
	market     Marketplace
	ledger     LedgerAdapter
	reputation ReputationRecorder
	emitter    events.Emitter
	nowFn      func() int64
}

// NewEngine creates a compute engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetMarketplace configures the listing authority handle.
func (e *Engine) SetMarketplace(market Marketplace) { e.market = market }

// SetLedger configures the currency-transfer collaborator.
func (e *Engine) SetLedger(ledger LedgerAdapter) { e.ledger = ledger }

// SetReputation configures the completion recorder.
func (e *Engine) SetReputation(rec ReputationRecorder) { e.reputation = rec }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(computeEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) ready() error {
	switch {
	case e == nil || e.state == nil:
		return ErrNilState
	case e.market == nil:
		return ErrNilMarketplace
	case e.ledger == nil:
		return ErrNilLedger
	default:
		return nil
	}
}

func (e *Engine) loadJob(id uint64) (*Job, error) {
	job, ok, err := e.state.JobGet(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (e *Engine) storeJob(job *Job) error {
	sanitized, err := SanitizeJob(job)
	if err != nil {
		return err
	}
	return e.state.JobPut(sanitized)
}

// RentDirect rents the host's listing for durationSeconds, escrowing the full
// cost up front. The listing claim happens before the withdrawal; if either
// step fails the enclosing transaction discards all of it.
func (e *Engine) RentDirect(renter, host [20]byte, durationSeconds uint64) (*Job, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if durationSeconds == 0 {
		return nil, ErrInvalidDuration
	}
	jobID, err := e.state.NextJobID()
	if err != nil {
		return nil, err
	}
	pricePerSecond, err := e.market.ClaimForRent(host, jobID)
	if err != nil {
		return nil, err
	}
	totalCost := new(big.Int).Mul(pricePerSecond, new(big.Int).SetUint64(durationSeconds))
	token, err := e.ledger.Withdraw(renter, totalCost)
	if err != nil {
		return nil, err
	}
	now := e.now()
	job := &Job{
		ID:          jobID,
		Renter:      renter,
		Host:        host,
		StartTime:   now,
		MaxEndTime:  now + int64(durationSeconds),
		TotalEscrow: totalCost,
		Claimed:     big.NewInt(0),
		Active:      true,
	}
	if err := e.storeJob(job); err != nil {
		return nil, err
	}
	if err := e.state.JobEscrowPut(jobID, token); err != nil {
		return nil, err
	}
	if err := e.state.RenterJobsAppend(renter, jobID); err != nil {
		return nil, err
	}
	e.emit(NewJobCreatedEvent(job))
	return job.Clone(), nil
}

// SubmitRequest escrows the worst-case cost (ceiling price times maximum
// duration) and stores an open request for a qualifying host to accept.
func (e *Engine) SubmitRequest(requester [20]byte, containerImage, inputURI string, specs RequiredSpecs, maxCostPerSecond *big.Int, maxDurationSeconds uint64) (*Request, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if maxCostPerSecond == nil || maxCostPerSecond.Sign() <= 0 || maxDurationSeconds == 0 {
		return nil, ErrInvalidDuration
	}
	maxTotal := new(big.Int).Mul(maxCostPerSecond, new(big.Int).SetUint64(maxDurationSeconds))
	requestID, err := e.state.NextRequestID()
	if err != nil {
		return nil, err
	}
	req := &Request{
		ID:                 requestID,
		Requester:          requester,
		Specs:              specs,
		ContainerImage:     containerImage,
		InputURI:           inputURI,
		MaxCostPerSecond:   maxCostPerSecond,
		MaxDurationSeconds: maxDurationSeconds,
		EscrowAmount:       maxTotal,
		Pending:            true,
	}
	sanitized, err := SanitizeRequest(req)
	if err != nil {
		return nil, err
	}
	token, err := e.ledger.Withdraw(requester, maxTotal)
	if err != nil {
		return nil, err
	}
	if err := e.state.RequestPut(sanitized); err != nil {
		return nil, err
	}
	if err := e.state.RequestEscrowPut(requestID, token); err != nil {
		return nil, err
	}
	e.emit(NewRequestSubmittedEvent(sanitized))
	return sanitized.Clone(), nil
}

// AcceptRequest matches the host's listing against an open request. Any
// verification failure leaves the request pending and untouched. On success
// the pre-funded escrow moves from the request's slot into the new job and the
// request is removed.
func (e *Engine) AcceptRequest(host [20]byte, requestID uint64) (*Job, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	req, ok, err := e.state.RequestGet(requestID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRequestNotFound
	}
	if !req.Pending {
		return nil, ErrAlreadyAccepted
	}
	if err := e.market.VerifyAcceptable(host, req.MaxCostPerSecond, req.Specs.MinCPUCores, req.Specs.MinRAMGB); err != nil {
		return nil, err
	}
	jobID, err := e.state.NextJobID()
	if err != nil {
		return nil, err
	}
	if _, err := e.market.ClaimForRent(host, jobID); err != nil {
		return nil, err
	}
	token, ok, err := e.state.RequestEscrowGet(requestID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEscrowMissing
	}
	now := e.now()
	job := &Job{
		ID:          jobID,
		Renter:      req.Requester,
		Host:        host,
		StartTime:   now,
		MaxEndTime:  now + int64(req.MaxDurationSeconds),
		TotalEscrow: req.EscrowAmount,
		Claimed:     big.NewInt(0),
		Active:      true,
	}
	if err := e.storeJob(job); err != nil {
		return nil, err
	}
	if err := e.state.JobEscrowPut(jobID, token); err != nil {
		return nil, err
	}
	if err := e.state.RequestEscrowDelete(requestID); err != nil {
		return nil, err
	}
	if err := e.state.RequestDelete(requestID); err != nil {
		return nil, err
	}
	if err := e.state.RenterJobsAppend(req.Requester, jobID); err != nil {
		return nil, err
	}
	e.emit(NewRequestAcceptedEvent(req, job))
	return job.Clone(), nil
}

// accruedAt returns the amount released to the host by claimTimestamp under
// the linear schedule: the escrow divided evenly (integer floor) across the
// committed window, capped at the total.
func accruedAt(job *Job, claimTimestamp int64) *big.Int {
	window := job.MaxEndTime - job.StartTime
	if window == 0 {
		window = 1
	}
	perSecond := new(big.Int).Div(job.TotalEscrow, big.NewInt(window))
	elapsed := claimTimestamp - job.StartTime
	due := new(big.Int).Mul(perSecond, big.NewInt(elapsed))
	if due.Cmp(job.TotalEscrow) > 0 {
		due.Set(job.TotalEscrow)
	}
	return due
}

// ClaimPayment pays the host the portion of escrow accrued since the last
// claim. When the escrow is exhausted or the window has closed the job turns
// terminal, the listing is released and the completion is recorded with the
// host-reported session duration (taken at face value; verifying it is an
// off-chain concern).
func (e *Engine) ClaimPayment(host [20]byte, jobID uint64, claimTimestamp int64, reportedDurationSeconds uint64) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	job, err := e.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.Host != host {
		return nil, ErrUnauthorized
	}
	if !job.Active {
		return nil, ErrJobInactive
	}
	if claimTimestamp < job.StartTime || claimTimestamp > job.MaxEndTime {
		return nil, ErrClaimTimeOutOfRange
	}
	due := accruedAt(job, claimTimestamp)
	payable := new(big.Int).Sub(due, job.Claimed)
	if payable.Sign() <= 0 {
		return nil, ErrAlreadyPaid
	}
	token, ok, err := e.state.JobEscrowGet(jobID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEscrowMissing
	}
	payout, err := token.Split(payable)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.Deposit(host, payout); err != nil {
		return nil, err
	}
	if err := payout.Destroy(); err != nil {
		return nil, err
	}
	job.Claimed = new(big.Int).Add(job.Claimed, payable)
	finished := job.Claimed.Cmp(job.TotalEscrow) >= 0 || claimTimestamp >= job.MaxEndTime
	if finished {
		job.Active = false
	}
	if err := e.storeJob(job); err != nil {
		return nil, err
	}
	if token.Amount().Sign() == 0 {
		if err := e.state.JobEscrowDelete(jobID); err != nil {
			return nil, err
		}
		if err := token.Destroy(); err != nil {
			return nil, err
		}
	} else if err := e.state.JobEscrowPut(jobID, token); err != nil {
		return nil, err
	}
	e.emit(NewPaymentClaimedEvent(job, payable))
	if finished {
		if err := e.finishJob(job, reportedDurationSeconds); err != nil {
			return nil, err
		}
		e.emit(NewJobCompletedEvent(job))
	}
	return payable, nil
}

// TerminateJob lets the renter end an active job early. Unclaimed escrow is
// refunded to the renter and the host's uptime is credited with the wall-clock
// time actually served, clamped to the committed window.
func (e *Engine) TerminateJob(renter [20]byte, jobID uint64) error {
	if err := e.ready(); err != nil {
		return err
	}
	job, err := e.loadJob(jobID)
	if err != nil {
		return err
	}
	if job.Renter != renter {
		return ErrUnauthorized
	}
	if !job.Active {
		return ErrJobInactive
	}
	token, ok, err := e.state.JobEscrowGet(jobID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEscrowMissing
	}
	if err := e.state.JobEscrowDelete(jobID); err != nil {
		return err
	}
	if token.Amount().Sign() > 0 {
		if err := e.ledger.Deposit(renter, token); err != nil {
			return err
		}
	}
	if err := token.Destroy(); err != nil {
		return err
	}
	elapsed := e.now() - job.StartTime
	window := job.MaxEndTime - job.StartTime
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > window {
		elapsed = window
	}
	job.Active = false
	if err := e.storeJob(job); err != nil {
		return err
	}
	if err := e.market.ReleaseAfterRent(job.Host); err != nil {
		return err
	}
	if e.reputation != nil {
		if err := e.reputation.RecordCompletion(job.Host, uint64(elapsed)); err != nil {
			return err
		}
	}
	e.emit(NewJobTerminatedEvent(job, uint64(elapsed)))
	return nil
}

func (e *Engine) finishJob(job *Job, reportedDurationSeconds uint64) error {
	if err := e.market.ReleaseAfterRent(job.Host); err != nil {
		return err
	}
	if e.reputation != nil {
		return e.reputation.RecordCompletion(job.Host, reportedDurationSeconds)
	}
	return nil
}

// GetJob returns a copy of the stored job.
func (e *Engine) GetJob(jobID uint64) (*Job, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	job, err := e.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	return job.Clone(), nil
}

// GetRequest returns a copy of an open request.
func (e *Engine) GetRequest(requestID uint64) (*Request, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	req, ok, err := e.state.RequestGet(requestID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRequestNotFound
	}
	return req.Clone(), nil
}

// JobsByRenter lists the renter's job ids in creation order. An unknown renter
// yields an empty list.
func (e *Engine) JobsByRenter(renter [20]byte) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	return e.state.RenterJobsGet(renter)
}
