package market

import (
	"math/big"

	"gridchain/core/events"
	"gridchain/core/types"
)

type engineState interface {
	ListingGet(host [20]byte) (*Listing, bool, error)
	ListingPut(*Listing) error
}

type marketEvent struct {
	evt *types.Event
}

func (e marketEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketEvent) Event() *types.Event { return e.evt }

// Engine owns the per-host listing state machine. Hosts interact through the
// public methods; the rental transitions that the escrow engine drives are
// reachable only through the EscrowAuthority handle so no other caller can
// flip rental flags.
type Engine struct {
	state   engineState
	emitter events.Emitter
}

// NewEngine creates a marketplace engine with a no-op emitter. Callers can
// override the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

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
	e.emitter.Emit(marketEvent{evt: event})
}

func (e *Engine) loadListing(host [20]byte) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	listing, ok, err := e.state.ListingGet(host)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSuchListing
	}
	return listing, nil
}

func (e *Engine) storeListing(l *Listing) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	sanitized, err := SanitizeListing(l)
	if err != nil {
		return err
	}
	return e.state.ListingPut(sanitized)
}

// Register creates the host's listing. Each host registers exactly once for
// the lifetime of the system; there is no re-registration path.
func (e *Engine) Register(host [20]byte, specs MachineSpecs, pricePerSecond *big.Int) (*Listing, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if _, ok, err := e.state.ListingGet(host); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyRegistered
	}
	listing := &Listing{
		Host:           host,
		Specs:          specs,
		PricePerSecond: pricePerSecond,
		Available:      false,
		Rented:         false,
	}
	if err := e.storeListing(listing); err != nil {
		return nil, err
	}
	e.emit(NewRegisteredEvent(listing))
	return listing.Clone(), nil
}

// SetAvailability toggles the host's advertised availability. Coming online is
// rejected while the listing is rented; going offline is always permitted. The
// operation is idempotent.
func (e *Engine) SetAvailability(host [20]byte, desired bool) error {
	listing, err := e.loadListing(host)
	if err != nil {
		return err
	}
	if desired && listing.Rented {
		return ErrNotAvailable
	}
	if listing.Available == desired {
		return nil
	}
	listing.Available = desired
	if err := e.storeListing(listing); err != nil {
		return err
	}
	e.emit(NewAvailabilityEvent(listing))
	return nil
}

// View returns the read-only projection of the host's listing.
func (e *Engine) View(host [20]byte) (*ListingView, error) {
	listing, err := e.loadListing(host)
	if err != nil {
		return nil, err
	}
	view := &ListingView{
		Host:           listing.Host,
		Specs:          listing.Specs,
		PricePerSecond: new(big.Int).Set(listing.PricePerSecond),
		Available:      listing.Available,
		Rented:         listing.Rented,
	}
	if listing.Rented {
		id := listing.ActiveJobID
		view.ActiveJobID = &id
	}
	return view, nil
}

// EscrowAuthority returns the capability handle granting the rental
// transitions. The node hands it to the escrow engine at wiring time and to
// nobody else.
func (e *Engine) EscrowAuthority() *EscrowAuthority {
	return &EscrowAuthority{engine: e}
}

// EscrowAuthority exposes the listing transitions reserved for the escrow
// engine: claiming a listing for a job, releasing it afterwards and verifying
// it against a request's requirements.
type EscrowAuthority struct {
	engine *Engine
}

// ClaimForRent marks the listing rented by jobID and returns the price per
// second for cost computation. Only an available, unrented listing can be
// claimed.
func (a *EscrowAuthority) ClaimForRent(host [20]byte, jobID uint64) (*big.Int, error) {
	if a == nil || a.engine == nil {
		return nil, ErrNilState
	}
	listing, err := a.engine.loadListing(host)
	if err != nil {
		return nil, err
	}
	if !listing.Available || listing.Rented {
		return nil, ErrNotAvailable
	}
	listing.Available = false
	listing.Rented = true
	listing.ActiveJobID = jobID
	if err := a.engine.storeListing(listing); err != nil {
		return nil, err
	}
	a.engine.emit(NewClaimedEvent(listing))
	return new(big.Int).Set(listing.PricePerSecond), nil
}

// ReleaseAfterRent clears the rental flags once a job finishes. Availability is
// never restored automatically: a host whose agent crashed mid-job must not
// silently re-enter the available pool, so it re-announces readiness itself.
func (a *EscrowAuthority) ReleaseAfterRent(host [20]byte) error {
	if a == nil || a.engine == nil {
		return ErrNilState
	}
	listing, err := a.engine.loadListing(host)
	if err != nil {
		return err
	}
	listing.Rented = false
	listing.ActiveJobID = 0
	listing.Available = false
	if err := a.engine.storeListing(listing); err != nil {
		return err
	}
	a.engine.emit(NewReleasedEvent(listing))
	return nil
}

// VerifyAcceptable checks, without mutating state, that the listing's price
// fits under maxPrice and its physical specs meet the request minimums.
func (a *EscrowAuthority) VerifyAcceptable(host [20]byte, maxPrice *big.Int, minCPUCores, minRAMGB uint32) error {
	if a == nil || a.engine == nil {
		return ErrNilState
	}
	listing, err := a.engine.loadListing(host)
	if err != nil {
		return err
	}
	if maxPrice == nil || listing.PricePerSecond.Cmp(maxPrice) > 0 {
		return ErrPriceTooHigh
	}
	if !listing.Specs.Meets(minCPUCores, minRAMGB) {
		return ErrInsufficientSpecs
	}
	return nil
}
