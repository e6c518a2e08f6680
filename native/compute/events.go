package compute

import (
	"math/big"
	"strconv"

	"gridchain/core/types"
	"gridchain/crypto"
)

const (
	EventTypeJobCreated      = "compute.job.created"
	EventTypeRequestSubmit   = "compute.request.submitted"
	EventTypeRequestAccepted = "compute.request.accepted"
	EventTypePaymentClaimed  = "compute.payment.claimed"
	EventTypeJobCompleted    = "compute.job.completed"
	EventTypeJobTerminated   = "compute.job.terminated"
)

// NewJobCreatedEvent returns the canonical payload for a job opened by a
// direct rental.
func NewJobCreatedEvent(j *Job) *types.Event { return newJobEvent(EventTypeJobCreated, j, nil) }

// NewRequestSubmittedEvent returns the payload for a freshly escrowed open
// request.
func NewRequestSubmittedEvent(r *Request) *types.Event {
	attrs := make(map[string]string)
	if r != nil {
		attrs["requestId"] = strconv.FormatUint(r.ID, 10)
		attrs["requester"] = eventAddress(r.Requester)
		attrs["containerImage"] = r.ContainerImage
		attrs["maxCostPerSecond"] = r.MaxCostPerSecond.String()
		attrs["maxDurationSeconds"] = strconv.FormatUint(r.MaxDurationSeconds, 10)
		attrs["escrowAmount"] = r.EscrowAmount.String()
	}
	return &types.Event{Type: EventTypeRequestSubmit, Attributes: attrs}
}

// NewRequestAcceptedEvent returns the payload emitted when a host converts an
// open request into a job.
func NewRequestAcceptedEvent(r *Request, j *Job) *types.Event {
	evt := newJobEvent(EventTypeRequestAccepted, j, nil)
	if r != nil {
		evt.Attributes["requestId"] = strconv.FormatUint(r.ID, 10)
	}
	return evt
}

// NewPaymentClaimedEvent returns the payload for an incremental escrow
// release.
func NewPaymentClaimedEvent(j *Job, payable *big.Int) *types.Event {
	return newJobEvent(EventTypePaymentClaimed, j, map[string]string{"payable": payable.String()})
}

// NewJobCompletedEvent returns the payload emitted when a job reaches its
// terminal state through payment claims.
func NewJobCompletedEvent(j *Job) *types.Event { return newJobEvent(EventTypeJobCompleted, j, nil) }

// NewJobTerminatedEvent returns the payload emitted when the renter ends a job
// early.
func NewJobTerminatedEvent(j *Job, actualDurationSeconds uint64) *types.Event {
	return newJobEvent(EventTypeJobTerminated, j, map[string]string{
		"actualDurationSeconds": strconv.FormatUint(actualDurationSeconds, 10),
	})
}

// eventAddress renders an account the same way the RPC surface does, so event
// consumers need a single address codec.
func eventAddress(addr [20]byte) string {
	return crypto.NewAddress(crypto.GridPrefix, addr[:]).String()
}

func newJobEvent(eventType string, j *Job, extra map[string]string) *types.Event {
	attrs := make(map[string]string)
	if j != nil {
		sanitized, err := SanitizeJob(j)
		if err == nil {
			attrs["jobId"] = strconv.FormatUint(sanitized.ID, 10)
			attrs["renter"] = eventAddress(sanitized.Renter)
			attrs["host"] = eventAddress(sanitized.Host)
			attrs["startTime"] = strconv.FormatInt(sanitized.StartTime, 10)
			attrs["maxEndTime"] = strconv.FormatInt(sanitized.MaxEndTime, 10)
			attrs["totalEscrow"] = sanitized.TotalEscrow.String()
			attrs["claimed"] = sanitized.Claimed.String()
			attrs["active"] = strconv.FormatBool(sanitized.Active)
		}
	}
	for k, v := range extra {
		attrs[k] = v
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
