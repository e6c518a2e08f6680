package compute

import (
	"fmt"
	"math/big"
	"strings"
)

// Job is a funded rental session between one renter and one host. Claimed
// never decreases and never exceeds TotalEscrow; once Active drops to false
// the job is terminal.
type Job struct {
	ID          uint64
	Renter      [20]byte
	Host        [20]byte
	StartTime   int64
	MaxEndTime  int64
	TotalEscrow *big.Int
	Claimed     *big.Int
	Active      bool
}

// Clone returns a deep copy so callers can mutate without touching the stored
// instance.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	clone := *j
	if j.TotalEscrow != nil {
		clone.TotalEscrow = new(big.Int).Set(j.TotalEscrow)
	} else {
		clone.TotalEscrow = big.NewInt(0)
	}
	if j.Claimed != nil {
		clone.Claimed = new(big.Int).Set(j.Claimed)
	} else {
		clone.Claimed = big.NewInt(0)
	}
	return &clone
}

// SanitizeJob validates the job's accounting invariants and returns a cloned
// copy with non-nil amount fields.
func SanitizeJob(j *Job) (*Job, error) {
	if j == nil {
		return nil, fmt.Errorf("compute: nil job")
	}
	clone := j.Clone()
	if clone.MaxEndTime < clone.StartTime {
		return nil, fmt.Errorf("compute: job %d ends before it starts", clone.ID)
	}
	if clone.TotalEscrow.Sign() < 0 || clone.Claimed.Sign() < 0 {
		return nil, fmt.Errorf("compute: job %d has negative accounting", clone.ID)
	}
	if clone.Claimed.Cmp(clone.TotalEscrow) > 0 {
		return nil, fmt.Errorf("compute: job %d claimed exceeds escrow", clone.ID)
	}
	return clone, nil
}

// RequiredSpecs are the minimums a listing must meet to serve a request.
type RequiredSpecs struct {
	MinCPUCores uint32
	MinRAMGB    uint32
}

// Request is a pre-funded, unmatched compute need. The requester escrows the
// worst-case cost up front; acceptance converts the request into a Job backed
// by that same escrow.
type Request struct {
	ID                 uint64
	Requester          [20]byte
	Specs              RequiredSpecs
	ContainerImage     string
	InputURI           string
	MaxCostPerSecond   *big.Int
	MaxDurationSeconds uint64
	EscrowAmount       *big.Int
	Pending            bool
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	clone := *r
	if r.MaxCostPerSecond != nil {
		clone.MaxCostPerSecond = new(big.Int).Set(r.MaxCostPerSecond)
	} else {
		clone.MaxCostPerSecond = big.NewInt(0)
	}
	if r.EscrowAmount != nil {
		clone.EscrowAmount = new(big.Int).Set(r.EscrowAmount)
	} else {
		clone.EscrowAmount = big.NewInt(0)
	}
	return &clone
}

// SanitizeRequest validates a request payload and returns a cloned copy.
func SanitizeRequest(r *Request) (*Request, error) {
	if r == nil {
		return nil, fmt.Errorf("compute: nil request")
	}
	clone := r.Clone()
	if strings.TrimSpace(clone.ContainerImage) == "" {
		return nil, fmt.Errorf("compute: request %d missing container image", clone.ID)
	}
	if clone.MaxCostPerSecond.Sign() <= 0 || clone.MaxDurationSeconds == 0 {
		return nil, ErrInvalidDuration
	}
	if clone.EscrowAmount.Sign() <= 0 {
		return nil, fmt.Errorf("compute: request %d missing escrow", clone.ID)
	}
	return clone, nil
}
