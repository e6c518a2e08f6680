package market

import (
	"fmt"
	"math/big"
	"strings"
)

// SpecKind discriminates the advertised machine description.
type SpecKind uint8

const (
	// SpecPhysical describes hardware the host physically operates.
	SpecPhysical SpecKind = iota
	// SpecCloud describes a machine the host resells from a cloud provider.
	SpecCloud
)

// Valid reports whether the kind is within the supported range.
func (k SpecKind) Valid() bool {
	switch k {
	case SpecPhysical, SpecCloud:
		return true
	default:
		return false
	}
}

// MachineSpecs is the tagged union of the two listing variants. Only the
// fields belonging to the active Kind are meaningful; Validate enforces that
// the inactive variant stays zeroed so stored listings remain unambiguous.
type MachineSpecs struct {
	Kind SpecKind

	// Physical variant.
	GPUModel string
	CPUCores uint32
	RAMGB    uint32

	// Cloud variant.
	Provider     string
	InstanceID   string
	InstanceType string
	Region       string
}

// Validate checks the active variant is fully described and the inactive one
// is empty.
func (s MachineSpecs) Validate() error {
	switch s.Kind {
	case SpecPhysical:
		if s.CPUCores == 0 || s.RAMGB == 0 {
			return fmt.Errorf("%w: physical specs require cpu cores and ram", ErrInvalidListing)
		}
		if s.Provider != "" || s.InstanceID != "" || s.InstanceType != "" || s.Region != "" {
			return fmt.Errorf("%w: cloud fields set on physical specs", ErrInvalidListing)
		}
	case SpecCloud:
		if strings.TrimSpace(s.Provider) == "" || strings.TrimSpace(s.InstanceID) == "" {
			return fmt.Errorf("%w: cloud specs require provider and instance id", ErrInvalidListing)
		}
		if s.GPUModel != "" || s.CPUCores != 0 || s.RAMGB != 0 {
			return fmt.Errorf("%w: physical fields set on cloud specs", ErrInvalidListing)
		}
	default:
		return fmt.Errorf("%w: unknown spec kind %d", ErrInvalidListing, s.Kind)
	}
	return nil
}

// Meets reports whether a physical listing satisfies the supplied minimums.
// Cloud listings are categorically rejected from specs-based matching: a
// resold instance type cannot be compared against raw core/RAM requirements.
func (s MachineSpecs) Meets(minCPUCores, minRAMGB uint32) bool {
	if s.Kind != SpecPhysical {
		return false
	}
	return s.CPUCores >= minCPUCores && s.RAMGB >= minRAMGB
}

// Listing is the single advertisement a host owns for the lifetime of the
// system. Invariants: Available and Rented are never both true, and a rented
// listing always carries the active job id.
type Listing struct {
	Host           [20]byte
	Specs          MachineSpecs
	PricePerSecond *big.Int
	Available      bool
	Rented         bool
	ActiveJobID    uint64
}

// Clone returns a deep copy so callers can mutate without touching the stored
// instance.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	clone := *l
	if l.PricePerSecond != nil {
		clone.PricePerSecond = new(big.Int).Set(l.PricePerSecond)
	} else {
		clone.PricePerSecond = big.NewInt(0)
	}
	return &clone
}

// SanitizeListing validates a listing and returns a cloned, normalised copy.
func SanitizeListing(l *Listing) (*Listing, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: nil listing", ErrInvalidListing)
	}
	clone := l.Clone()
	if err := clone.Specs.Validate(); err != nil {
		return nil, err
	}
	if clone.PricePerSecond.Sign() <= 0 {
		return nil, fmt.Errorf("%w: price per second must be positive", ErrInvalidListing)
	}
	if clone.Available && clone.Rented {
		return nil, fmt.Errorf("%w: available and rented both set", ErrInvalidListing)
	}
	if !clone.Rented && clone.ActiveJobID != 0 {
		return nil, fmt.Errorf("%w: job id set on unrented listing", ErrInvalidListing)
	}
	return clone, nil
}

// ListingView is the read-only projection served to queries.
type ListingView struct {
	Host           [20]byte
	Specs          MachineSpecs
	PricePerSecond *big.Int
	Available      bool
	Rented         bool
	ActiveJobID    *uint64
}
