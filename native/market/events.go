package market

import (
	"strconv"

	"gridchain/core/types"
	"gridchain/crypto"
)

const (
	EventTypeListingRegistered   = "market.listing.registered"
	EventTypeListingAvailability = "market.listing.availability"
	EventTypeListingClaimed      = "market.listing.claimed"
	EventTypeListingReleased     = "market.listing.released"
)

// NewRegisteredEvent returns the canonical payload for a freshly registered
// listing.
func NewRegisteredEvent(l *Listing) *types.Event {
	return newListingEvent(EventTypeListingRegistered, l)
}

// NewAvailabilityEvent returns the payload emitted when the host toggles
// availability.
func NewAvailabilityEvent(l *Listing) *types.Event {
	return newListingEvent(EventTypeListingAvailability, l)
}

// NewClaimedEvent returns the payload emitted when escrow claims the listing
// for a job.
func NewClaimedEvent(l *Listing) *types.Event {
	return newListingEvent(EventTypeListingClaimed, l)
}

// NewReleasedEvent returns the payload emitted when escrow releases the
// listing after a job.
func NewReleasedEvent(l *Listing) *types.Event {
	return newListingEvent(EventTypeListingReleased, l)
}

func newListingEvent(eventType string, l *Listing) *types.Event {
	attrs := make(map[string]string)
	if l == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	sanitized, err := SanitizeListing(l)
	if err != nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["host"] = crypto.NewAddress(crypto.GridPrefix, sanitized.Host[:]).String()
	attrs["pricePerSecond"] = sanitized.PricePerSecond.String()
	attrs["available"] = strconv.FormatBool(sanitized.Available)
	attrs["rented"] = strconv.FormatBool(sanitized.Rented)
	if sanitized.Rented {
		attrs["jobId"] = strconv.FormatUint(sanitized.ActiveJobID, 10)
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
