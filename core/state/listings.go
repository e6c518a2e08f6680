package state

import (
	"fmt"

	"gridchain/native/market"
)

var listingPrefix = []byte("market/listings/")

func listingKey(host [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", listingPrefix, host))
}

// ListingGet loads the host's listing if one has been registered.
func (m *Manager) ListingGet(host [20]byte) (*market.Listing, bool, error) {
	listing := &market.Listing{}
	ok, err := m.KVGet(listingKey(host), listing)
	if err != nil || !ok {
		return nil, false, err
	}
	return listing, true, nil
}

// ListingPut persists the host's listing.
func (m *Manager) ListingPut(listing *market.Listing) error {
	sanitized, err := market.SanitizeListing(listing)
	if err != nil {
		return err
	}
	return m.KVPut(listingKey(sanitized.Host), sanitized)
}
