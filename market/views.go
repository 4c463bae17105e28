// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/settlement"
)

// MaximumPageSize - largest page returned by a listing view
const MaximumPageSize = 100

func clampLimit(limit uint64) uint64 {
	if 0 == limit || limit > MaximumPageSize {
		return MaximumPageSize
	}
	return limit
}

// GetListing - a single committed listing
func (m *Marketplace) GetListing(registry account.Name, assetId string) (*listing.Listing, error) {
	key, err := listing.MakeKey(registry, assetId)
	if nil != err {
		return nil, err
	}
	return m.book.Lookup(key)
}

// Listings - a page of all listings
func (m *Marketplace) Listings(from uint64, limit uint64) ([]*listing.Listing, error) {
	return m.book.Page(from, clampLimit(limit))
}

// ListingsByOwner - a page of the listings of one seller
func (m *Marketplace) ListingsByOwner(owner account.Name, from uint64, limit uint64) ([]*listing.Listing, error) {
	return m.book.ByOwner(owner, from, clampLimit(limit))
}

// ListingsByRegistry - a page of the listings of one registry
func (m *Marketplace) ListingsByRegistry(registry account.Name, from uint64, limit uint64) ([]*listing.Listing, error) {
	return m.book.ByRegistry(registry, from, clampLimit(limit))
}

// SupplyByOwner - number of listings of one seller
func (m *Marketplace) SupplyByOwner(owner account.Name) (uint64, error) {
	return m.book.SupplyByOwner(owner)
}

// SupplyByRegistry - number of listings of one registry
func (m *Marketplace) SupplyByRegistry(registry account.Name) (uint64, error) {
	return m.book.SupplyByRegistry(registry)
}

// TotalListings - number of listings
func (m *Marketplace) TotalListings() (uint64, error) {
	return m.book.Total()
}

// SettlementStatus - a settlement still awaiting its payout
func (m *Marketplace) SettlementStatus(id settlement.Id) (*settlement.Settlement, error) {
	return m.coordinator.Status(id)
}

// Payouts - journal records from id onwards
func (m *Marketplace) Payouts(from uint64, count int) ([]payout.Record, error) {
	if count <= 0 || count > MaximumPageSize {
		count = MaximumPageSize
	}
	return m.journal.List(from, count)
}
