// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listing - the listing table and its owner and registry indexes
package listing

import (
	"encoding/json"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
)

// Listing - an offer to sell one asset
//
// HighestPrice and HighestBidder only have meaning when IsAuction
type Listing struct {
	Key           Key           `json:"-"`
	Seller        account.Name  `json:"owner_id"`
	ApprovalId    uint64        `json:"approval_id"`
	IsAuction     bool          `json:"is_auction"`
	StartingPrice amount.Amount `json:"starting_price"`
	StartedAt     uint64        `json:"started_at"`
	EndAt         uint64        `json:"end_at"`
	HighestPrice  amount.Amount `json:"highest_price"`
	HighestBidder account.Name  `json:"highest_bidder,omitempty"`
}

// Placeholder - the listing written when a registry approves the
// marketplace for an asset, terms are filled in later
func Placeholder(key Key, owner account.Name, approvalId uint64) *Listing {
	return &Listing{
		Key:           key,
		Seller:        owner,
		ApprovalId:    approvalId,
		StartingPrice: amount.Zero,
		HighestPrice:  amount.Zero,
	}
}

// HasBid - true once an auction has accepted a bid
func (l *Listing) HasBid() bool {
	return !l.HighestBidder.IsZero()
}

type listingJSON struct {
	Registry account.Name `json:"nft_address"`
	AssetId  string       `json:"token_id"`
	plain
}

type plain Listing

// MarshalJSON - include the parts of the composite key
func (l Listing) MarshalJSON() ([]byte, error) {
	return json.Marshal(listingJSON{
		Registry: l.Key.Registry,
		AssetId:  l.Key.Asset,
		plain:    plain(l),
	})
}

// UnmarshalJSON - restore the key from its parts
func (l *Listing) UnmarshalJSON(s []byte) error {
	var j listingJSON
	err := json.Unmarshal(s, &j)
	if nil != err {
		return err
	}
	*l = Listing(j.plain)
	l.Key = Key{
		Registry: j.Registry,
		Asset:    j.AssetId,
	}
	return nil
}
