// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package auction - time window and bidding rules of auction listings
//
// the state is derived from the clock each time it is needed:
//
//   Pending: now < started_at
//   Open:    started_at <= now < end_at
//   Closed:  end_at <= now
//
// bids only record the highest offer, no funds are held until purchase
package auction

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/listing"
)

// State - position of the clock relative to the auction window
type State int

// auction states
const (
	Pending State = iota
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateAt - state of an auction listing at time now
func StateAt(l *listing.Listing, now uint64) State {
	switch {
	case now < l.StartedAt:
		return Pending
	case now < l.EndAt:
		return Open
	default:
		return Closed
	}
}

// ValidatePeriod - an auction window must not be empty
func ValidatePeriod(startedAt uint64, endAt uint64) error {
	if endAt <= startedAt {
		return fault.InvalidAuctionPeriod
	}
	return nil
}

// Bid - record a new highest bid
//
// the listing is only changed if the bid is accepted
func Bid(l *listing.Listing, bidder account.Name, price amount.Amount, now uint64) error {
	if !l.IsAuction {
		return fault.NotAnAuction
	}
	if Open != StateAt(l, now) {
		return fault.AuctionNotOpen
	}
	if bidder == l.Seller {
		return fault.SellerCannotBid
	}
	if !l.HighestPrice.Less(price) {
		return fault.BidTooLow
	}

	l.HighestPrice = price
	l.HighestBidder = bidder
	return nil
}

// Winner - check buyer may settle a closed auction and return the
// price to be met
func Winner(l *listing.Listing, buyer account.Name, now uint64) (amount.Amount, error) {
	if !l.IsAuction {
		return amount.Zero, fault.NotAnAuction
	}
	if Closed != StateAt(l, now) {
		return amount.Zero, fault.AuctionNotClosed
	}
	if l.HighestPrice.IsZero() || !l.HasBid() {
		return amount.Zero, fault.NoWinningBid
	}
	if buyer != l.HighestBidder {
		return amount.Zero, fault.NotHighestBidder
	}
	return l.HighestPrice, nil
}
