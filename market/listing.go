// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/auction"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/storage"
)

// CreateArguments - terms of a listing
type CreateArguments struct {
	Registry      account.Name  `json:"nft_address"`
	AssetId       string        `json:"token_id"`
	StartingPrice amount.Amount `json:"starting_price"`
	StartedAt     uint64        `json:"started_at"`
	EndAt         uint64        `json:"end_at"`
	IsAuction     bool          `json:"is_auction"`
}

// ApproveListing - called by a registry when owner approves the
// market for an asset, writes the placeholder that CreateListing
// fills in
//
// the registry is the predecessor and the owner must have signed;
// re-approval by the same owner only refreshes the approval id
func (m *Marketplace) ApproveListing(call Call, owner account.Name, assetId string, approvalId uint64) error {
	if owner != call.Signer {
		return fault.OwnerMustBeSigner
	}
	key, err := listing.MakeKey(call.Predecessor, assetId)
	if nil != err {
		return err
	}

	return m.transact("approve_listing", func(trx storage.Transaction) error {
		l, err := m.book.Get(trx, key)
		if nil == err && l.Seller == owner {
			l.ApprovalId = approvalId
			return m.book.Upsert(trx, l)
		}
		if nil != err && fault.ListingNotFound != err {
			return err
		}

		owned, err := m.book.OwnedCount(trx, owner)
		if nil != err {
			return err
		}
		err = m.accounts.EnsureSolvent(trx, owner, owned+1)
		if nil != err {
			return err
		}
		m.log.Infof("approve_listing: %s  owner: %s  approval: %d", key, owner, approvalId)
		return m.book.Upsert(trx, listing.Placeholder(key, owner, approvalId))
	})
}

// CreateListing - set the terms of an approved listing
//
// the signer becomes the seller, recorded bids are kept
func (m *Marketplace) CreateListing(call Call, arguments CreateArguments) error {
	key, err := listing.MakeKey(arguments.Registry, arguments.AssetId)
	if nil != err {
		return err
	}
	if arguments.IsAuction {
		err = auction.ValidatePeriod(arguments.StartedAt, arguments.EndAt)
		if nil != err {
			return err
		}
	}

	seller := call.Signer
	return m.transact("create_listing", func(trx storage.Transaction) error {
		l, err := m.book.Get(trx, key)
		if fault.ListingNotFound == err {
			return fault.ListingNotApproved
		}
		if nil != err {
			return err
		}

		if l.Seller != seller {
			owned, err := m.book.OwnedCount(trx, seller)
			if nil != err {
				return err
			}
			err = m.accounts.EnsureSolvent(trx, seller, owned+1)
			if nil != err {
				return err
			}
		}

		l.Seller = seller
		l.StartingPrice = arguments.StartingPrice
		l.StartedAt = arguments.StartedAt
		l.EndAt = arguments.EndAt
		l.IsAuction = arguments.IsAuction

		m.log.Infof("create_listing: %s  seller: %s  auction: %t  price: %s", key, seller, l.IsAuction, l.StartingPrice)
		return m.book.Upsert(trx, l)
	})
}

// SetPrice - change the price of a fixed price listing, seller only
func (m *Marketplace) SetPrice(call Call, registry account.Name, assetId string, price amount.Amount) error {
	key, err := listing.MakeKey(registry, assetId)
	if nil != err {
		return err
	}

	return m.transact("set_price", func(trx storage.Transaction) error {
		l, err := m.book.Get(trx, key)
		if nil != err {
			return err
		}
		if l.IsAuction {
			return fault.IsAuction
		}
		if call.Signer != l.Seller {
			return fault.NotAuthorised
		}
		l.StartingPrice = price
		return m.book.Upsert(trx, l)
	})
}

// Bid - offer price on an open auction
//
// no funds are held, the deposit must be exactly one minor unit
func (m *Marketplace) Bid(call Call, registry account.Name, assetId string, price amount.Amount) error {
	if 0 != call.Deposit.Cmp(OneMinorUnit) {
		return fault.RequiresOneMinorUnit
	}
	key, err := listing.MakeKey(registry, assetId)
	if nil != err {
		return err
	}

	return m.transact("bid", func(trx storage.Transaction) error {
		l, err := m.book.Get(trx, key)
		if nil != err {
			return err
		}
		err = auction.Bid(l, call.Signer, price, call.Timestamp)
		if nil != err {
			return err
		}
		m.log.Infof("bid: %s  bidder: %s  price: %s", key, call.Signer, price)
		return m.book.Upsert(trx, l)
	})
}

// CancelListing - remove a listing in any state, seller only
func (m *Marketplace) CancelListing(call Call, registry account.Name, assetId string) error {
	key, err := listing.MakeKey(registry, assetId)
	if nil != err {
		return err
	}

	return m.transact("cancel_listing", func(trx storage.Transaction) error {
		l, err := m.book.Get(trx, key)
		if nil != err {
			return err
		}
		if call.Signer != l.Seller {
			return fault.NotAuthorised
		}
		_, err = m.book.Remove(trx, key)
		if nil == err {
			m.log.Infof("cancel_listing: %s  seller: %s", key, l.Seller)
		}
		return err
	})
}
