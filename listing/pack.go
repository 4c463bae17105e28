// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// record tags
const (
	listingTag = 1
	keySetTag  = 2
)

// Pack - encode a listing, the key is not included
//
// tag ++ seller ++ approval ++ auction ++ starting price ++ started ++
// end ++ highest price ++ highest bidder
func (l *Listing) Pack() []byte {
	return util.NewPacker(listingTag).
		String(l.Seller.String()).
		Uint64(l.ApprovalId).
		Bool(l.IsAuction).
		Fixed(l.StartingPrice.Bytes()).
		Uint64(l.StartedAt).
		Uint64(l.EndAt).
		Fixed(l.HighestPrice.Bytes()).
		String(l.HighestBidder.String()).
		Packed()
}

// Unpack - decode a listing stored under key
func Unpack(key Key, buffer []byte) (*Listing, error) {
	u := util.NewUnpacker(buffer, listingTag, fault.NotListingPack)

	l := &Listing{
		Key: key,
	}

	seller := u.String(account.MaximumLength)
	l.ApprovalId = u.Uint64()
	l.IsAuction = u.Bool()
	startingPrice := u.Fixed(amount.Size)
	l.StartedAt = u.Uint64()
	l.EndAt = u.Uint64()
	highestPrice := u.Fixed(amount.Size)
	bidder := u.String(account.MaximumLength)

	err := u.Done()
	if nil != err {
		return nil, err
	}

	l.Seller, err = account.New(seller)
	if nil != err {
		return nil, fault.NotListingPack
	}
	if "" != bidder {
		l.HighestBidder, err = account.New(bidder)
		if nil != err {
			return nil, fault.NotListingPack
		}
	}
	l.StartingPrice, err = amount.FromBytes(startingPrice)
	if nil != err {
		return nil, fault.NotListingPack
	}
	l.HighestPrice, err = amount.FromBytes(highestPrice)
	if nil != err {
		return nil, fault.NotListingPack
	}
	return l, nil
}
