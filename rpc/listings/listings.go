// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listings - RPC service for listing operations and views
package listings

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/settlement"
)

const (
	rateLimitListings = 200
	rateBurstListings = 100
)

// Listings - type for the RPC
type Listings struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Market  *market.Marketplace
}

// New - create the RPC service
func New(log *logger.L, m *market.Marketplace) *Listings {
	return &Listings{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitListings, rateBurstListings),
		Market:  m,
	}
}

// OkReply - result of an operation without data
type OkReply struct {
	Ok bool `json:"ok"`
}

// ---

// ApproveArguments - arguments for approve
type ApproveArguments struct {
	Call       market.Call  `json:"call"`
	Owner      account.Name `json:"owner_id"`
	AssetId    string       `json:"token_id"`
	ApprovalId uint64       `json:"approval_id"`
}

// Approve - a registry approving the market for an asset
func (l *Listings) Approve(arguments *ApproveArguments, reply *OkReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Listings.Approve: %+v", arguments)

	err := l.Market.ApproveListing(arguments.Call, arguments.Owner, arguments.AssetId, arguments.ApprovalId)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// ---

// CreateArguments - arguments for create
type CreateArguments struct {
	Call market.Call `json:"call"`
	market.CreateArguments
}

// Create - set the terms of an approved listing
func (l *Listings) Create(arguments *CreateArguments, reply *OkReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Listings.Create: %+v", arguments)

	err := l.Market.CreateListing(arguments.Call, arguments.CreateArguments)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// ---

// PriceArguments - arguments for set price and bid
type PriceArguments struct {
	Call     market.Call   `json:"call"`
	Registry account.Name  `json:"nft_address"`
	AssetId  string        `json:"token_id"`
	Price    amount.Amount `json:"price"`
}

// SetPrice - change the price of a fixed price listing
func (l *Listings) SetPrice(arguments *PriceArguments, reply *OkReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Listings.SetPrice: %+v", arguments)

	err := l.Market.SetPrice(arguments.Call, arguments.Registry, arguments.AssetId, arguments.Price)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// Bid - bid on an open auction
func (l *Listings) Bid(arguments *PriceArguments, reply *OkReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Listings.Bid: %+v", arguments)

	err := l.Market.Bid(arguments.Call, arguments.Registry, arguments.AssetId, arguments.Price)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// ---

// KeyArguments - arguments naming a single listing
type KeyArguments struct {
	Call     market.Call  `json:"call"`
	Registry account.Name `json:"nft_address"`
	AssetId  string       `json:"token_id"`
}

// Cancel - remove a listing
func (l *Listings) Cancel(arguments *KeyArguments, reply *OkReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Listings.Cancel: %+v", arguments)

	err := l.Market.CancelListing(arguments.Call, arguments.Registry, arguments.AssetId)
	if nil != err {
		return err
	}
	reply.Ok = true
	return nil
}

// PurchaseReply - the settlement started by a purchase
type PurchaseReply struct {
	Settlement settlement.Id `json:"settlement,string"`
}

// Purchase - buy a listing with the attached deposit
func (l *Listings) Purchase(arguments *KeyArguments, reply *PurchaseReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	l.Log.Infof("Listings.Purchase: %+v", arguments)

	id, err := l.Market.PurchaseNFT(arguments.Call, arguments.Registry, arguments.AssetId)
	if nil != err {
		return err
	}
	reply.Settlement = id
	return nil
}

// ---

// GetArguments - arguments for get
type GetArguments struct {
	Registry account.Name `json:"nft_address"`
	AssetId  string       `json:"token_id"`
}

// GetReply - a single listing
type GetReply struct {
	Listing *listing.Listing `json:"listing"`
}

// Get - a single listing
func (l *Listings) Get(arguments *GetArguments, reply *GetReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}

	result, err := l.Market.GetListing(arguments.Registry, arguments.AssetId)
	if nil != err {
		return err
	}
	reply.Listing = result
	return nil
}

// ListArguments - arguments for a page of listings
//
// Account selects the seller for ListByOwner and the registry for
// ListByRegistry, List ignores it
type ListArguments struct {
	Account account.Name `json:"account_id"`
	Start   uint64       `json:"start,string"`
	Count   int          `json:"count"`
}

// ListReply - a page of listings
type ListReply struct {
	Listings []*listing.Listing `json:"listings"`
	Next     uint64             `json:"next,string"`
}

type pager func(from uint64, limit uint64) ([]*listing.Listing, error)

func (l *Listings) page(arguments *ListArguments, reply *ListReply, f pager) error {
	if err := ratelimit.LimitN(l.Limiter, arguments.Count, market.MaximumPageSize); nil != err {
		return err
	}

	result, err := f(arguments.Start, uint64(arguments.Count))
	if nil != err {
		return err
	}
	reply.Listings = result
	reply.Next = arguments.Start + uint64(len(result))
	return nil
}

// List - a page of all listings
func (l *Listings) List(arguments *ListArguments, reply *ListReply) error {
	return l.page(arguments, reply, l.Market.Listings)
}

// ListByOwner - a page of the listings of one seller
func (l *Listings) ListByOwner(arguments *ListArguments, reply *ListReply) error {
	return l.page(arguments, reply, func(from uint64, limit uint64) ([]*listing.Listing, error) {
		return l.Market.ListingsByOwner(arguments.Account, from, limit)
	})
}

// ListByRegistry - a page of the listings of one registry
func (l *Listings) ListByRegistry(arguments *ListArguments, reply *ListReply) error {
	return l.page(arguments, reply, func(from uint64, limit uint64) ([]*listing.Listing, error) {
		return l.Market.ListingsByRegistry(arguments.Account, from, limit)
	})
}

// ---

// SupplyArguments - arguments for the supply counts
type SupplyArguments struct {
	Account account.Name `json:"account_id"`
}

// SupplyReply - number of listings
type SupplyReply struct {
	Count uint64 `json:"count,string"`
}

// SupplyByOwner - number of listings of a seller
func (l *Listings) SupplyByOwner(arguments *SupplyArguments, reply *SupplyReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	n, err := l.Market.SupplyByOwner(arguments.Account)
	reply.Count = n
	return err
}

// SupplyByRegistry - number of listings of a registry
func (l *Listings) SupplyByRegistry(arguments *SupplyArguments, reply *SupplyReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	n, err := l.Market.SupplyByRegistry(arguments.Account)
	reply.Count = n
	return err
}

// Total - number of all listings
func (l *Listings) Total(_ *SupplyArguments, reply *SupplyReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	n, err := l.Market.TotalListings()
	reply.Count = n
	return err
}
