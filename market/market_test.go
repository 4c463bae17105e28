// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/settlement/mocks"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	quota    = 1000
	ownerCut = 1000

	startAt = uint64(5000)
	endAt   = uint64(9000)
)

func TestMain(m *testing.M) {
	fixtures.Main(m)
}

func newTestMarket(t *testing.T) (*market.Marketplace, *storage.Store) {
	s := fixtures.OpenTestStore(t)
	m, err := market.New(s, market.Configuration{
		Owner:             fixtures.Owner,
		OwnerCut:          ownerCut,
		StoragePerListing: amount.FromUint64(quota),
		RequestTimeout:    time.Second,
	}, func() uint64 { return 1 })
	if nil != err {
		t.Fatalf("market new error: %s", err)
	}
	return m, s
}

// a call signed by the caller itself
func direct(caller account.Name, deposit uint64, now uint64) market.Call {
	return market.Call{
		Predecessor: caller,
		Signer:      caller,
		Deposit:     amount.FromUint64(deposit),
		Timestamp:   now,
	}
}

// a call from a registry on behalf of a signer
func viaRegistry(registry account.Name, signer account.Name) market.Call {
	return market.Call{
		Predecessor: registry,
		Signer:      signer,
	}
}

func deposit(t *testing.T, m *market.Marketplace, owner account.Name, value uint64) {
	_, err := m.StorageDeposit(direct(owner, value, 0), nil)
	if nil != err {
		t.Fatalf("deposit: %s", err)
	}
}

// deposit one quota and approve one asset for sale
func approve(t *testing.T, m *market.Marketplace, owner account.Name, asset string) {
	deposit(t, m, owner, quota)
	err := m.ApproveListing(viaRegistry(fixtures.Registry, owner), owner, asset, 1)
	if nil != err {
		t.Fatalf("approve: %s", err)
	}
}

func auctionTerms(asset string) market.CreateArguments {
	return market.CreateArguments{
		Registry:      fixtures.Registry,
		AssetId:       asset,
		StartingPrice: amount.FromUint64(10),
		StartedAt:     startAt,
		EndAt:         endAt,
		IsAuction:     true,
	}
}

// no index entry may remain for either account
func assertIndexesClean(t *testing.T, s *storage.Store, seller account.Name, registry account.Name) {
	assert.False(t, s.Pool.OwnerIndex.Has(seller.Bytes()), "owner index entry left for: %s", seller)
	assert.False(t, s.Pool.RegistryIndex.Has(registry.Bytes()), "registry index entry left for: %s", registry)
}

func TestStorageDeposit(t *testing.T) {
	m, _ := newTestMarket(t)

	_, err := m.StorageDeposit(direct(fixtures.Alice, quota-1, 0), nil)
	assert.Equal(t, fault.InsufficientDeposit, err)
	assert.True(t, fault.IsErrResource(err))

	total, err := m.StorageDeposit(direct(fixtures.Alice, quota, 0), nil)
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(quota), total)

	target := fixtures.Bob
	_, err = m.StorageDeposit(direct(fixtures.Alice, 2500, 0), &target)
	assert.Nil(t, err)

	b, err := m.StorageBalanceOf(fixtures.Bob)
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(2500), b)

	b, err = m.StorageBalanceOf(fixtures.Alice)
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(quota), b, "deposit for other account credited caller")

	bad := account.Name("Not Valid")
	_, err = m.StorageDeposit(direct(fixtures.Alice, quota, 0), &bad)
	assert.Equal(t, fault.InvalidAccount, err)

	assert.Equal(t, amount.FromUint64(quota), m.StorageMinimumBalance())
}

func TestDefaultStoragePerListing(t *testing.T) {
	expected, err := amount.FromString("10000000000000000000000")
	assert.Nil(t, err)
	assert.Equal(t, expected, market.DefaultStoragePerListing)
}

func TestStorageWithdraw(t *testing.T) {
	m, _ := newTestMarket(t)

	deposit(t, m, fixtures.Alice, 5*quota)
	for _, asset := range []string{"a", "b", "c"} {
		err := m.ApproveListing(viaRegistry(fixtures.Registry, fixtures.Alice), fixtures.Alice, asset, 1)
		assert.Nil(t, err, "approve: %s", asset)
	}

	_, err := m.StorageWithdraw(direct(fixtures.Alice, 0, 0))
	assert.Equal(t, fault.RequiresOneMinorUnit, err)
	_, err = m.StorageWithdraw(direct(fixtures.Alice, 2, 0))
	assert.Equal(t, fault.RequiresOneMinorUnit, err)

	released, err := m.StorageWithdraw(direct(fixtures.Alice, 1, 77))
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(2*quota), released)

	b, err := m.StorageBalanceOf(fixtures.Alice)
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(3*quota), b, "reserved balance")

	records, err := m.Payouts(0, 10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, payout.Withdrawal, records[0].Kind)
	assert.Equal(t, fixtures.Alice, records[0].Recipient)
	assert.Equal(t, amount.FromUint64(2*quota), records[0].Amount)
	assert.Equal(t, uint64(77), records[0].Timestamp)

	// nothing more to release
	released, err = m.StorageWithdraw(direct(fixtures.Alice, 1, 0))
	assert.Nil(t, err)
	assert.True(t, released.IsZero())
}

func TestApproveListing(t *testing.T) {
	m, s := newTestMarket(t)

	err := m.ApproveListing(viaRegistry(fixtures.Registry, fixtures.Bob), fixtures.Alice, "t1", 1)
	assert.Equal(t, fault.OwnerMustBeSigner, err)

	err = m.ApproveListing(viaRegistry(fixtures.Registry, fixtures.Alice), fixtures.Alice, "t1", 1)
	assert.Equal(t, fault.InsufficientStorageBalance, err)
	assert.True(t, fault.IsErrResource(err))

	deposit(t, m, fixtures.Alice, quota)
	err = m.ApproveListing(viaRegistry(fixtures.Registry, fixtures.Alice), fixtures.Alice, "t1", 1)
	assert.Nil(t, err)

	l, err := m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err)
	assert.Equal(t, fixtures.Alice, l.Seller)
	assert.Equal(t, uint64(1), l.ApprovalId)
	assert.False(t, l.IsAuction)
	assert.True(t, l.StartingPrice.IsZero())

	// second asset needs a second quota
	err = m.ApproveListing(viaRegistry(fixtures.Registry, fixtures.Alice), fixtures.Alice, "t2", 1)
	assert.Equal(t, fault.InsufficientStorageBalance, err)

	// re-approval refreshes the approval id without a new quota
	err = m.ApproveListing(viaRegistry(fixtures.Registry, fixtures.Alice), fixtures.Alice, "t1", 5)
	assert.Nil(t, err)
	l, err = m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err)
	assert.Equal(t, uint64(5), l.ApprovalId)

	n, err := m.SupplyByOwner(fixtures.Alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
	assert.True(t, s.Pool.RegistryIndex.Has(fixtures.Registry.Bytes()))
}

func TestCreateListing(t *testing.T) {
	m, _ := newTestMarket(t)

	err := m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t1"))
	assert.Equal(t, fault.ListingNotApproved, err)
	assert.True(t, fault.IsValidation(err))

	approve(t, m, fixtures.Alice, "t1")

	bad := auctionTerms("t1")
	bad.EndAt = bad.StartedAt
	err = m.CreateListing(direct(fixtures.Alice, 0, 0), bad)
	assert.Equal(t, fault.InvalidAuctionPeriod, err)

	err = m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t1"))
	assert.Nil(t, err)

	l, err := m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err)
	assert.True(t, l.IsAuction)
	assert.Equal(t, startAt, l.StartedAt)
	assert.Equal(t, endAt, l.EndAt)
	assert.Equal(t, amount.FromUint64(10), l.StartingPrice)
	assert.Equal(t, uint64(1), l.ApprovalId, "approval id changed")
}

func TestCreateListingNewSeller(t *testing.T) {
	m, s := newTestMarket(t)
	approve(t, m, fixtures.Alice, "t1")

	// new seller without storage
	err := m.CreateListing(direct(fixtures.Bob, 0, 0), auctionTerms("t1"))
	assert.Equal(t, fault.InsufficientStorageBalance, err)

	deposit(t, m, fixtures.Bob, quota)
	err = m.CreateListing(direct(fixtures.Bob, 0, 0), auctionTerms("t1"))
	assert.Nil(t, err)

	assert.False(t, s.Pool.OwnerIndex.Has(fixtures.Alice.Bytes()))
	n, err := m.SupplyByOwner(fixtures.Bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestSetPrice(t *testing.T) {
	m, _ := newTestMarket(t)

	err := m.SetPrice(direct(fixtures.Alice, 0, 0), fixtures.Registry, "t1", amount.FromUint64(5))
	assert.Equal(t, fault.ListingNotFound, err)

	approve(t, m, fixtures.Alice, "t1")
	approve(t, m, fixtures.Alice, "t2")
	assert.Nil(t, m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t2")))

	err = m.SetPrice(direct(fixtures.Bob, 0, 0), fixtures.Registry, "t1", amount.FromUint64(5))
	assert.Equal(t, fault.NotAuthorised, err)

	err = m.SetPrice(direct(fixtures.Alice, 0, 0), fixtures.Registry, "t2", amount.FromUint64(5))
	assert.Equal(t, fault.IsAuction, err)

	err = m.SetPrice(direct(fixtures.Alice, 0, 0), fixtures.Registry, "t1", amount.FromUint64(150))
	assert.Nil(t, err)
	l, err := m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(150), l.StartingPrice)
}

func TestBid(t *testing.T) {
	m, _ := newTestMarket(t)
	approve(t, m, fixtures.Alice, "fixed")
	approve(t, m, fixtures.Alice, "t1")
	assert.Nil(t, m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t1")))

	items := []struct {
		bidder  account.Name
		deposit uint64
		asset   string
		price   uint64
		now     uint64
		err     error
	}{
		{fixtures.Bob, 0, "t1", 20, startAt, fault.RequiresOneMinorUnit},
		{fixtures.Bob, 1, "none", 20, startAt, fault.ListingNotFound},
		{fixtures.Bob, 1, "fixed", 20, startAt, fault.NotAnAuction},
		{fixtures.Bob, 1, "t1", 20, startAt - 1, fault.AuctionNotOpen},
		{fixtures.Bob, 1, "t1", 20, endAt, fault.AuctionNotOpen},
		{fixtures.Alice, 1, "t1", 20, startAt, fault.SellerCannotBid},
		{fixtures.Bob, 1, "t1", 20, startAt, nil},
		{fixtures.Carol, 1, "t1", 20, startAt + 1, fault.BidTooLow},
		{fixtures.Carol, 1, "t1", 21, endAt - 1, nil},
	}
	for i, item := range items {
		err := m.Bid(direct(item.bidder, item.deposit, item.now), fixtures.Registry, item.asset, amount.FromUint64(item.price))
		assert.Equal(t, item.err, err, "%d: error", i)
	}

	l, err := m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(21), l.HighestPrice)
	assert.Equal(t, fixtures.Carol, l.HighestBidder)
}

func TestCancelListing(t *testing.T) {
	m, s := newTestMarket(t)
	approve(t, m, fixtures.Alice, "t1")
	assert.Nil(t, m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t1")))
	assert.Nil(t, m.Bid(direct(fixtures.Bob, 1, startAt), fixtures.Registry, "t1", amount.FromUint64(50)))

	err := m.CancelListing(direct(fixtures.Bob, 0, startAt), fixtures.Registry, "t1")
	assert.Equal(t, fault.NotAuthorised, err)

	// open auction with a bid can still be cancelled
	err = m.CancelListing(direct(fixtures.Alice, 0, startAt), fixtures.Registry, "t1")
	assert.Nil(t, err)

	_, err = m.GetListing(fixtures.Registry, "t1")
	assert.Equal(t, fault.ListingNotFound, err)
	assertIndexesClean(t, s, fixtures.Alice, fixtures.Registry)

	err = m.CancelListing(direct(fixtures.Alice, 0, startAt), fixtures.Registry, "t1")
	assert.Equal(t, fault.ListingNotFound, err)

	// storage is released
	released, err := m.StorageWithdraw(direct(fixtures.Alice, 1, 0))
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(quota), released)
}

func TestPurchaseFixedPrice(t *testing.T) {
	m, s := newTestMarket(t)
	approve(t, m, fixtures.Alice, "t1")
	assert.Nil(t, m.SetPrice(direct(fixtures.Alice, 0, 0), fixtures.Registry, "t1", amount.FromUint64(150)))

	_, err := m.PurchaseNFT(direct(fixtures.Bob, 149, 0), fixtures.Registry, "t1")
	assert.Equal(t, fault.InsufficientFunds, err)

	_, err = m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err, "failed purchase removed listing")

	// excess goes into the settlement price
	id, err := m.PurchaseNFT(direct(fixtures.Bob, 200, 123), fixtures.Registry, "t1")
	assert.Nil(t, err)
	assertIndexesClean(t, s, fixtures.Alice, fixtures.Registry)

	status, err := m.SettlementStatus(id)
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(200), status.Price)
	assert.Equal(t, fixtures.Bob, status.Buyer)
	assert.Equal(t, fixtures.Alice, status.Seller)
	assert.Equal(t, uint64(123), status.CreatedAt)

	// cannot be bought twice
	_, err = m.PurchaseNFT(direct(fixtures.Carol, 200, 0), fixtures.Registry, "t1")
	assert.Equal(t, fault.ListingNotFound, err)

	requests, _ := m.Coordinator().Pending()
	assert.Equal(t, 1, requests)
}

func TestPurchaseAuction(t *testing.T) {
	m, _ := newTestMarket(t)
	approve(t, m, fixtures.Alice, "t1")
	approve(t, m, fixtures.Alice, "t2")
	assert.Nil(t, m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t1")))
	assert.Nil(t, m.CreateListing(direct(fixtures.Alice, 0, 0), auctionTerms("t2")))

	assert.Nil(t, m.Bid(direct(fixtures.Bob, 1, startAt), fixtures.Registry, "t1", amount.FromUint64(50)))

	items := []struct {
		buyer   account.Name
		deposit uint64
		asset   string
		now     uint64
		err     error
	}{
		{fixtures.Bob, 50, "t1", endAt - 1, fault.AuctionNotClosed},
		{fixtures.Carol, 50, "t1", endAt, fault.NotHighestBidder},
		{fixtures.Bob, 49, "t1", endAt, fault.InsufficientFunds},
		{fixtures.Bob, 50, "t2", endAt, fault.NoWinningBid},
	}
	for i, item := range items {
		_, err := m.PurchaseNFT(direct(item.buyer, item.deposit, item.now), fixtures.Registry, item.asset)
		assert.Equal(t, item.err, err, "%d: error", i)
	}

	id, err := m.PurchaseNFT(direct(fixtures.Bob, 50, endAt), fixtures.Registry, "t1")
	assert.Nil(t, err)
	status, err := m.SettlementStatus(id)
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(50), status.Price)

	n, err := m.TotalListings()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestViews(t *testing.T) {
	m, _ := newTestMarket(t)
	approve(t, m, fixtures.Alice, "t1")
	approve(t, m, fixtures.Alice, "t2")
	approve(t, m, fixtures.Bob, "t3")

	all, err := m.Listings(0, 0)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(all))

	owned, err := m.ListingsByOwner(fixtures.Alice, 1, 10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(owned))
	assert.Equal(t, "t2", owned[0].Key.Asset)

	n, err := m.SupplyByRegistry(fixtures.Registry)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), n)

	byRegistry, err := m.ListingsByRegistry(fixtures.Other, 0, 10)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(byRegistry))

	_, err = m.GetListing(fixtures.Registry, "bad.id")
	assert.Equal(t, fault.InvalidAssetId, err)
}

func TestEndToEnd(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	m, s := newTestMarket(t)
	registry := mocks.NewMockRegistry(ctl)

	p := background.Start(m.Processes(registry), nil)
	defer p.Stop()

	approve(t, m, fixtures.Alice, "t1")
	assert.Nil(t, m.CreateListing(direct(fixtures.Alice, 0, 0), market.CreateArguments{
		Registry:      fixtures.Registry,
		AssetId:       "t1",
		StartingPrice: amount.Zero,
	}))

	assert.Nil(t, m.SetPrice(direct(fixtures.Alice, 0, 0), fixtures.Registry, "t1", amount.FromUint64(150)))
	l, err := m.GetListing(fixtures.Registry, "t1")
	assert.Nil(t, err)
	assert.Equal(t, amount.FromUint64(150), l.StartingPrice)

	registry.EXPECT().
		TransferPayout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, request settlement.Request) (settlement.Payout, error) {
			assert.Equal(t, fixtures.Registry, request.Registry)
			assert.Equal(t, "t1", request.AssetId)
			assert.Equal(t, fixtures.Bob, request.Receiver)
			assert.Equal(t, uint32(settlement.DefaultMaximumPayees), request.MaxPayees)
			return settlement.Payout{fixtures.Alice: request.Price}, nil
		}).
		Times(1)

	id, err := m.PurchaseNFT(direct(fixtures.Bob, 150, 0), fixtures.Registry, "t1")
	assert.Nil(t, err)

	_, err = m.GetListing(fixtures.Registry, "t1")
	assert.Equal(t, fault.ListingNotFound, err)
	assertIndexesClean(t, s, fixtures.Alice, fixtures.Registry)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := m.SettlementStatus(id); fault.SettlementNotFound == err {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("settlement: %d not resolved", id)
		}
		time.Sleep(5 * time.Millisecond)
	}

	records, err := m.Payouts(0, 10)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(records))
	assert.Equal(t, fixtures.Alice, records[0].Recipient)
	assert.Equal(t, amount.FromUint64(135), records[0].Amount)
	assert.Equal(t, fixtures.Owner, records[1].Recipient)
	assert.Equal(t, amount.FromUint64(15), records[1].Amount)
}

func TestListingKeysStayConsistent(t *testing.T) {
	m, s := newTestMarket(t)
	approve(t, m, fixtures.Alice, "t1")
	approve(t, m, fixtures.Bob, "t2")
	assert.Nil(t, m.SetPrice(direct(fixtures.Alice, 0, 0), fixtures.Registry, "t1", amount.FromUint64(1)))

	_, err := m.PurchaseNFT(direct(fixtures.Carol, 1, 0), fixtures.Registry, "t1")
	assert.Nil(t, err)

	keys, err := listing.UnpackKeySet(s.Pool.RegistryIndex.Get(fixtures.Registry.Bytes()))
	assert.Nil(t, err)
	assert.Equal(t, listing.KeySet{"nft.near.t2"}, keys)
	assert.False(t, s.Pool.OwnerIndex.Has(fixtures.Alice.Bytes()))
	assert.True(t, s.Pool.OwnerIndex.Has(fixtures.Bob.Bytes()))
}
