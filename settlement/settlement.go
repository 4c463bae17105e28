// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/storage"
	"github.com/bitmark-inc/marketd/util"
)

//go:generate mockgen -source=settlement.go -destination=mocks/settlement.go -package=mocks

// Memo - sent with every transfer request
const Memo = "payout from market"

// DefaultMaximumPayees - payout fan-out limit
const DefaultMaximumPayees = 10

// Id - identifies one settlement
type Id uint64

// String - decimal form
func (id Id) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Settlement - the pending marker of a purchase awaiting its payout
type Settlement struct {
	Id         Id            `json:"id"`
	Key        listing.Key   `json:"-"`
	Seller     account.Name  `json:"seller"`
	Buyer      account.Name  `json:"buyer"`
	ApprovalId uint64        `json:"approval_id"`
	Price      amount.Amount `json:"price"`
	CreatedAt  uint64        `json:"created_at"`
}

// MarshalJSON - include the composite listing key
func (s Settlement) MarshalJSON() ([]byte, error) {
	type plain Settlement
	return json.Marshal(struct {
		plain
		Listing string `json:"listing"`
	}{
		plain:   plain(s),
		Listing: s.Key.String(),
	})
}

// Request - asset transfer with payout sent to a registry
type Request struct {
	Settlement Id            `json:"settlement"`
	Registry   account.Name  `json:"registry"`
	ApprovalId uint64        `json:"approval_id"`
	Receiver   account.Name  `json:"receiver_id"`
	AssetId    string        `json:"token_id"`
	Memo       string        `json:"memo"`
	Price      amount.Amount `json:"balance"`
	MaxPayees  uint32        `json:"max_len_payout"`
}

// Payout - the registry's breakdown of the price by recipient
type Payout map[account.Name]amount.Amount

// Outcome - result of a transfer request
type Outcome struct {
	Settlement Id
	Payout     Payout
	Err        error
}

// Registry - the external asset registry
type Registry interface {
	TransferPayout(ctx context.Context, request Request) (Payout, error)
}

const settlementTag = 1

// tag ++ registry ++ asset ++ seller ++ buyer ++ approval ++ price ++ created
func (s *Settlement) pack() []byte {
	return util.NewPacker(settlementTag).
		String(s.Key.Registry.String()).
		String(s.Key.Asset).
		String(s.Seller.String()).
		String(s.Buyer.String()).
		Uint64(s.ApprovalId).
		Fixed(s.Price.Bytes()).
		Uint64(s.CreatedAt).
		Packed()
}

func unpack(key []byte, buffer []byte) (*Settlement, error) {
	id, ok := storage.IdFromBytes(key)
	if !ok {
		return nil, fault.NotSettlementPack
	}

	u := util.NewUnpacker(buffer, settlementTag, fault.NotSettlementPack)
	registry := u.String(account.MaximumLength)
	asset := u.String(listing.MaximumAssetIdLength)
	seller := u.String(account.MaximumLength)
	buyer := u.String(account.MaximumLength)
	s := &Settlement{
		Id:         Id(id),
		ApprovalId: u.Uint64(),
	}
	price := u.Fixed(amount.Size)
	s.CreatedAt = u.Uint64()

	err := u.Done()
	if nil != err {
		return nil, err
	}

	s.Key, err = listing.MakeKey(account.Name(registry), asset)
	if nil != err {
		return nil, fault.NotSettlementPack
	}
	s.Seller, err = account.New(seller)
	if nil != err {
		return nil, fault.NotSettlementPack
	}
	s.Buyer, err = account.New(buyer)
	if nil != err {
		return nil, fault.NotSettlementPack
	}
	s.Price, err = amount.FromBytes(price)
	if nil != err {
		return nil, fault.NotSettlementPack
	}
	return s, nil
}
