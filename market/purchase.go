// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/auction"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/storage"
)

// PurchaseNFT - buy a listing with the attached deposit
//
// the listing is removed and a settlement started in one
// transaction, the whole deposit becomes the settlement price; the
// registry request is queued only after commit
func (m *Marketplace) PurchaseNFT(call Call, registry account.Name, assetId string) (settlement.Id, error) {
	key, err := listing.MakeKey(registry, assetId)
	if nil != err {
		return 0, err
	}

	buyer := call.Signer
	var id settlement.Id
	err = m.transact("purchase_nft", func(trx storage.Transaction) error {
		l, err := m.book.Get(trx, key)
		if nil != err {
			return err
		}

		price := l.StartingPrice
		if l.IsAuction {
			price, err = auction.Winner(l, buyer, call.Timestamp)
			if nil != err {
				return err
			}
		}
		if call.Deposit.Less(price) {
			return fault.InsufficientFunds
		}

		_, err = m.book.Remove(trx, key)
		if nil != err {
			return err
		}
		id = m.coordinator.Begin(trx, l, buyer, call.Deposit, call.Timestamp)
		return nil
	})
	if nil != err {
		return 0, err
	}

	m.log.Infof("purchase_nft: %s  buyer: %s  price: %s  settlement: %d", key, buyer, call.Deposit, id)
	m.coordinator.Submit(id)
	return id, nil
}
