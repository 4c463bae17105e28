// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/storage"
)

func TestMain(m *testing.M) {
	fixtures.Main(m)
}

func TestAppendAndList(t *testing.T) {
	s := fixtures.OpenTestStore(t)
	j := payout.NewJournal(s.Pool.Payouts, s.Pool.Sequences)

	var ids []uint64
	err := fixtures.Commit(t, s, func(trx storage.Transaction) error {
		ids = append(ids, j.Append(trx, payout.Record{
			Kind:       payout.SellerProceeds,
			Recipient:  fixtures.Alice,
			Amount:     amount.FromUint64(135),
			Settlement: 7,
			Timestamp:  99,
		}))
		ids = append(ids, j.Append(trx, payout.Record{
			Kind:      payout.PlatformCut,
			Recipient: fixtures.Owner,
			Amount:    amount.Zero,
		}))
		ids = append(ids, j.Append(trx, payout.Record{
			Kind:       payout.PlatformCut,
			Recipient:  fixtures.Owner,
			Amount:     amount.FromUint64(15),
			Settlement: 7,
			Timestamp:  99,
		}))
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []uint64{1, 0, 2}, ids, "zero amount must not be recorded")

	records, err := j.List(0, 10)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(records))
	assert.Equal(t, payout.Record{
		Id:         1,
		Kind:       payout.SellerProceeds,
		Recipient:  fixtures.Alice,
		Amount:     amount.FromUint64(135),
		Settlement: 7,
		Timestamp:  99,
	}, records[0])
	assert.Equal(t, payout.PlatformCut, records[1].Kind)
	assert.Equal(t, `{"id":2,"kind":"platform-cut","recipient":"market.near","amount":"15","settlement":7,"timestamp":99}`, records[1].String())

	records, err = j.List(2, 10)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(records))
	assert.Equal(t, uint64(2), records[0].Id)
}
