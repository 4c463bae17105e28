// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package market

import (
	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/storage"
)

// StorageDeposit - add the attached deposit to the balance of target,
// or of the caller if target is nil
func (m *Marketplace) StorageDeposit(call Call, target *account.Name) (amount.Amount, error) {
	to := call.Predecessor
	if nil != target {
		if !account.Valid(target.String()) {
			return amount.Zero, fault.InvalidAccount
		}
		to = *target
	}

	var total amount.Amount
	err := m.transact("storage_deposit", func(trx storage.Transaction) error {
		var err error
		total, err = m.accounts.Deposit(trx, to, call.Deposit)
		return err
	})
	if nil != err {
		return amount.Zero, err
	}
	m.log.Infof("storage_deposit: %s  amount: %s  balance: %s", to, call.Deposit, total)
	return total, nil
}

// StorageWithdraw - release the part of the caller's balance not
// reserved by open listings and journal its transfer
func (m *Marketplace) StorageWithdraw(call Call) (amount.Amount, error) {
	if 0 != call.Deposit.Cmp(OneMinorUnit) {
		return amount.Zero, fault.RequiresOneMinorUnit
	}

	owner := call.Predecessor
	var released amount.Amount
	err := m.transact("storage_withdraw", func(trx storage.Transaction) error {
		owned, err := m.book.OwnedCount(trx, owner)
		if nil != err {
			return err
		}
		released, err = m.accounts.Withdraw(trx, owner, owned)
		if nil != err {
			return err
		}
		m.journal.Append(trx, payout.Record{
			Kind:      payout.Withdrawal,
			Recipient: owner,
			Amount:    released,
			Timestamp: call.Timestamp,
		})
		return nil
	})
	if nil != err {
		return amount.Zero, err
	}
	m.log.Infof("storage_withdraw: %s  amount: %s", owner, released)
	return released, nil
}

// StorageMinimumBalance - the quota reserved by one listing
func (m *Marketplace) StorageMinimumBalance() amount.Amount {
	return m.accounts.Quota()
}

// StorageBalanceOf - committed balance, zero for unknown accounts
func (m *Marketplace) StorageBalanceOf(name account.Name) (amount.Amount, error) {
	return m.accounts.BalanceOf(name)
}
