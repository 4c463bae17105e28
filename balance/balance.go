// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package balance - prepaid storage deposits
//
// every open listing reserves a fixed quota from its seller's
// balance, the rest may be withdrawn at any time
package balance

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// Accounts - storage balances of all accounts
type Accounts struct {
	log      *logger.L
	balances storage.Handle
	quota    amount.Amount
}

// New - bind to the balance table with a per listing quota
func New(balances storage.Handle, quota amount.Amount) *Accounts {
	return &Accounts{
		log:      logger.New("balance"),
		balances: balances,
		quota:    quota,
	}
}

// Quota - the balance reserved by one listing
func (a *Accounts) Quota() amount.Amount {
	return a.quota
}

// Reserved - the balance reserved by count listings
func (a *Accounts) Reserved(count uint64) amount.Amount {
	return a.quota.SaturatingMulUint64(count)
}

// Get - current balance inside a transaction, zero if never deposited
func (a *Accounts) Get(trx storage.Transaction, name account.Name) (amount.Amount, error) {
	return decode(trx.Get(a.balances, name.Bytes()))
}

// BalanceOf - committed balance, zero if never deposited
func (a *Accounts) BalanceOf(name account.Name) (amount.Amount, error) {
	return decode(a.balances.Get(name.Bytes()))
}

// Deposit - add to an account balance
//
// a deposit smaller than one quota is rejected
func (a *Accounts) Deposit(trx storage.Transaction, target account.Name, deposit amount.Amount) (amount.Amount, error) {
	if deposit.Less(a.quota) {
		return amount.Zero, fault.InsufficientDeposit
	}

	current, err := a.Get(trx, target)
	if nil != err {
		return amount.Zero, err
	}
	total, err := current.Add(deposit)
	if nil != err {
		return amount.Zero, err
	}

	trx.Put(a.balances, target.Bytes(), total.Bytes())
	a.log.Debugf("deposit: %s  amount: %s  balance: %s", target, deposit, total)
	return total, nil
}

// Withdraw - release everything not reserved by owned listings
//
// the reserved part stays as the new balance and the released
// amount is returned for transfer to the owner
func (a *Accounts) Withdraw(trx storage.Transaction, owner account.Name, owned uint64) (amount.Amount, error) {
	buffer := trx.Get(a.balances, owner.Bytes())
	current, err := decode(buffer)
	if nil != err {
		return amount.Zero, err
	}

	reserved := a.Reserved(owned)
	withdrawable := current.SaturatingSub(reserved)
	remaining := current.SaturatingSub(withdrawable)

	// accounts only come into existence by deposit
	if nil != buffer {
		trx.Put(a.balances, owner.Bytes(), remaining.Bytes())
	}
	a.log.Debugf("withdraw: %s  amount: %s  reserved: %s", owner, withdrawable, remaining)
	return withdrawable, nil
}

// EnsureSolvent - check the balance covers count listings
func (a *Accounts) EnsureSolvent(trx storage.Transaction, owner account.Name, count uint64) error {
	current, err := a.Get(trx, owner)
	if nil != err {
		return err
	}
	if current.Less(a.Reserved(count)) {
		return fault.InsufficientStorageBalance
	}
	return nil
}

func decode(buffer []byte) (amount.Amount, error) {
	if nil == buffer {
		return amount.Zero, nil
	}
	return amount.FromBytes(buffer)
}
