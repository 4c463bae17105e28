// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storagebalance - RPC service for storage deposits
package storagebalance

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

const (
	rateLimitStorage = 100
	rateBurstStorage = 50
)

// StorageBalance - type for the RPC
type StorageBalance struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Market  *market.Marketplace
}

func New(log *logger.L, m *market.Marketplace) *StorageBalance {
	return &StorageBalance{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitStorage, rateBurstStorage),
		Market:  m,
	}
}

// DepositArguments - arguments for deposit
//
// a nil AccountId credits the caller
type DepositArguments struct {
	Call      market.Call   `json:"call"`
	AccountId *account.Name `json:"account_id,omitempty"`
}

// BalanceReply - an amount in minor units
type BalanceReply struct {
	Amount amount.Amount `json:"amount"`
}

// Deposit - add the attached deposit to a storage balance
func (s *StorageBalance) Deposit(arguments *DepositArguments, reply *BalanceReply) error {
	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	s.Log.Infof("StorageBalance.Deposit: %+v", arguments)

	total, err := s.Market.StorageDeposit(arguments.Call, arguments.AccountId)
	if nil != err {
		return err
	}
	reply.Amount = total
	return nil
}

// WithdrawArguments - arguments for withdraw
type WithdrawArguments struct {
	Call market.Call `json:"call"`
}

// Withdraw - release the unreserved part of the caller's balance
func (s *StorageBalance) Withdraw(arguments *WithdrawArguments, reply *BalanceReply) error {
	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	s.Log.Infof("StorageBalance.Withdraw: %+v", arguments)

	released, err := s.Market.StorageWithdraw(arguments.Call)
	if nil != err {
		return err
	}
	reply.Amount = released
	return nil
}

// MinimumArguments - empty arguments for minimum
type MinimumArguments struct{}

// Minimum - the quota of one listing
func (s *StorageBalance) Minimum(_ *MinimumArguments, reply *BalanceReply) error {
	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	reply.Amount = s.Market.StorageMinimumBalance()
	return nil
}

// BalanceArguments - arguments for balance
type BalanceArguments struct {
	AccountId account.Name `json:"account_id"`
}

// Balance - committed balance of an account
func (s *StorageBalance) Balance(arguments *BalanceArguments, reply *BalanceReply) error {
	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	b, err := s.Market.StorageBalanceOf(arguments.AccountId)
	if nil != err {
		return err
	}
	reply.Amount = b
	return nil
}
