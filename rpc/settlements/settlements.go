// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlements

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
	"github.com/bitmark-inc/marketd/settlement"
)

const (
	rateLimitSettlement = 200
	rateBurstSettlement = 100
)

// Settlement - type for the RPC
type Settlement struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Market  *market.Marketplace
}

func New(log *logger.L, m *market.Marketplace) *Settlement {
	return &Settlement{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitSettlement, rateBurstSettlement),
		Market:  m,
	}
}

// StatusArguments - arguments for status
type StatusArguments struct {
	Id settlement.Id `json:"id,string"`
}

// StatusReply - a pending settlement
type StatusReply struct {
	Settlement *settlement.Settlement `json:"settlement"`
}

// Status - a settlement still awaiting its registry transfer
func (s *Settlement) Status(arguments *StatusArguments, reply *StatusReply) error {
	if err := ratelimit.Limit(s.Limiter); nil != err {
		return err
	}
	status, err := s.Market.SettlementStatus(arguments.Id)
	if nil != err {
		return err
	}
	reply.Settlement = status
	return nil
}

// PayoutsArguments - arguments for payouts
type PayoutsArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// PayoutsReply - a page of the outward transfer journal
type PayoutsReply struct {
	Payouts []payout.Record `json:"payouts"`
	Next    uint64          `json:"next,string"`
}

// Payouts - journal records from Start onwards
func (s *Settlement) Payouts(arguments *PayoutsArguments, reply *PayoutsReply) error {
	if err := ratelimit.LimitN(s.Limiter, arguments.Count, market.MaximumPageSize); nil != err {
		return err
	}
	records, err := s.Market.Payouts(arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Payouts = records
	reply.Next = arguments.Start
	if n := len(records); n > 0 {
		reply.Next = records[n-1].Id + 1
	}
	return nil
}
