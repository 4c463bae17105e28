// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package node

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/ratelimit"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log     *logger.L
	Limiter *rate.Limiter
	Start   time.Time
	Version string
	Market  *market.Marketplace
	counter *counter.Counter
}

func New(log *logger.L, start time.Time, version string, counter *counter.Counter, m *market.Marketplace) *Node {
	return &Node{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:   start,
		Version: version,
		Market:  m,
		counter: counter,
	}
}

// ---

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Version     string          `json:"version"`
	Uptime      string          `json:"uptime"`
	RPCs        uint64          `json:"rpcs"`
	Listings    uint64          `json:"listings"`
	Settlements SettlementCount `json:"settlements"`
}

// SettlementCount - settlement counters since start
type SettlementCount struct {
	Started  uint64 `json:"started"`
	Resolved uint64 `json:"resolved"`
	Failed   uint64 `json:"failed"`
	Requests int    `json:"requests"`
	Outcomes int    `json:"outcomes"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	total, err := node.Market.TotalListings()
	if nil != err {
		return err
	}

	coordinator := node.Market.Coordinator()
	statistics := &coordinator.Statistics

	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.RPCs = node.counter.Uint64()
	reply.Listings = total
	reply.Settlements = SettlementCount{
		Started:  statistics.Started.Uint64(),
		Resolved: statistics.Resolved.Uint64(),
		Failed:   statistics.Failed.Uint64(),
	}
	reply.Settlements.Requests, reply.Settlements.Outcomes = coordinator.Pending()
	return nil
}
