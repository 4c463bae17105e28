// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc/listings"
	"github.com/bitmark-inc/marketd/rpc/node"
	"github.com/bitmark-inc/marketd/rpc/settlements"
	"github.com/bitmark-inc/marketd/rpc/storagebalance"
)

// Create - an RPC server with all market services registered
func Create(log *logger.L, version string, rpcCount *counter.Counter, m *market.Marketplace) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(listings.New(log, m))
	_ = server.Register(storagebalance.New(log, m))
	_ = server.Register(settlements.New(log, m))
	_ = server.Register(node.New(log, start, version, rpcCount, m))

	return server
}
