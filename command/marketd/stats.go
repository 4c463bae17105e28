// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// periodically log memory use, connections and settlement progress
func memstats(m *market.Marketplace) {

	log := logger.New("memory")
	statistics := &m.Coordinator().Statistics

	for {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		a := ms.Alloc / mega
		t := ms.TotalAlloc / mega
		s := ms.Sys / mega
		log.Warnf("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, s)

		requests, outcomes := m.Coordinator().Pending()
		log.Infof("rpc connections: %d  settlements started: %d  resolved: %d  failed: %d  queued requests: %d  outcomes: %d",
			rpc.Connections(),
			statistics.Started.Uint64(),
			statistics.Resolved.Uint64(),
			statistics.Failed.Uint64(),
			requests,
			outcomes,
		)

		time.Sleep(statsDelay)
	}
}
