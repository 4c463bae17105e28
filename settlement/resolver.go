// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

// runs the continuation for each outcome
type resolver struct {
	log         *logger.L
	coordinator *Coordinator
}

func (r *resolver) Run(args interface{}, shutdown <-chan struct{}) {
	log := r.log
	log.Info("starting…")

	queue := r.coordinator.outcomes.Chan()
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-queue:
			if !ok {
				break loop
			}
			if outcomeCommand != item.Command || 1 != len(item.Parameters) {
				log.Errorf("unexpected message: %v", item)
				continue loop
			}
			outcome, ok := item.Parameters[0].(Outcome)
			if !ok {
				log.Errorf("unexpected parameter: %v", item.Parameters[0])
				continue loop
			}

			err := r.coordinator.Resolve(outcome)
			if fault.SettlementNotFound == err {
				log.Debugf("settlement: %d  already resolved", outcome.Settlement)
			} else if nil != err {
				log.Errorf("settlement: %d  resolve error: %s", outcome.Settlement, err)
			}
		}
	}
	log.Info("shutting down…")
}
