// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fault"
)

// sends registry requests, one at a time
type dispatcher struct {
	log         *logger.L
	coordinator *Coordinator
	registry    Registry
}

func (d *dispatcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := d.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-shutdown
		cancel()
	}()

	queue := d.coordinator.requests.Chan()
loop:
	for {
		log.Debug("waiting…")
		select {
		case <-shutdown:
			break loop
		case item, ok := <-queue:
			if !ok {
				break loop
			}
			if requestCommand != item.Command || 1 != len(item.Parameters) {
				log.Errorf("unexpected message: %v", item)
				continue loop
			}
			id, ok := item.Parameters[0].(Id)
			if !ok {
				log.Errorf("unexpected parameter: %v", item.Parameters[0])
				continue loop
			}
			outcome, ok := d.dispatch(ctx, id)
			if !ok {
				continue loop
			}
			if !d.coordinator.outcomes.SendUntil(shutdown, outcomeCommand, outcome) {
				log.Warnf("settlement: %d  outcome dropped at shutdown", id)
			}
		}
	}
	log.Info("shutting down…")
}

// call the registry, false if the settlement is already resolved
func (d *dispatcher) dispatch(ctx context.Context, id Id) (Outcome, bool) {
	request, err := d.coordinator.request(id)
	if fault.SettlementNotFound == err {
		d.log.Debugf("settlement: %d  already resolved", id)
		return Outcome{}, false
	}
	if nil != err {
		d.log.Errorf("settlement: %d  request error: %s", id, err)
		return Outcome{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, d.coordinator.config.Timeout)
	defer cancel()

	d.log.Infof("request: %d  registry: %s  asset: %s  receiver: %s  price: %s", id, request.Registry, request.AssetId, request.Receiver, request.Price)
	result, err := d.registry.TransferPayout(ctx, request)
	if nil != err {
		d.log.Errorf("settlement: %d  registry error: %s", id, err)
	}
	return Outcome{
		Settlement: id,
		Payout:     result,
		Err:        err,
	}, true
}
