// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package market - the marketplace operations
//
// every operation runs as a single storage transaction: any failure
// aborts it and leaves all tables unchanged
package market

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/balance"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/storage"
)

// DefaultStoragePerListing - quota of one listing in minor units
// (1000 bytes at 10^19 per byte)
var DefaultStoragePerListing = amount.FromUint64(1000).SaturatingMulUint64(10000000000000000000)

// OneMinorUnit - the exact deposit required to confirm sensitive calls
var OneMinorUnit = amount.FromUint64(1)

// Call - the host environment of one operation
//
// Predecessor is the immediate caller, Signer the account that signed
// the originating request, Deposit the funds attached and Timestamp
// the host clock in nanoseconds
type Call struct {
	Predecessor account.Name  `json:"predecessor_id"`
	Signer      account.Name  `json:"signer_id"`
	Deposit     amount.Amount `json:"attached_deposit"`
	Timestamp   uint64        `json:"block_timestamp"`
}

// Configuration - marketplace parameters
type Configuration struct {
	Owner             account.Name
	OwnerCut          amount.BasisPoints
	StoragePerListing amount.Amount
	MaximumPayees     uint32
	RequestTimeout    time.Duration
	QueueSize         int
}

// Marketplace - the aggregate state of the market
type Marketplace struct {
	log         *logger.L
	store       settlement.Store
	book        *listing.Book
	accounts    *balance.Accounts
	journal     *payout.Journal
	coordinator *settlement.Coordinator
}

// New - bind the marketplace to an open store
//
// clock is used for journal timestamps of settlements
func New(store *storage.Store, configuration Configuration, clock func() uint64) (*Marketplace, error) {
	quota := configuration.StoragePerListing
	if quota.IsZero() {
		quota = DefaultStoragePerListing
	}

	journal := payout.NewJournal(store.Pool.Payouts, store.Pool.Sequences)
	coordinator, err := settlement.NewCoordinator(
		store,
		store.Pool.Settlements,
		store.Pool.Sequences,
		journal,
		settlement.Configuration{
			Owner:         configuration.Owner,
			OwnerCut:      configuration.OwnerCut,
			MaximumPayees: configuration.MaximumPayees,
			Timeout:       configuration.RequestTimeout,
			QueueSize:     configuration.QueueSize,
		},
		clock,
	)
	if nil != err {
		return nil, err
	}

	m := &Marketplace{
		log:         logger.New("market"),
		store:       store,
		book:        listing.NewBook(store.Pool.Listings, store.Pool.OwnerIndex, store.Pool.RegistryIndex),
		accounts:    balance.New(store.Pool.StorageBalances, quota),
		journal:     journal,
		coordinator: coordinator,
	}
	m.log.Infof("owner: %s  cut: %d bps  storage per listing: %s", configuration.Owner, configuration.OwnerCut, quota)
	return m, nil
}

// Processes - background settlement processes using registry
func (m *Marketplace) Processes(registry settlement.Registry) background.Processes {
	return m.coordinator.Processes(registry)
}

// Restore - queue settlements left pending by a previous run
func (m *Marketplace) Restore() (int, error) {
	return m.coordinator.Restore()
}

// Coordinator - the settlement coordinator
func (m *Marketplace) Coordinator() *settlement.Coordinator {
	return m.coordinator
}

// run f as one transaction
func (m *Marketplace) transact(operation string, f func(trx storage.Transaction) error) error {
	trx, err := m.store.Begin()
	if nil != err {
		return err
	}
	defer trx.Abort()

	err = f(trx)
	if nil != err {
		m.log.Debugf("%s: rejected: %s", operation, err)
		return err
	}
	return trx.Commit()
}
