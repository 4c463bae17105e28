// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package settlement

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/background"
	"github.com/bitmark-inc/marketd/counter"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/listing"
	"github.com/bitmark-inc/marketd/messagebus"
	"github.com/bitmark-inc/marketd/payout"
	"github.com/bitmark-inc/marketd/storage"
)

// queue commands
const (
	requestCommand = "request"
	outcomeCommand = "outcome"
)

const sequenceName = "settlements"

// Store - source of transactions
type Store interface {
	Begin() (storage.Transaction, error)
}

// Configuration - settlement parameters
type Configuration struct {
	Owner         account.Name
	OwnerCut      amount.BasisPoints
	MaximumPayees uint32
	Timeout       time.Duration
	QueueSize     int
}

// Statistics - settlement counters
type Statistics struct {
	Started  counter.Counter
	Resolved counter.Counter
	Failed   counter.Counter
}

// Coordinator - owns the pending settlements
type Coordinator struct {
	log         *logger.L
	store       Store
	settlements storage.Handle
	sequences   storage.Handle
	journal     *payout.Journal
	config      Configuration
	clock       func() uint64

	requests *messagebus.Queue
	outcomes *messagebus.Queue

	// closed by Close to release senders blocked on a full queue
	done      chan struct{}
	closeOnce sync.Once

	Statistics Statistics
}

// NewCoordinator - create a coordinator
//
// clock supplies the timestamp of journal records in nanoseconds
func NewCoordinator(store Store, settlements storage.Handle, sequences storage.Handle, journal *payout.Journal, config Configuration, clock func() uint64) (*Coordinator, error) {
	if err := config.OwnerCut.Validate(); nil != err {
		return nil, err
	}
	if !account.Valid(config.Owner.String()) {
		return nil, fault.InvalidAccount
	}
	if 0 == config.MaximumPayees {
		config.MaximumPayees = DefaultMaximumPayees
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Coordinator{
		log:         logger.New("settlement"),
		store:       store,
		settlements: settlements,
		sequences:   sequences,
		journal:     journal,
		config:      config,
		clock:       clock,
		requests:    messagebus.New(config.QueueSize),
		outcomes:    messagebus.New(config.QueueSize),
		done:        make(chan struct{}),
	}, nil
}

// Processes - the dispatcher and resolver to run in the background
func (c *Coordinator) Processes(registry Registry) background.Processes {
	return background.Processes{
		&dispatcher{
			log:         logger.New("dispatcher"),
			coordinator: c,
			registry:    registry,
		},
		&resolver{
			log:         logger.New("resolver"),
			coordinator: c,
		},
	}
}

// Begin - store a pending marker for a removed listing
//
// runs inside the purchase transaction, the returned id must be
// passed to Submit once that transaction commits
func (c *Coordinator) Begin(trx storage.Transaction, l *listing.Listing, buyer account.Name, price amount.Amount, now uint64) Id {
	s := &Settlement{
		Id:         Id(storage.NextSequence(trx, c.sequences, sequenceName)),
		Key:        l.Key,
		Seller:     l.Seller,
		Buyer:      buyer,
		ApprovalId: l.ApprovalId,
		Price:      price,
		CreatedAt:  now,
	}
	trx.Put(c.settlements, storage.IdBytes(uint64(s.Id)), s.pack())
	c.log.Infof("begin: %d  listing: %s  buyer: %s  price: %s", s.Id, s.Key, buyer, price)
	return s.Id
}

// Submit - queue a committed settlement for its registry request
//
// waits while the queue is full but gives up once Close is called,
// the marker stays pending and Restore issues it on the next start
func (c *Coordinator) Submit(id Id) bool {
	if !c.requests.SendUntil(c.done, requestCommand, id) {
		c.log.Warnf("submit: %d  stopping, request deferred until restart", id)
		return false
	}
	c.Statistics.Started.Increment()
	return true
}

// Restore - queue every marker left pending, returns the count
func (c *Coordinator) Restore() (int, error) {
	n := 0
	err := c.settlements.NewFetchCursor().Map(func(key []byte, value []byte) error {
		s, err := unpack(key, value)
		if nil != err {
			return err
		}
		c.log.Infof("restore: %d  listing: %s", s.Id, s.Key)
		if c.Submit(s.Id) {
			n += 1
		}
		return nil
	})
	return n, err
}

// Status - a committed pending settlement
//
// fails with SettlementNotFound once resolved
func (c *Coordinator) Status(id Id) (*Settlement, error) {
	key := storage.IdBytes(uint64(id))
	buffer := c.settlements.Get(key)
	if nil == buffer {
		return nil, fault.SettlementNotFound
	}
	return unpack(key, buffer)
}

// Pending - number of queued requests and outcomes
func (c *Coordinator) Pending() (int, int) {
	return c.requests.Len(), c.outcomes.Len()
}

// Resolve - the continuation of a settlement
//
// distributes the price between seller and platform owner and
// deletes the marker in one transaction, an outcome for a marker
// that no longer exists fails with SettlementNotFound and changes
// nothing
func (c *Coordinator) Resolve(outcome Outcome) error {
	trx, err := c.store.Begin()
	if nil != err {
		return err
	}
	defer trx.Abort()

	key := storage.IdBytes(uint64(outcome.Settlement))
	buffer := trx.Get(c.settlements, key)
	if nil == buffer {
		return fault.SettlementNotFound
	}
	s, err := unpack(key, buffer)
	if nil != err {
		return err
	}

	if nil != outcome.Err {
		c.Statistics.Failed.Increment()
		c.log.Warnf("resolve: %d  transfer failed: %s  funds released regardless", s.Id, outcome.Err)
	} else if uint32(len(outcome.Payout)) > c.config.MaximumPayees {
		c.log.Warnf("resolve: %d  payout has: %d payees  limit: %d", s.Id, len(outcome.Payout), c.config.MaximumPayees)
	}

	cut, proceeds := amount.Split(s.Price, c.config.OwnerCut)
	now := c.clock()

	c.journal.Append(trx, payout.Record{
		Kind:       payout.SellerProceeds,
		Recipient:  s.Seller,
		Amount:     proceeds,
		Settlement: uint64(s.Id),
		Timestamp:  now,
	})
	c.journal.Append(trx, payout.Record{
		Kind:       payout.PlatformCut,
		Recipient:  c.config.Owner,
		Amount:     cut,
		Settlement: uint64(s.Id),
		Timestamp:  now,
	})
	trx.Delete(c.settlements, key)

	err = trx.Commit()
	if nil != err {
		return err
	}

	c.Statistics.Resolved.Increment()
	c.log.Infof("resolved: %d  seller: %s  proceeds: %s  cut: %s", s.Id, s.Seller, proceeds, cut)
	return nil
}

// build the registry request for a committed marker
func (c *Coordinator) request(id Id) (Request, error) {
	s, err := c.Status(id)
	if nil != err {
		return Request{}, err
	}
	return Request{
		Settlement: s.Id,
		Registry:   s.Key.Registry,
		ApprovalId: s.ApprovalId,
		Receiver:   s.Buyer,
		AssetId:    s.Key.Asset,
		Memo:       Memo,
		Price:      s.Price,
		MaxPayees:  c.config.MaximumPayees,
	}, nil
}

// Close - stop accepting requests and outcomes
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.requests.Close()
		c.outcomes.Close()
	})
}
