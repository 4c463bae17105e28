// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package payout - journal of outward fund transfers
//
// each record is written in the same transaction that decided the
// transfer, the host environment executes them in id order
package payout

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
	"github.com/bitmark-inc/marketd/util"
)

// Kind - reason for a transfer
type Kind uint8

// transfer kinds
const (
	Withdrawal     Kind = 1
	SellerProceeds Kind = 2
	PlatformCut    Kind = 3
)

func (k Kind) String() string {
	switch k {
	case Withdrawal:
		return "withdrawal"
	case SellerProceeds:
		return "seller-proceeds"
	case PlatformCut:
		return "platform-cut"
	default:
		return "unknown"
	}
}

// MarshalText - kind name for JSON
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Record - one outward transfer
type Record struct {
	Id         uint64        `json:"id"`
	Kind       Kind          `json:"kind"`
	Recipient  account.Name  `json:"recipient"`
	Amount     amount.Amount `json:"amount"`
	Settlement uint64        `json:"settlement,omitempty"`
	Timestamp  uint64        `json:"timestamp"`
}

// String - JSON form for logging and dumps
func (r Record) String() string {
	s, _ := json.Marshal(r)
	return string(s)
}

const (
	recordTag    = 1
	sequenceName = "payouts"
)

// Journal - append only list of transfers
type Journal struct {
	log       *logger.L
	payouts   storage.Handle
	sequences storage.Handle
}

// NewJournal - bind to the payout and sequence tables
func NewJournal(payouts storage.Handle, sequences storage.Handle) *Journal {
	return &Journal{
		log:       logger.New("payout"),
		payouts:   payouts,
		sequences: sequences,
	}
}

// Append - add a transfer, zero amounts are not recorded
//
// returns the record id or zero if nothing was recorded
func (j *Journal) Append(trx storage.Transaction, r Record) uint64 {
	if r.Amount.IsZero() {
		return 0
	}
	r.Id = storage.NextSequence(trx, j.sequences, sequenceName)
	trx.Put(j.payouts, storage.IdBytes(r.Id), r.pack())
	j.log.Infof("transfer: %s", r)
	return r.Id
}

// List - up to count committed records starting at id from
func (j *Journal) List(from uint64, count int) ([]Record, error) {
	elements, err := j.payouts.NewFetchCursor().Seek(storage.IdBytes(from)).Fetch(count)
	if nil != err {
		return nil, err
	}
	records := make([]Record, 0, len(elements))
	for _, e := range elements {
		r, err := unpack(e.Key, e.Value)
		if nil != err {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// tag ++ kind ++ recipient ++ amount ++ settlement ++ timestamp
func (r Record) pack() []byte {
	return util.NewPacker(recordTag).
		Uint64(uint64(r.Kind)).
		String(r.Recipient.String()).
		Fixed(r.Amount.Bytes()).
		Uint64(r.Settlement).
		Uint64(r.Timestamp).
		Packed()
}

func unpack(key []byte, buffer []byte) (Record, error) {
	id, ok := storage.IdFromBytes(key)
	if !ok {
		return Record{}, fault.NotPayoutPack
	}

	u := util.NewUnpacker(buffer, recordTag, fault.NotPayoutPack)
	r := Record{
		Id:   id,
		Kind: Kind(u.Uint64()),
	}
	recipient := u.String(account.MaximumLength)
	value := u.Fixed(amount.Size)
	r.Settlement = u.Uint64()
	r.Timestamp = u.Uint64()

	err := u.Done()
	if nil != err {
		return Record{}, err
	}

	r.Recipient, err = account.New(recipient)
	if nil != err {
		return Record{}, fault.NotPayoutPack
	}
	r.Amount, err = amount.FromBytes(value)
	if nil != err {
		return Record{}, fault.NotPayoutPack
	}
	return r, nil
}
