// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/marketd/fault"
)

//go:generate mockgen -source=transaction.go -destination=mocks/transaction.go -package=mocks

// Transaction - an atomic group of updates across pools
//
// reads see the transaction's own uncommitted writes
type Transaction interface {
	Get(Handle, []byte) []byte
	Has(Handle, []byte) bool
	Put(Handle, []byte, []byte)
	Delete(Handle, []byte)
	Commit() error
	Abort()
}

type transactionData struct {
	store *Store
	batch *leveldb.Batch
	cache *dbCache
	inUse bool
}

func newTransaction(s *Store) *transactionData {
	return &transactionData{
		store: s,
		batch: new(leveldb.Batch),
		cache: newCache(),
		inUse: true,
	}
}

func (t *transactionData) mustBeInUse(operation string) {
	if !t.inUse {
		logger.Panicf("transaction.%s: %s", operation, fault.TransactionNotInUse)
	}
}

// Put - store a key/value pair on commit
func (t *transactionData) Put(handle Handle, key []byte, value []byte) {
	t.mustBeInUse("Put")
	k := handle.PrefixKey(key)
	v := make([]byte, len(value))
	copy(v, value)
	t.cache.Set(dbPut, string(k), v)
	t.batch.Put(k, v)
}

// Delete - remove a key on commit
func (t *transactionData) Delete(handle Handle, key []byte) {
	t.mustBeInUse("Delete")
	k := handle.PrefixKey(key)
	t.cache.Set(dbDelete, string(k), nil)
	t.batch.Delete(k)
}

// Get - read a value, nil if not found
func (t *transactionData) Get(handle Handle, key []byte) []byte {
	t.mustBeInUse("Get")
	k := handle.PrefixKey(key)
	value, state := t.cache.Get(string(k))
	switch state {
	case cachePresent:
		return value
	case cacheDeleted:
		return nil
	}

	value, err := t.store.db.Get(k, nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("transaction.Get", err)
	return value
}

// Has - check if a key exists
func (t *transactionData) Has(handle Handle, key []byte) bool {
	t.mustBeInUse("Has")
	k := handle.PrefixKey(key)
	switch _, state := t.cache.Get(string(k)); state {
	case cachePresent:
		return true
	case cacheDeleted:
		return false
	}

	found, err := t.store.db.Has(k, nil)
	logger.PanicIfError("transaction.Has", err)
	return found
}

// Commit - write all updates atomically and release the store
func (t *transactionData) Commit() error {
	if !t.inUse {
		return fault.TransactionNotInUse
	}
	defer t.finish()

	if 0 == t.batch.Len() {
		return nil
	}
	return t.store.db.Write(t.batch, nil)
}

// Abort - discard all updates and release the store
//
// calling after Commit or a previous Abort does nothing
func (t *transactionData) Abort() {
	if !t.inUse {
		return
	}
	t.finish()
}

func (t *transactionData) finish() {
	t.batch.Reset()
	t.cache.Clear()
	t.inUse = false
	t.store.trx.Unlock()
}
