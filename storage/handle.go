// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

//go:generate mockgen -source=handle.go -destination=mocks/handle.go -package=mocks

// Handle - read access to committed data of one pool
type Handle interface {
	Get(key []byte) []byte
	Has(key []byte) bool
	PrefixKey(key []byte) []byte
	NewFetchCursor() *FetchCursor
}

// PoolHandle - the structure exported from this package
type PoolHandle struct {
	prefix []byte
	limit  []byte
	store  *Store
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// PrefixKey - prepend the prefix onto the key
func (p *PoolHandle) PrefixKey(key []byte) []byte {
	prefixedKey := make([]byte, len(p.prefix), len(p.prefix)+len(key))
	copy(prefixedKey, p.prefix)
	return append(prefixedKey, key...)
}

// Get - read a value for a given key
//
// returns nil if not found
func (p *PoolHandle) Get(key []byte) []byte {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return nil
	}
	value, err := p.store.db.Get(p.PrefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	if nil != err {
		p.store.log.Criticalf("pool.Get: key: %x  error: %s", key, err)
		return nil
	}
	return value
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return false
	}
	found, err := p.store.db.Has(p.PrefixKey(key), nil)
	if nil != err {
		p.store.log.Criticalf("pool.Has: key: %x  error: %s", key, err)
		return false
	}
	return found
}
