// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

type dbOperation int

const (
	dbPut dbOperation = iota
	dbDelete
)

// lookup result of the write overlay
type cacheState int

const (
	cacheMiss cacheState = iota
	cachePresent
	cacheDeleted
)

type cacheData struct {
	op    dbOperation
	value []byte
}

// the uncommitted writes of one transaction
//
// entries never expire, the whole overlay is discarded at the end
// of the transaction
type dbCache struct {
	cache *cache.Cache
}

func newCache() *dbCache {
	return &dbCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *dbCache) Get(key string) ([]byte, cacheState) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, cacheMiss
	}

	data := obj.(cacheData)
	if dbDelete == data.op {
		return nil, cacheDeleted
	}
	return data.value, cachePresent
}

func (c *dbCache) Set(op dbOperation, key string, value []byte) {
	c.cache.Set(key, cacheData{op: op, value: value}, cache.NoExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
