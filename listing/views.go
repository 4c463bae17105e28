// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"errors"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// read only access to committed listings

// stops a cursor map once a page is complete
var errPageFull = errors.New("page full")

// Lookup - fetch a committed listing
func (b *Book) Lookup(key Key) (*Listing, error) {
	return b.decode(key, b.listings.Get(key.Bytes()))
}

// Total - number of committed listings
func (b *Book) Total() (uint64, error) {
	count := uint64(0)
	err := b.listings.NewFetchCursor().Map(func(key []byte, value []byte) error {
		count += 1
		return nil
	})
	return count, err
}

// SupplyByOwner - number of listings of one seller
func (b *Book) SupplyByOwner(seller account.Name) (uint64, error) {
	return b.supply(b.owners, seller)
}

// SupplyByRegistry - number of listings of one registry
func (b *Book) SupplyByRegistry(registry account.Name) (uint64, error) {
	return b.supply(b.registries, registry)
}

// ByOwner - a page of the listings of one seller in key order
func (b *Book) ByOwner(seller account.Name, from uint64, limit uint64) ([]*Listing, error) {
	return b.page(b.owners, seller, from, limit)
}

// ByRegistry - a page of the listings of one registry in key order
func (b *Book) ByRegistry(registry account.Name, from uint64, limit uint64) ([]*Listing, error) {
	return b.page(b.registries, registry, from, limit)
}

// Page - a page of all listings in key order
func (b *Book) Page(from uint64, limit uint64) ([]*Listing, error) {
	result := make([]*Listing, 0)
	if 0 == limit {
		return result, nil
	}

	n := uint64(0)
	err := b.listings.NewFetchCursor().Map(func(k []byte, value []byte) error {
		if uint64(len(result)) >= limit {
			return errPageFull
		}
		n += 1
		if n <= from {
			return nil
		}
		key, err := ParseKey(string(k))
		if nil != err {
			return err
		}
		l, err := Unpack(key, value)
		if nil != err {
			return err
		}
		result = append(result, l)
		return nil
	})
	if errPageFull == err {
		err = nil
	}
	return result, err
}

func (b *Book) supply(index storage.Handle, name account.Name) (uint64, error) {
	set, err := UnpackKeySet(index.Get(name.Bytes()))
	if nil != err {
		return 0, err
	}
	return uint64(len(set)), nil
}

func (b *Book) page(index storage.Handle, name account.Name, from uint64, limit uint64) ([]*Listing, error) {
	set, err := UnpackKeySet(index.Get(name.Bytes()))
	if nil != err {
		return nil, err
	}

	result := make([]*Listing, 0)
	if from >= uint64(len(set)) {
		return result, nil
	}
	end := uint64(len(set))
	if limit < end-from {
		end = from + limit
	}

	keys, err := set[from:end].Keys()
	if nil != err {
		return nil, err
	}
	for _, key := range keys {
		l, err := b.Lookup(key)
		if fault.ListingNotFound == err {
			// removed by a commit after the index was read
			continue
		}
		if nil != err {
			return nil, err
		}
		result = append(result, l)
	}
	return result, nil
}
