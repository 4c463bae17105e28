// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

// Book - the only write path for listings
//
// every change to the listing table updates the owner and registry
// indexes in the same transaction, an index entry exists only while
// its set of keys is non-empty
type Book struct {
	log        *logger.L
	listings   storage.Handle
	owners     storage.Handle
	registries storage.Handle
}

// NewBook - bind to the listing table and its indexes
func NewBook(listings storage.Handle, owners storage.Handle, registries storage.Handle) *Book {
	return &Book{
		log:        logger.New("listing"),
		listings:   listings,
		owners:     owners,
		registries: registries,
	}
}

// Get - fetch a listing inside a transaction
func (b *Book) Get(trx storage.Transaction, key Key) (*Listing, error) {
	return b.decode(key, trx.Get(b.listings, key.Bytes()))
}

// Upsert - insert or overwrite a listing
//
// a change of seller moves the key between owner index entries
func (b *Book) Upsert(trx storage.Transaction, l *Listing) error {
	k := l.Key.Bytes()

	previous := trx.Get(b.listings, k)
	if nil != previous {
		old, err := Unpack(l.Key, previous)
		if nil != err {
			return err
		}
		if old.Seller != l.Seller {
			err = b.removeFromIndex(trx, b.owners, old.Seller, l.Key)
			if nil != err {
				return err
			}
		}
	}

	err := b.addToIndex(trx, b.owners, l.Seller, l.Key)
	if nil != err {
		return err
	}
	err = b.addToIndex(trx, b.registries, l.Key.Registry, l.Key)
	if nil != err {
		return err
	}

	trx.Put(b.listings, k, l.Pack())
	b.log.Debugf("upsert: %s  seller: %s", l.Key, l.Seller)
	return nil
}

// Remove - delete a listing and its index entries
//
// fails with ListingNotFound, the caller must then abort
func (b *Book) Remove(trx storage.Transaction, key Key) (*Listing, error) {
	l, err := b.Get(trx, key)
	if nil != err {
		return nil, err
	}

	err = b.removeFromIndex(trx, b.owners, l.Seller, key)
	if nil != err {
		return nil, err
	}
	err = b.removeFromIndex(trx, b.registries, key.Registry, key)
	if nil != err {
		return nil, err
	}

	trx.Delete(b.listings, key.Bytes())
	b.log.Debugf("remove: %s  seller: %s", key, l.Seller)
	return l, nil
}

// OwnedCount - number of listings held by seller inside a transaction
func (b *Book) OwnedCount(trx storage.Transaction, seller account.Name) (uint64, error) {
	set, err := UnpackKeySet(trx.Get(b.owners, seller.Bytes()))
	if nil != err {
		return 0, err
	}
	return uint64(len(set)), nil
}

func (b *Book) addToIndex(trx storage.Transaction, index storage.Handle, name account.Name, key Key) error {
	set, err := UnpackKeySet(trx.Get(index, name.Bytes()))
	if nil != err {
		return err
	}
	if set.Contains(key) {
		return nil
	}
	trx.Put(index, name.Bytes(), set.Add(key).Pack())
	return nil
}

func (b *Book) removeFromIndex(trx storage.Transaction, index storage.Handle, name account.Name, key Key) error {
	set, err := UnpackKeySet(trx.Get(index, name.Bytes()))
	if nil != err {
		return err
	}
	if !set.Contains(key) {
		b.log.Warnf("index for: %s is missing: %s", name, key)
		return nil
	}
	set = set.Remove(key)
	if 0 == len(set) {
		trx.Delete(index, name.Bytes())
	} else {
		trx.Put(index, name.Bytes(), set.Pack())
	}
	return nil
}

func (b *Book) decode(key Key, buffer []byte) (*Listing, error) {
	if nil == buffer {
		return nil, fault.ListingNotFound
	}
	return Unpack(key, buffer)
}
