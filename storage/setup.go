// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/marketd/fault"
)

// Pools - the tables of the marketplace database
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Listings        Handle `prefix:"listings"`
	StorageBalances Handle `prefix:"storage-balances"`
	OwnerIndex      Handle `prefix:"owner-index"`
	RegistryIndex   Handle `prefix:"registry-index"`
	Settlements     Handle `prefix:"settlements"`
	Payouts         Handle `prefix:"payouts"`
	Sequences       Handle `prefix:"sequences"`
}

// PrefixLength - number of bytes prepended to every key
const PrefixLength = 4

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Store - an open marketplace database
type Store struct {
	Pool Pools

	log *logger.L
	db  *leveldb.DB

	// held for the whole life of a transaction
	trx sync.Mutex

	// protects db against Close
	sync.RWMutex
}

// Open - open up the database file
//
// a missing database is created unless readOnly is set
func Open(fileName string, readOnly bool) (*Store, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(fileName, opt)
	if nil != err {
		return nil, err
	}
	return setup(db, readOnly)
}

// OpenMemory - a volatile database used by tests and dry runs
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return setup(db, ReadWrite)
}

func setup(db *leveldb.DB, readOnly bool) (*Store, error) {
	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	version, err := getVersion(db)
	if nil != err {
		return nil, err
	}

	log := logger.New("storage")

	// ensure no database downgrade
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fault.DatabaseVersion
	}

	if 0 == version {
		if readOnly {
			log.Critical("read only database has no version")
			return nil, fault.DatabaseVersion
		}
		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			return nil, err
		}
	} else if version < currentDBVersion {
		log.Criticalf("database version: %d < current version: %d", version, currentDBVersion)
		return nil, fault.DatabaseVersion
	}

	s := &Store{
		log: log,
		db:  db,
	}

	err = s.bindPools()
	if nil != err {
		return nil, err
	}

	ok = true // prevent db close
	return s, nil
}

// fill in every pool from its prefix tag
func (s *Store) bindPools() error {

	// this will be a struct type
	poolType := reflect.TypeOf(s.Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&s.Pool).Elem()

	seen := make(map[string]string)

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if "" == prefixTag {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := tablePrefix(prefixTag)
		if bytes.HasPrefix(versionKey, prefix) {
			return fault.DuplicatePoolPrefix
		}
		if other, ok := seen[string(prefix)]; ok {
			s.log.Criticalf("pool: %s and %s share prefix: %x", other, fieldInfo.Name, prefix)
			return fault.DuplicatePoolPrefix
		}
		seen[string(prefix)] = fieldInfo.Name

		p := &PoolHandle{
			prefix: prefix,
			limit:  ldb_util.BytesPrefix(prefix).Limit,
			store:  s,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// leading bytes of the digest of the tag
func tablePrefix(tag string) []byte {
	digest := sha3.Sum256([]byte(tag))
	prefix := make([]byte, PrefixLength)
	copy(prefix, digest[:PrefixLength])
	return prefix
}

// Close - close the database connection
//
// waits for any open transaction to finish
func (s *Store) Close() {
	s.trx.Lock()
	defer s.trx.Unlock()

	s.Lock()
	defer s.Unlock()

	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

// Begin - start a transaction, blocking while another is open
func (s *Store) Begin() (Transaction, error) {
	s.trx.Lock()

	s.RLock()
	open := nil != s.db
	s.RUnlock()

	if !open {
		s.trx.Unlock()
		return nil, fault.DatabaseIsNotSet
	}

	return newTransaction(s), nil
}

// return the stored version number, zero if no version
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
