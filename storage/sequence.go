// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/bitmark-inc/logger"
)

// NextSequence - allocate the next id of a named sequence
//
// ids start at 1 and are only consumed if the transaction commits
func NextSequence(trx Transaction, sequences Handle, name string) uint64 {
	key := []byte(name)
	n := uint64(0)
	if buffer := trx.Get(sequences, key); nil != buffer {
		if 8 != len(buffer) {
			logger.Panicf("sequence: %q has corrupt record: %x", name, buffer)
		}
		n = binary.BigEndian.Uint64(buffer)
	}
	n += 1

	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, n)
	trx.Put(sequences, key, next)
	return n
}

// IdBytes - an id as an order preserving key
func IdBytes(id uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, id)
	return buffer
}

// IdFromBytes - inverse of IdBytes, false if not an id key
func IdFromBytes(buffer []byte) (uint64, bool) {
	if 8 != len(buffer) {
		return 0, false
	}
	return binary.BigEndian.Uint64(buffer), true
}
