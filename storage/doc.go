// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk marketplace store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a four byte prefix that is the leading
// bytes of SHA3-256(tag) where tag comes from the prefix tag in the
// struct defining the available tables.
//
// All writes go through a Transaction: it is obtained from
// Store.Begin, collects updates in a batch and is either committed as
// a single atomic write or aborted leaving the database unchanged.
// Only one transaction may be open at a time, Begin blocks until the
// previous one has finished.
//
// Notes:
// 1. ++          = concatenation of byte data
// 2. listing key = registry ++ "." ++ asset id
// 3. account     = account name bytes
// 4. id          = big endian uint64 (8 bytes)
// 5. amount      = big endian uint128 (16 bytes)
//
// Listings:
//
//   listings ++ listing key        - current listing
//                                    data: packed listing
//
// Storage:
//
//   storage-balances ++ account    - deposited storage balance
//                                    data: amount
//
// Indexes:
//
//   owner-index ++ account         - listings by seller
//                                    data: packed key set
//   registry-index ++ registry     - listings by registry
//                                    data: packed key set
//
// Settlement:
//
//   settlements ++ id              - settlement awaiting resolution
//                                    data: packed settlement
//   payouts ++ id                  - journal of funds released
//                                    data: packed payout record
//   sequences ++ name              - next id for a named sequence
//                                    data: id
package storage
