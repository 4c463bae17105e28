// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"strings"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
)

// Delimiter - separates registry from asset id in a listing key
//
// asset ids may not contain it, so splitting at its last occurrence
// recovers both parts even though registry names may contain it
const Delimiter = "."

// MaximumAssetIdLength - longest accepted asset id in bytes
const MaximumAssetIdLength = 256

// Key - identifies a listing
type Key struct {
	Registry account.Name
	Asset    string
}

// MakeKey - validate the parts of a key
func MakeKey(registry account.Name, asset string) (Key, error) {
	if !account.Valid(registry.String()) {
		return Key{}, fault.InvalidAccount
	}
	if !ValidAssetId(asset) {
		return Key{}, fault.InvalidAssetId
	}
	return Key{
		Registry: registry,
		Asset:    asset,
	}, nil
}

// ParseKey - split "registry.asset" back into a key
func ParseKey(s string) (Key, error) {
	n := strings.LastIndex(s, Delimiter)
	if n <= 0 {
		return Key{}, fault.InvalidListingKey
	}
	key, err := MakeKey(account.Name(s[:n]), s[n+len(Delimiter):])
	if nil != err {
		return Key{}, fault.InvalidListingKey
	}
	return key, nil
}

// ValidAssetId - non-empty printable text without the delimiter
func ValidAssetId(asset string) bool {
	if "" == asset || len(asset) > MaximumAssetIdLength {
		return false
	}
	if strings.Contains(asset, Delimiter) {
		return false
	}
	for i := 0; i < len(asset); i += 1 {
		if c := asset[i]; c <= ' ' || c == 0x7f {
			return false
		}
	}
	return true
}

// String - the composite form "registry.asset"
func (key Key) String() string {
	return key.Registry.String() + Delimiter + key.Asset
}

// Bytes - composite form for use as a storage key
func (key Key) Bytes() []byte {
	return []byte(key.String())
}
