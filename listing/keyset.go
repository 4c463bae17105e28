// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"sort"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/util"
)

// KeySet - sorted unique listing keys, the value of an index entry
type KeySet []string

// Contains - check membership
func (set KeySet) Contains(key Key) bool {
	s := key.String()
	n := sort.SearchStrings(set, s)
	return n < len(set) && set[n] == s
}

// Add - insert a key keeping the set sorted
func (set KeySet) Add(key Key) KeySet {
	s := key.String()
	n := sort.SearchStrings(set, s)
	if n < len(set) && set[n] == s {
		return set
	}
	set = append(set, "")
	copy(set[n+1:], set[n:])
	set[n] = s
	return set
}

// Remove - delete a key if present
func (set KeySet) Remove(key Key) KeySet {
	s := key.String()
	n := sort.SearchStrings(set, s)
	if n >= len(set) || set[n] != s {
		return set
	}
	return append(set[:n], set[n+1:]...)
}

// Keys - parse every member
func (set KeySet) Keys() ([]Key, error) {
	keys := make([]Key, 0, len(set))
	for _, s := range set {
		key, err := ParseKey(s)
		if nil != err {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Pack - tag ++ count ++ [length ++ key]
func (set KeySet) Pack() []byte {
	p := util.NewPacker(keySetTag).Uint64(uint64(len(set)))
	for _, s := range set {
		p.String(s)
	}
	return p.Packed()
}

// maximum length of a packed composite key
const maximumKeyLength = account.MaximumLength + len(Delimiter) + MaximumAssetIdLength

// UnpackKeySet - decode, nil buffer is the empty set
func UnpackKeySet(buffer []byte) (KeySet, error) {
	if nil == buffer {
		return KeySet{}, nil
	}

	u := util.NewUnpacker(buffer, keySetTag, fault.NotKeySetPack)
	count := u.Uint64()

	// every member takes at least two bytes
	if count > uint64(len(buffer)) {
		return nil, fault.NotKeySetPack
	}

	set := make(KeySet, 0, count)
	for i := uint64(0); i < count; i += 1 {
		set = append(set, u.String(maximumKeyLength))
	}
	err := u.Done()
	if nil != err {
		return nil, err
	}
	if !sort.StringsAreSorted(set) {
		return nil, fault.NotKeySetPack
	}
	return set, nil
}
