// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - named accounts of the host environment
//
// a name is lower case alphanumeric parts separated by single '.',
// '-' or '_' characters, e.g. "alice.near", "nft-registry_1.testnet"
package account

import (
	"github.com/bitmark-inc/marketd/fault"
)

// length limits
const (
	MinimumLength = 2
	MaximumLength = 64
)

// Name - an account identity, also used for asset registries
type Name string

// New - validate and convert a string
func New(s string) (Name, error) {
	if !Valid(s) {
		return "", fault.InvalidAccount
	}
	return Name(s), nil
}

// Valid - check the account name rules
func Valid(s string) bool {
	if len(s) < MinimumLength || len(s) > MaximumLength {
		return false
	}

	separator := true // no leading separator
	for i := 0; i < len(s); i += 1 {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			separator = false
		case '.' == c, '-' == c, '_' == c:
			if separator {
				return false
			}
			separator = true
		default:
			return false
		}
	}
	return !separator // no trailing separator
}

// String - as string
func (name Name) String() string {
	return string(name)
}

// Bytes - as bytes, for use as a storage key
func (name Name) Bytes() []byte {
	return []byte(name)
}

// IsZero - true for the empty name
func (name Name) IsZero() bool {
	return "" == name
}
