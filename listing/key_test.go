// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/listing"
)

func TestMain(m *testing.M) {
	fixtures.Main(m)
}

func TestMakeKey(t *testing.T) {
	key, err := listing.MakeKey("nft.near", "token-1")
	assert.Nil(t, err, "valid key")
	assert.Equal(t, "nft.near.token-1", key.String())
	assert.Equal(t, []byte("nft.near.token-1"), key.Bytes())

	_, err = listing.MakeKey("Nft", "token-1")
	assert.Equal(t, fault.InvalidAccount, err, "bad registry")

	for _, asset := range []string{"", "a.b", "has space", "tab\there", strings.Repeat("x", listing.MaximumAssetIdLength+1)} {
		_, err = listing.MakeKey("nft.near", asset)
		assert.Equal(t, fault.InvalidAssetId, err, "asset: %q", asset)
	}
}

func TestParseKey(t *testing.T) {
	valid := []struct {
		s        string
		registry account.Name
		asset    string
	}{
		{"nft.near.token-1", "nft.near", "token-1"},
		{"a.b.c.d.42", "a.b.c.d", "42"},
		{"reg.x", "reg", "x"},
	}
	for i, item := range valid {
		key, err := listing.ParseKey(item.s)
		assert.Nil(t, err, "%d: %s", i, item.s)
		assert.Equal(t, item.registry, key.Registry, "%d: registry", i)
		assert.Equal(t, item.asset, key.Asset, "%d: asset", i)
		assert.Equal(t, item.s, key.String(), "%d: round trip", i)
	}

	for _, s := range []string{"", "noseparator", ".token", "nft.near.", "r.x"} {
		_, err := listing.ParseKey(s)
		assert.Equal(t, fault.InvalidListingKey, err, "key: %q", s)
	}
}

// distinct (registry, asset) pairs never share a composite key
func TestKeysDoNotCollide(t *testing.T) {
	pairs := []struct {
		registry account.Name
		asset    string
	}{
		{"ab.cd", "ef"},
		{"ab", "cd-ef"},
		{"ab.c", "d"},
		{"ab-cd", "ef"},
	}
	seen := make(map[string]bool)
	for _, p := range pairs {
		key, err := listing.MakeKey(p.registry, p.asset)
		assert.Nil(t, err)
		assert.False(t, seen[key.String()], "collision: %s", key)
		seen[key.String()] = true
	}
}
