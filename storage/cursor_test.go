// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/storage"
)

var cursorElements = []stringElement{
	{"key-one", "data-one"},
	{"key-two", "data-two"},
	{"key-three", "data-three"},
	{"key-four", "data-four"},
	{"key-five", "data-five"},
}

// this is the expected order
var expectedKeys = []string{
	"key-five",
	"key-four",
	"key-one",
	"key-three",
	"key-two",
}

func keysOf(elements []storage.Element) []string {
	keys := make([]string, 0, len(elements))
	for _, e := range elements {
		keys = append(keys, string(e.Key))
	}
	return keys
}

func TestFetchCursor(t *testing.T) {
	s := openTestStore(t)
	putElements(t, s, s.Pool.Listings, cursorElements)

	// neighbouring pool must not leak into the range
	putElements(t, s, s.Pool.OwnerIndex, []stringElement{{"key-zero", "x"}})

	cursor := s.Pool.Listings.NewFetchCursor()

	first, err := cursor.Fetch(2)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, expectedKeys[:2], keysOf(first))
	assert.Equal(t, []byte("data-five"), first[0].Value)

	rest, err := cursor.Fetch(10)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, expectedKeys[2:], keysOf(rest))

	empty, err := cursor.Fetch(10)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, 0, len(empty))
}

func TestFetchCursorSeek(t *testing.T) {
	s := openTestStore(t)
	putElements(t, s, s.Pool.Listings, cursorElements)

	elements, err := s.Pool.Listings.NewFetchCursor().Seek([]byte("key-o")).Fetch(10)
	assert.Nil(t, err, "fetch")
	assert.Equal(t, expectedKeys[2:], keysOf(elements))
}

func TestFetchCursorInvalid(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Pool.Listings.NewFetchCursor().Fetch(0)
	assert.Equal(t, fault.InvalidCount, err)

	var cursor *storage.FetchCursor
	_, err = cursor.Fetch(1)
	assert.Equal(t, fault.InvalidCursor, err)
}

func TestFetchCursorMap(t *testing.T) {
	s := openTestStore(t)
	putElements(t, s, s.Pool.Listings, cursorElements)

	keys := []string{}
	err := s.Pool.Listings.NewFetchCursor().Map(func(key []byte, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	assert.Nil(t, err, "map")
	assert.Equal(t, expectedKeys, keys)

	stop := errors.New("stop")
	count := 0
	err = s.Pool.Listings.NewFetchCursor().Map(func(key []byte, value []byte) error {
		count += 1
		if 2 == count {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, count)
}
