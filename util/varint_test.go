// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/util"
)

var varint64Tests = []struct {
	value  uint64
	buffer []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{300, []byte{0xac, 0x02}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x00ffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
	{0x0100000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
}

func TestToVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		assert.Equal(t, item.buffer, util.ToVarint64(item.value), "%d: value: %d", i, item.value)
	}
}

func TestFromVarint64(t *testing.T) {
	for i, item := range varint64Tests {
		value, count := util.FromVarint64(item.buffer)
		assert.Equal(t, item.value, value, "%d: value", i)
		assert.Equal(t, len(item.buffer), count, "%d: count", i)

		// trailing data is not consumed
		value, count = util.FromVarint64(append(append([]byte{}, item.buffer...), 0x55))
		assert.Equal(t, item.value, value, "%d: trailing value", i)
		assert.Equal(t, len(item.buffer), count, "%d: trailing count", i)
	}
}

func TestFromVarint64Truncated(t *testing.T) {
	truncated := [][]byte{
		{},
		{0x80},
		{0xff, 0xff},
		{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80},
	}
	for i, buffer := range truncated {
		value, count := util.FromVarint64(buffer)
		assert.Equal(t, uint64(0), value, "%d: value", i)
		assert.Equal(t, 0, count, "%d: count", i)
	}
}
