// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/fault"
	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/rpc"
	"github.com/bitmark-inc/marketd/rpc/listeners"
)

func TestMain(m *testing.M) {
	fixtures.Main(m)
}

func TestInitialiseFinalise(t *testing.T) {
	m, err := market.New(fixtures.OpenTestStore(t), market.Configuration{
		Owner: fixtures.Owner,
	}, func() uint64 { return 0 })
	assert.Nil(t, err, "market")

	assert.Equal(t, fault.NotInitialised, rpc.Finalise(), "finalise before start")

	configuration := listeners.RPCConfiguration{
		MaximumConnections: 2,
		Listen:             []string{"127.0.0.1:0"},
	}
	err = rpc.Initialise(&configuration, "test", m)
	assert.Nil(t, err, "initialise")

	err = rpc.Initialise(&configuration, "test", m)
	assert.Equal(t, fault.AlreadyInitialised, err, "second initialise")

	assert.Equal(t, uint64(0), rpc.Connections(), "wrong connection count")
	assert.Nil(t, rpc.Finalise(), "finalise")

	configuration.MaximumConnections = 0
	err = rpc.Initialise(&configuration, "test", m)
	assert.Equal(t, fault.MissingParameters, err, "bad configuration")
}
