// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/fault"
)

type section struct {
	Owner  string   `gluamapper:"owner"`
	Cut    int      `gluamapper:"owner_cut_bps"`
	Listen []string `gluamapper:"listen"`
}

type sample struct {
	DataDirectory string  `gluamapper:"data_directory"`
	Market        section `gluamapper:"market"`
}

const chunk = `
local M = {}
M.data_directory = "/var/lib/marketd"
M.market = {
    owner = "market.near",
    owner_cut_bps = 250,
    listen = { "127.0.0.1:2130", "[::1]:2130" },
}
return M
`

func TestParseConfigurationString(t *testing.T) {
	var s sample
	err := configuration.ParseConfigurationString(chunk, &s)
	assert.Nil(t, err, "parse")
	assert.Equal(t, "/var/lib/marketd", s.DataDirectory, "wrong data directory")
	assert.Equal(t, "market.near", s.Market.Owner, "wrong owner")
	assert.Equal(t, 250, s.Market.Cut, "wrong cut")
	assert.Equal(t, []string{"127.0.0.1:2130", "[::1]:2130"}, s.Market.Listen, "wrong listen")
}

func TestParseConfigurationNotTable(t *testing.T) {
	var s sample
	err := configuration.ParseConfigurationString(`return 42`, &s)
	assert.Equal(t, fault.InvalidConfiguration, err, "wrong error")

	err = configuration.ParseConfigurationString(`return {`, &s)
	assert.NotNil(t, err, "syntax error accepted")
}

func TestParseConfigurationFile(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "test.conf")

	// arg[0] makes paths relative to the file possible
	content := `return { data_directory = arg[0]:match("(.*)/") }`
	err := os.WriteFile(fileName, []byte(content), 0600)
	assert.Nil(t, err, "write")

	var s sample
	err = configuration.ParseConfigurationFile(fileName, &s)
	assert.Nil(t, err, "parse")
	assert.Equal(t, dir, s.DataDirectory, "wrong directory")

	err = configuration.ParseConfigurationFile(filepath.Join(dir, "missing.conf"), &s)
	assert.NotNil(t, err, "missing file accepted")
}
