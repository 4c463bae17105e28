// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/amount"
	"github.com/bitmark-inc/marketd/configuration"
	"github.com/bitmark-inc/marketd/market"
	"github.com/bitmark-inc/marketd/registry"
	"github.com/bitmark-inc/marketd/rpc/listeners"
	"github.com/bitmark-inc/marketd/settlement"
	"github.com/bitmark-inc/marketd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory = "data"
	defaultMarketDatabase   = "market.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "marketd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients     = 10
	defaultRequestTimeout = 30 // seconds
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - location of the leveldb database
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// MarketType - marketplace parameters, storage_per_listing is a
// decimal string in minor units since Lua numbers cannot hold it
type MarketType struct {
	Owner             string `gluamapper:"owner" json:"owner"`
	OwnerCut          uint16 `gluamapper:"owner_cut_bps" json:"owner_cut_bps"`
	StoragePerListing string `gluamapper:"storage_per_listing" json:"storage_per_listing"`
}

// SettlementType - settlement request parameters
type SettlementType struct {
	MaximumPayees  uint32 `gluamapper:"max_payees" json:"max_payees"`
	RequestTimeout int    `gluamapper:"request_timeout" json:"request_timeout"`
	QueueSize      int    `gluamapper:"queue_size" json:"queue_size"`
}

// Configuration - the whole configuration file
type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	Market     MarketType             `gluamapper:"market" json:"market"`
	Settlement SettlementType         `gluamapper:"settlement" json:"settlement"`
	Registry   registry.Configuration `gluamapper:"registry" json:"registry"`

	ClientRPC listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Logging   logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultMarketDatabase,
		},

		Market: MarketType{
			StoragePerListing: market.DefaultStoragePerListing.String(),
		},

		Settlement: SettlementType{
			MaximumPayees:  settlement.DefaultMaximumPayees,
			RequestTimeout: defaultRequestTimeout,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if !util.IsDirectory(options.DataDirectory) {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.ClientRPC.Certificate,
		&options.ClientRPC.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// check the market section can be converted
	if _, err := options.marketConfiguration(); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// convert the market and settlement sections
func (options *Configuration) marketConfiguration() (market.Configuration, error) {
	owner, err := account.New(options.Market.Owner)
	if nil != err {
		return market.Configuration{}, fmt.Errorf("market owner: %q  error: %s", options.Market.Owner, err)
	}

	cut := amount.BasisPoints(options.Market.OwnerCut)
	if err := cut.Validate(); nil != err {
		return market.Configuration{}, fmt.Errorf("market owner_cut_bps: %d  error: %s", options.Market.OwnerCut, err)
	}

	quota, err := amount.FromString(options.Market.StoragePerListing)
	if nil != err {
		return market.Configuration{}, fmt.Errorf("market storage_per_listing: %q  error: %s", options.Market.StoragePerListing, err)
	}

	if options.Settlement.RequestTimeout <= 0 {
		return market.Configuration{}, fmt.Errorf("settlement request_timeout: %d must be positive", options.Settlement.RequestTimeout)
	}

	return market.Configuration{
		Owner:             owner,
		OwnerCut:          cut,
		StoragePerListing: quota,
		MaximumPayees:     options.Settlement.MaximumPayees,
		RequestTimeout:    time.Duration(options.Settlement.RequestTimeout) * time.Second,
		QueueSize:         options.Settlement.QueueSize,
	}, nil
}
