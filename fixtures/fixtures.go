// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared setup for package tests
package fixtures

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/account"
	"github.com/bitmark-inc/marketd/storage"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// accounts used throughout the tests
const (
	Owner    = account.Name("market.near")
	Registry = account.Name("nft.near")
	Other    = account.Name("art-registry.near")
	Alice    = account.Name("alice.near")
	Bob      = account.Name("bob.near")
	Carol    = account.Name("carol.near")
)

// SetupTestLogger - log only critical messages into a scratch directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the scratch directory
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// Main - run the tests of a package with logging set up
func Main(m *testing.M) {
	SetupTestLogger()
	rc := m.Run()
	TeardownTestLogger()
	os.Exit(rc)
}

// OpenTestStore - an in-memory store closed at the end of the test
func OpenTestStore(t *testing.T) *storage.Store {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	t.Cleanup(s.Close)
	return s
}

// Commit - run f inside a transaction, committing only if it succeeds
func Commit(t *testing.T, s *storage.Store, f func(storage.Transaction) error) error {
	trx, err := s.Begin()
	if nil != err {
		t.Fatalf("begin error: %s", err)
	}
	err = f(trx)
	if nil != err {
		trx.Abort()
		return err
	}
	return trx.Commit()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
