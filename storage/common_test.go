// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/storage"
)

const (
	testingDirName = "testing"
)

// remove all files created by test
func removeFiles() {
	os.RemoveAll(testingDirName)
}

func setupTestLogger() {
	removeFiles()
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
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

func teardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func TestMain(m *testing.M) {
	setupTestLogger()
	rc := m.Run()
	teardownTestLogger()
	os.Exit(rc)
}

func openTestStore(t *testing.T) *storage.Store {
	s, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	t.Cleanup(s.Close)
	return s
}

// a string data item
type stringElement struct {
	key   string
	value string
}

// write all the elements in a single transaction
func putElements(t *testing.T, s *storage.Store, pool storage.Handle, elements []stringElement) {
	trx, err := s.Begin()
	if nil != err {
		t.Fatalf("begin error: %s", err)
	}
	for _, e := range elements {
		trx.Put(pool, []byte(e.key), []byte(e.value))
	}
	err = trx.Commit()
	if nil != err {
		t.Fatalf("commit error: %s", err)
	}
}
