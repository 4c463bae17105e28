// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - bounded queues carrying commands between
// background processes
//
// a queue is owned by whoever creates it and passed to the processes
// that send or receive on it
package messagebus
