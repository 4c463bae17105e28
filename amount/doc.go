// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package amount - unsigned 128 bit monetary values in minor units
//
// values are held in a 256 bit integer so that intermediate products,
// such as price x basis points, never overflow; every value stored or
// returned is constrained to 128 bits
package amount
