// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package amount

import (
	"github.com/holiman/uint256"

	"github.com/bitmark-inc/marketd/fault"
)

// MaximumBasisPoints - basis points representing 100%
const MaximumBasisPoints = 10000

// BasisPoints - a fraction in units of 1/10000
type BasisPoints uint16

// Validate - ensure no more than 100%
func (bps BasisPoints) Validate() error {
	if bps > MaximumBasisPoints {
		return fault.InvalidBasisPoints
	}
	return nil
}

// Split - divide a price into the platform cut and the remainder
//
//   cut    = floor(price x bps / 10000)
//   remain = price - cut
//
// the product is formed in 256 bits so it is exact for every 128 bit
// price; out of range basis points saturate so cut never exceeds price
func Split(price Amount, bps BasisPoints) (cut Amount, remain Amount) {
	var product uint256.Int
	product.Mul(&price.v, uint256.NewInt(uint64(bps)))
	product.Div(&product, uint256.NewInt(MaximumBasisPoints))

	cut, err := fromInt(&product)
	if nil != err || price.Less(cut) {
		cut = price
	}
	return cut, price.SaturatingSub(cut)
}
