// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package amount

import (
	"strconv"

	"github.com/holiman/uint256"

	"github.com/bitmark-inc/marketd/fault"
)

// Size - packed size of an amount in bytes
const Size = 16

const maximumBits = 8 * Size

// Amount - value in minor units
type Amount struct {
	v uint256.Int
}

// Zero - the zero amount
var Zero = Amount{}

// Maximum - largest representable amount: 2^128 - 1
var Maximum = func() Amount {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), maximumBits)
	m.Sub(m, uint256.NewInt(1))
	return Amount{v: *m}
}()

// FromUint64 - convert a 64 bit value
func FromUint64(n uint64) Amount {
	return Amount{v: *uint256.NewInt(n)}
}

// FromString - parse a decimal string
func FromString(s string) (Amount, error) {
	if "" == s {
		return Zero, fault.InvalidNumber
	}
	v, err := uint256.FromDecimal(s)
	if nil != err {
		return Zero, fault.InvalidNumber
	}
	return fromInt(v)
}

// FromBytes - unpack a big endian value of exactly Size bytes
func FromBytes(buffer []byte) (Amount, error) {
	if Size != len(buffer) {
		return Zero, fault.InvalidNumber
	}
	var a Amount
	a.v.SetBytes(buffer)
	return a, nil
}

func fromInt(v *uint256.Int) (Amount, error) {
	if v.BitLen() > maximumBits {
		return Zero, fault.AmountOverflow
	}
	return Amount{v: *v}, nil
}

// Bytes - pack as Size big endian bytes
func (a Amount) Bytes() []byte {
	b := a.v.Bytes32()
	result := make([]byte, Size)
	copy(result, b[32-Size:])
	return result
}

// String - decimal representation
func (a Amount) String() string {
	return a.v.Dec()
}

// IsZero - true if no value
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp - compare: -1 if a < b, 0 if equal, +1 if a > b
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Less - true if a < b
func (a Amount) Less(b Amount) bool {
	return a.v.Lt(&b.v)
}

// Add - checked addition
func (a Amount) Add(b Amount) (Amount, error) {
	var sum uint256.Int
	sum.Add(&a.v, &b.v)
	return fromInt(&sum)
}

// Sub - checked subtraction
func (a Amount) Sub(b Amount) (Amount, error) {
	if a.v.Lt(&b.v) {
		return Zero, fault.AmountOverflow
	}
	var difference uint256.Int
	difference.Sub(&a.v, &b.v)
	return Amount{v: difference}, nil
}

// MulUint64 - checked multiplication by a count
func (a Amount) MulUint64(n uint64) (Amount, error) {
	var product uint256.Int
	product.Mul(&a.v, uint256.NewInt(n))
	return fromInt(&product)
}

// SaturatingAdd - addition clamped at Maximum
func (a Amount) SaturatingAdd(b Amount) Amount {
	sum, err := a.Add(b)
	if nil != err {
		return Maximum
	}
	return sum
}

// SaturatingSub - subtraction clamped at zero
func (a Amount) SaturatingSub(b Amount) Amount {
	difference, err := a.Sub(b)
	if nil != err {
		return Zero
	}
	return difference
}

// SaturatingMulUint64 - multiplication clamped at Maximum
func (a Amount) SaturatingMulUint64(n uint64) Amount {
	product, err := a.MulUint64(n)
	if nil != err {
		return Maximum
	}
	return product
}

// MarshalText - decimal string, as JSON numbers cannot carry 128 bits
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - parse decimal string
func (a *Amount) UnmarshalText(s []byte) error {
	v, err := FromString(string(s))
	if nil != err {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON - quoted decimal string
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON - accept quoted decimal string or a bare integer
func (a *Amount) UnmarshalJSON(s []byte) error {
	if len(s) >= 2 && '"' == s[0] && '"' == s[len(s)-1] {
		s = s[1 : len(s)-1]
	}
	return a.UnmarshalText(s)
}
