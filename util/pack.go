// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// Packer - build a record of Varint64 tag followed by fields
//
// variable length fields are preceded by their Varint64 length
type Packer struct {
	buffer []byte
}

// NewPacker - start a record with its tag
func NewPacker(tag uint64) *Packer {
	return &Packer{
		buffer: ToVarint64(tag),
	}
}

// Uint64 - append a Varint64
func (p *Packer) Uint64(value uint64) *Packer {
	p.buffer = append(p.buffer, ToVarint64(value)...)
	return p
}

// Bool - append a single 0/1 byte
func (p *Packer) Bool(flag bool) *Packer {
	b := byte(0)
	if flag {
		b = 1
	}
	p.buffer = append(p.buffer, b)
	return p
}

// Fixed - append bytes without a length
func (p *Packer) Fixed(data []byte) *Packer {
	p.buffer = append(p.buffer, data...)
	return p
}

// Bytes - append length then bytes
func (p *Packer) Bytes(data []byte) *Packer {
	p.buffer = append(p.buffer, ToVarint64(uint64(len(data)))...)
	p.buffer = append(p.buffer, data...)
	return p
}

// String - append length then string bytes
func (p *Packer) String(s string) *Packer {
	return p.Bytes([]byte(s))
}

// Packed - the completed record
func (p *Packer) Packed() []byte {
	return p.buffer
}

// Unpacker - read fields in the order they were packed
//
// the first failure is retained and all later reads return zero
// values, so a sequence of reads needs only one final check
type Unpacker struct {
	buffer []byte
	n      int
	fail   error
	err    error
}

// NewUnpacker - read a record, expecting the given tag
//
// fail is the error to report for any malformed record
func NewUnpacker(buffer []byte, tag uint64, fail error) *Unpacker {
	u := &Unpacker{
		buffer: buffer,
		fail:   fail,
	}
	if t := u.Uint64(); nil == u.err && tag != t {
		u.err = fail
	}
	return u
}

// Uint64 - read a Varint64
func (u *Unpacker) Uint64() uint64 {
	if nil != u.err {
		return 0
	}
	value, count := FromVarint64(u.buffer[u.n:])
	if 0 == count {
		u.err = u.fail
		return 0
	}
	u.n += count
	return value
}

// Bool - read a 0/1 byte
func (u *Unpacker) Bool() bool {
	b := u.Fixed(1)
	if nil == b {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		u.err = u.fail
		return false
	}
}

// Fixed - read exactly size bytes, the result is a copy
func (u *Unpacker) Fixed(size int) []byte {
	if nil != u.err {
		return nil
	}
	if size < 0 || u.n+size > len(u.buffer) {
		u.err = u.fail
		return nil
	}
	data := make([]byte, size)
	copy(data, u.buffer[u.n:u.n+size])
	u.n += size
	return data
}

// Bytes - read length then bytes, length is limited to maximum
func (u *Unpacker) Bytes(maximum int) []byte {
	length := u.Uint64()
	if nil != u.err {
		return nil
	}
	if length > uint64(maximum) {
		u.err = u.fail
		return nil
	}
	return u.Fixed(int(length))
}

// String - read length then string
func (u *Unpacker) String(maximum int) string {
	return string(u.Bytes(maximum))
}

// Done - the first error, or fail if any bytes remain unread
func (u *Unpacker) Done() error {
	if nil != u.err {
		return u.err
	}
	if u.n != len(u.buffer) {
		return u.fail
	}
	return nil
}
