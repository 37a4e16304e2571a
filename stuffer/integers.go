/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stuffer

import (
	"encoding/binary"

	liberr "github.com/nabbar/gotls/errors"
)

// All integer accessors use network byte order.

func (s *Stuffer) ReadUint8() (uint8, liberr.Error) {
	var b [1]byte
	if err := s.ReadBytes(b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

func (s *Stuffer) ReadUint16() (uint16, liberr.Error) {
	var b [2]byte
	if err := s.ReadBytes(b[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b[:]), nil
}

func (s *Stuffer) ReadUint24() (uint32, liberr.Error) {
	var b [3]byte
	if err := s.ReadBytes(b[:]); err != nil {
		return 0, err
	}

	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (s *Stuffer) ReadUint32() (uint32, liberr.Error) {
	var b [4]byte
	if err := s.ReadBytes(b[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b[:]), nil
}

func (s *Stuffer) ReadUint64() (uint64, liberr.Error) {
	var b [8]byte
	if err := s.ReadBytes(b[:]); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b[:]), nil
}

func (s *Stuffer) WriteUint8(v uint8) liberr.Error {
	return s.WriteBytes([]byte{v})
}

func (s *Stuffer) WriteUint16(v uint16) liberr.Error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)

	return s.WriteBytes(b[:])
}

func (s *Stuffer) WriteUint24(v uint32) liberr.Error {
	if v > 0xFFFFFF {
		return ErrorOutOfBound.Error(nil)
	}

	return s.WriteBytes([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

func (s *Stuffer) WriteUint32(v uint32) liberr.Error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)

	return s.WriteBytes(b[:])
}

func (s *Stuffer) WriteUint64(v uint64) liberr.Error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)

	return s.WriteBytes(b[:])
}
