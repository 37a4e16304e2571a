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

import liberr "github.com/nabbar/gotls/errors"

// Reservation is a placeholder for a length prefix written before the
// length is known. The length is patched by WriteVectorSize from the
// distance the write cursor travelled since the reservation.
type Reservation struct {
	pos   int
	width int
}

func (s *Stuffer) reserve(width int) (Reservation, liberr.Error) {
	res := Reservation{
		pos:   s.w,
		width: width,
	}

	if err := s.SkipWrite(width); err != nil {
		return Reservation{}, err
	}

	return res, nil
}

// ReserveUint16 reserves a 2 byte length prefix at the write cursor.
func (s *Stuffer) ReserveUint16() (Reservation, liberr.Error) {
	return s.reserve(2)
}

// ReserveUint24 reserves a 3 byte length prefix at the write cursor.
func (s *Stuffer) ReserveUint24() (Reservation, liberr.Error) {
	return s.reserve(3)
}

// WriteVectorSize patches the reserved length prefix with the number of
// bytes written since the reservation.
func (s *Stuffer) WriteVectorSize(res Reservation) liberr.Error {
	if res.width != 2 && res.width != 3 {
		return ErrorSafety.Error(nil)
	}

	if res.pos+res.width > s.w {
		return ErrorSafety.Error(nil)
	}

	size := s.w - res.pos - res.width
	max := 1<<(8*res.width) - 1
	if size > max {
		return ErrorOutOfBound.Error(nil)
	}

	b := s.blob.Bytes()
	switch res.width {
	case 2:
		b[res.pos] = byte(size >> 8)
		b[res.pos+1] = byte(size)
	case 3:
		b[res.pos] = byte(size >> 16)
		b[res.pos+1] = byte(size >> 8)
		b[res.pos+2] = byte(size)
	}

	return nil
}

// VectorSize returns the number of bytes written since the reservation.
func (s *Stuffer) VectorSize(res Reservation) int {
	return s.w - res.pos - res.width
}
