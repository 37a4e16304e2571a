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

// badNibble marks a byte that is not a hexadecimal digit.
const badNibble = 255

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}

	return badNibble
}

// ReadUint8Hex consumes two hexadecimal characters and returns the byte
// they encode.
func (s *Stuffer) ReadUint8Hex() (uint8, liberr.Error) {
	var b [2]byte
	if err := s.ReadBytes(b[:]); err != nil {
		return 0, err
	}

	hi := hexNibble(b[0])
	lo := hexNibble(b[1])

	if hi == badNibble || lo == badNibble {
		return 0, ErrorBadHex.Error(nil)
	}

	return hi<<4 | lo, nil
}

// HexToBytes decodes a full hexadecimal string into a fresh byte slice.
func HexToBytes(in string) ([]byte, liberr.Error) {
	if len(in)%2 != 0 {
		return nil, ErrorBadHex.Error(nil)
	}

	s := FromBytes([]byte(in))
	out := make([]byte, 0, len(in)/2)

	for s.Avail() > 0 {
		c, err := s.ReadUint8Hex()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, nil
}
