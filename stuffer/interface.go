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

// Package stuffer provides the byte stuffer every layer of the TLS core
// reads from and writes to.
//
// A stuffer is a blob with a read cursor and a write cursor
// (0 <= r <= w <= len). Reads consume between r and w, writes append at w.
// Length-prefixed vectors are emitted in one pass through reservations:
// reserve the size field, write the vector, then patch the size from the
// distance the write cursor travelled.
//
// Handing out a raw pointer into the stuffer taints it: a tainted stuffer
// refuses to grow, so borrowed slices never dangle after a reallocation.
package stuffer

import (
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
)

const (
	// minGrowth is the smallest backing allocation of a growable stuffer.
	minGrowth = 1024
)

// New returns a growable stuffer with at least size bytes of storage.
func New(size int) (*Stuffer, liberr.Error) {
	if size < 0 {
		return nil, ErrorOutOfBound.Error(nil)
	}

	b, err := libblb.New(size)
	if err != nil {
		return nil, err
	}

	return &Stuffer{
		blob:     b,
		growable: true,
	}, nil
}

// NewFixed returns a non-growable stuffer with exactly size bytes of storage.
func NewFixed(size int) (*Stuffer, liberr.Error) {
	s, err := New(size)
	if err != nil {
		return nil, err
	}

	s.growable = false

	return s, nil
}

// FromBlob wraps a blob as a stuffer. The stuffer is growable only when the
// blob is.
func FromBlob(b *libblb.Blob) (*Stuffer, liberr.Error) {
	if b == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	return &Stuffer{
		blob:     b,
		growable: b.Growable(),
	}, nil
}

// FromBytes wraps caller memory as a readable stuffer: the write cursor is
// placed at the end so the full content is available for reading.
func FromBytes(data []byte) *Stuffer {
	return &Stuffer{
		blob:     libblb.FromBytes(data),
		w:        len(data),
		hw:       len(data),
		growable: false,
	}
}
