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

package blob

import (
	liberr "github.com/nabbar/gotls/errors"
)

// MaxSize bounds any single blob allocation.
const MaxSize = 1 << 26

// Blob is a contiguous byte region. A growable blob owns its storage, a
// borrowed one is a view over caller memory.
type Blob struct {
	data     []byte
	growable bool
}

// Len returns the number of valid bytes.
func (b *Blob) Len() int {
	if b == nil {
		return 0
	}

	return len(b.data)
}

// Cap returns the backing storage size.
func (b *Blob) Cap() int {
	if b == nil {
		return 0
	}

	return cap(b.data)
}

// Growable reports whether the blob owns growable storage.
func (b *Blob) Growable() bool {
	return b != nil && b.growable
}

// Bytes returns the valid byte range. The slice aliases the blob storage.
func (b *Blob) Bytes() []byte {
	if b == nil {
		return nil
	}

	return b.data
}

// Slice returns a borrowed view over bytes [off, off+n).
func (b *Blob) Slice(off, n int) (*Blob, liberr.Error) {
	if b == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if off < 0 || n < 0 || off+n > len(b.data) {
		return nil, ErrorOutOfBound.Error(nil)
	}

	return FromBytes(b.data[off : off+n]), nil
}

// Grow ensures the blob holds at least size valid bytes, reallocating as
// needed. Previous content is preserved, the freed region is zeroized.
func (b *Blob) Grow(size int) liberr.Error {
	if b == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	if size < 0 || size > MaxSize {
		return ErrorOverflow.Error(nil)
	}

	if size <= len(b.data) {
		return nil
	}

	if !b.growable && b.data != nil {
		return ErrorNotGrowable.Error(nil)
	}

	if size <= cap(b.data) {
		b.data = b.data[:size]
		return nil
	}

	n := make([]byte, size)
	copy(n, b.data)
	WipeBytes(b.data)
	b.data = n
	b.growable = true

	return nil
}

// Wipe zeroizes the valid byte range without releasing storage.
func (b *Blob) Wipe() {
	if b == nil {
		return
	}

	WipeBytes(b.data)
}

// Free zeroizes owned storage and detaches it. Borrowed views are only
// detached.
func (b *Blob) Free() {
	if b == nil {
		return
	}

	if b.growable {
		WipeBytes(b.data[:cap(b.data)])
	}

	b.data = nil
	b.growable = false
}

// Equal compares two blobs in constant time.
func (b *Blob) Equal(o *Blob) bool {
	return Eq(b.Bytes(), o.Bytes())
}
