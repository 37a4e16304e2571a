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

// Package blob provides the zeroizing byte region underneath the stuffer and
// the record layer.
//
// A Blob is either allocated (growable, owns its storage) or borrowed (a
// non-growable view over caller memory). Key material always travels in
// blobs so that Wipe and Free can guarantee zeroization on every release
// path.
package blob

import liberr "github.com/nabbar/gotls/errors"

// New allocates a growable blob of the given size.
func New(size int) (*Blob, liberr.Error) {
	b := &Blob{
		growable: true,
	}

	if err := b.Grow(size); err != nil {
		return nil, err
	}

	return b, nil
}

// FromBytes wraps caller memory as a borrowed, non-growable blob. The blob
// does not own the storage: Free does not zeroize it.
func FromBytes(data []byte) *Blob {
	return &Blob{
		data:     data,
		growable: false,
	}
}

// Dup allocates a growable blob holding a copy of data.
func Dup(data []byte) (*Blob, liberr.Error) {
	b, err := New(len(data))
	if err != nil {
		return nil, err
	}

	copy(b.data, data)

	return b, nil
}
