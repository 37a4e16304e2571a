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

import "crypto/subtle"

// WipeBytes zeroizes the given slice.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Eq compares two slices in constant time. Slices of different length
// compare unequal, the length itself is not hidden.
func Eq(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// CondCopy copies src over dst when doit is true, in constant time with
// respect to doit. Both slices must have the same length.
func CondCopy(dst, src []byte, doit bool) {
	v := 0
	if doit {
		v = 1
	}

	subtle.ConstantTimeCopy(v, dst, src)
}
