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

package provider

import (
	"crypto/rand"
	"io"
	mrnd "math/rand/v2"

	liberr "github.com/nabbar/gotls/errors"
)

// Fill writes cryptographically strong random bytes into buf.
func Fill(buf []byte) liberr.Error {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return ErrorRandom.Error(err)
	}

	return nil
}

// FillPublic writes non-secret randomness into buf. Cheaper than Fill, never
// used for key material.
func FillPublic(buf []byte) liberr.Error {
	for i := range buf {
		buf[i] = byte(mrnd.Uint32())
	}

	return nil
}

// Reader exposes the strong source as an io.Reader.
func Reader() io.Reader {
	return rand.Reader
}
