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
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
)

// hmacState implements HMAC over the Hash trait with explicit ipad/opad
// states, so a keyed state can be cloned and rewound mid-record. The CBC
// verify path relies on both.
type hmacState struct {
	algo  HashAlgo
	inner Hash
	ipad  []byte
	opad  []byte
}

// NewHMAC returns a keyed MAC for the algorithm.
func NewHMAC(a HashAlgo, key []byte) (HMAC, liberr.Error) {
	block := a.BlockSize()
	if block == 0 {
		return nil, ErrorHashUnknown.Error(nil)
	}

	pad := make([]byte, block)
	if len(key) > block {
		h, err := NewHash(a)
		if err != nil {
			return nil, err
		}
		if err = h.Update(key); err != nil {
			return nil, err
		}
		sum := make([]byte, h.Size())
		if err = h.Digest(sum); err != nil {
			return nil, err
		}
		copy(pad, sum)
		libblb.WipeBytes(sum)
	} else {
		copy(pad, key)
	}

	st := &hmacState{
		algo: a,
		ipad: make([]byte, block),
		opad: make([]byte, block),
	}

	for i := 0; i < block; i++ {
		st.ipad[i] = pad[i] ^ 0x36
		st.opad[i] = pad[i] ^ 0x5c
	}
	libblb.WipeBytes(pad)

	if err := st.rekey(); err != nil {
		return nil, err
	}

	return st, nil
}

func (h *hmacState) rekey() liberr.Error {
	inner, err := NewHash(h.algo)
	if err != nil {
		return err
	}

	if err = inner.Update(h.ipad); err != nil {
		return err
	}

	h.inner = inner

	return nil
}

func (h *hmacState) Update(b []byte) liberr.Error {
	return h.inner.Update(b)
}

func (h *hmacState) Digest(out []byte) liberr.Error {
	if len(out) != h.Size() {
		return ErrorParamsEmpty.Error(nil)
	}

	sum := make([]byte, h.inner.Size())
	if err := h.inner.Digest(sum); err != nil {
		return err
	}

	outer, err := NewHash(h.algo)
	if err != nil {
		return err
	}

	if err = outer.Update(h.opad); err != nil {
		return err
	}
	if err = outer.Update(sum); err != nil {
		return err
	}
	libblb.WipeBytes(sum)

	return outer.Digest(out)
}

func (h *hmacState) Reset() {
	// errors only possible on unknown algo, which rekey already vetted
	_ = h.rekey()
}

func (h *hmacState) Copy() (HMAC, liberr.Error) {
	inner, err := h.inner.Copy()
	if err != nil {
		return nil, err
	}

	n := &hmacState{
		algo:  h.algo,
		inner: inner,
		ipad:  append([]byte(nil), h.ipad...),
		opad:  append([]byte(nil), h.opad...),
	}

	return n, nil
}

func (h *hmacState) Size() int {
	return h.algo.Size()
}

func (h *hmacState) BlockSize() int {
	return h.algo.BlockSize()
}

func (h *hmacState) Wipe() {
	libblb.WipeBytes(h.ipad)
	libblb.WipeBytes(h.opad)
	if h.inner != nil {
		h.inner.Reset()
	}
}
