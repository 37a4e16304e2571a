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

// Package hkdf implements RFC 5869 extract-and-expand and the TLS 1.3 key
// schedule labels of RFC 8446 section 7 on top of it.
package hkdf

import (
	"io"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/hkdf"

	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
)

// Extract computes HKDF-Extract(salt, ikm) with the given hash. A nil salt
// is replaced by a zero-filled string of hash length per RFC 5869.
func Extract(algo libprv.HashAlgo, salt, ikm []byte) ([]byte, liberr.Error) {
	f := algo.Func()
	if f == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	return hkdf.Extract(f, ikm, salt), nil
}

// Expand computes HKDF-Expand(prk, info, outLen) with the given hash.
func Expand(algo libprv.HashAlgo, prk, info []byte, outLen int) ([]byte, liberr.Error) {
	f := algo.Func()
	if f == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if outLen <= 0 || outLen > 255*algo.Size() {
		return nil, ErrorDerive.Error(nil)
	}

	out := make([]byte, outLen)
	if _, err := io.ReadFull(hkdf.Expand(f, prk, info), out); err != nil {
		return nil, ErrorDerive.Error(err)
	}

	return out, nil
}

// ExpandLabel computes HKDF-Expand-Label (RFC 8446 section 7.1): the info
// is length || "tls13 " + label || context.
func ExpandLabel(algo libprv.HashAlgo, secret []byte, label string, context []byte, outLen int) ([]byte, liberr.Error) {
	var b cryptobyte.Builder

	b.AddUint16(uint16(outLen))
	b.AddUint8LengthPrefixed(func(c *cryptobyte.Builder) {
		c.AddBytes([]byte("tls13 "))
		c.AddBytes([]byte(label))
	})
	b.AddUint8LengthPrefixed(func(c *cryptobyte.Builder) {
		c.AddBytes(context)
	})

	info, err := b.Bytes()
	if err != nil {
		return nil, ErrorDerive.Error(err)
	}

	return Expand(algo, secret, info, outLen)
}

// DeriveSecret computes Derive-Secret(secret, label, transcriptHash).
func DeriveSecret(algo libprv.HashAlgo, secret []byte, label string, transcriptHash []byte) ([]byte, liberr.Error) {
	return ExpandLabel(algo, secret, label, transcriptHash, algo.Size())
}

// emptyHash returns the hash of the empty string.
func emptyHash(algo libprv.HashAlgo) ([]byte, liberr.Error) {
	h, err := libprv.NewHash(algo)
	if err != nil {
		return nil, err
	}

	out := make([]byte, h.Size())
	if err = h.Digest(out); err != nil {
		return nil, err
	}

	return out, nil
}
