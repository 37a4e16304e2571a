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

package kem

import (
	"crypto/hmac"
	"crypto/sha256"

	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
)

// XORKEM is a toy KEM for tests and wire-format exercises. The shared
// secret is HMAC(pk, ct) with pk = HMAC(sk, "pk"); decapsulation of a
// tampered ciphertext silently
// yields a different secret, which doubles as implicit rejection.
type XORKEM struct{}

const xorKEMSize = 32

func (XORKEM) Name() string          { return "xor-test" }
func (XORKEM) PublicKeySize() int    { return xorKEMSize }
func (XORKEM) CiphertextSize() int   { return xorKEMSize }
func (XORKEM) SharedSecretSize() int { return xorKEMSize }

func (XORKEM) Keypair() ([]byte, PrivateKey, liberr.Error) {
	sk := make([]byte, xorKEMSize)
	if err := libprv.Fill(sk); err != nil {
		return nil, nil, err
	}

	// pk = HMAC(sk, "pk"): opaque but reproducible from sk
	pub := hmac.New(sha256.New, sk)
	pub.Write([]byte("pk"))

	return pub.Sum(nil), &xorPriv{sk: sk}, nil
}

func (k XORKEM) Encapsulate(pub []byte) ([]byte, []byte, liberr.Error) {
	if len(pub) != xorKEMSize {
		return nil, nil, ErrorBadSize.Error(nil)
	}

	ct := make([]byte, xorKEMSize)
	if err := libprv.Fill(ct); err != nil {
		return nil, nil, err
	}

	m := hmac.New(sha256.New, pub)
	m.Write(ct)

	return ct, m.Sum(nil), nil
}

type xorPriv struct {
	sk []byte
}

func (p *xorPriv) Decapsulate(ct []byte) ([]byte, liberr.Error) {
	if len(ct) != xorKEMSize {
		return nil, ErrorBadSize.Error(nil)
	}

	pub := hmac.New(sha256.New, p.sk)
	pub.Write([]byte("pk"))

	m := hmac.New(sha256.New, pub.Sum(nil))
	m.Write(ct)

	return m.Sum(nil), nil
}

func (p *xorPriv) Wipe() {
	libblb.WipeBytes(p.sk)
}
