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
	circl "github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber768"

	liberr "github.com/nabbar/gotls/errors"
)

// Kyber768 returns the Kyber round 3 KEM at NIST level 3. Implicit
// rejection is built into the scheme's decapsulation.
func Kyber768() KEM {
	return &circlKEM{
		name:   "kyber768r3",
		scheme: kyber768.Scheme(),
	}
}

type circlKEM struct {
	name   string
	scheme circl.Scheme
}

func (k *circlKEM) Name() string {
	return k.name
}

func (k *circlKEM) PublicKeySize() int {
	return k.scheme.PublicKeySize()
}

func (k *circlKEM) CiphertextSize() int {
	return k.scheme.CiphertextSize()
}

func (k *circlKEM) SharedSecretSize() int {
	return k.scheme.SharedKeySize()
}

func (k *circlKEM) Keypair() ([]byte, PrivateKey, liberr.Error) {
	pub, priv, err := k.scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, ErrorCrypto.Error(err)
	}

	pb, err := pub.MarshalBinary()
	if err != nil {
		return nil, nil, ErrorCrypto.Error(err)
	}

	return pb, &circlPriv{
		scheme: k.scheme,
		priv:   priv,
	}, nil
}

func (k *circlKEM) Encapsulate(pub []byte) ([]byte, []byte, liberr.Error) {
	if len(pub) != k.scheme.PublicKeySize() {
		return nil, nil, ErrorBadSize.Error(nil)
	}

	pk, err := k.scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return nil, nil, ErrorCrypto.Error(err)
	}

	ct, ss, err := k.scheme.Encapsulate(pk)
	if err != nil {
		return nil, nil, ErrorCrypto.Error(err)
	}

	return ct, ss, nil
}

type circlPriv struct {
	scheme circl.Scheme
	priv   circl.PrivateKey
}

func (p *circlPriv) Decapsulate(ct []byte) ([]byte, liberr.Error) {
	if p.priv == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if len(ct) != p.scheme.CiphertextSize() {
		return nil, ErrorBadSize.Error(nil)
	}

	// Kyber decapsulation never errors on a well-sized ciphertext: a
	// corrupted one yields the implicit-rejection value.
	ss, err := p.scheme.Decapsulate(p.priv, ct)
	if err != nil {
		return nil, ErrorCrypto.Error(err)
	}

	return ss, nil
}

func (p *circlPriv) Wipe() {
	p.priv = nil
}
