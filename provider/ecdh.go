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
	"crypto/ecdh"
	"crypto/rand"

	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
)

// KeyPair is an ephemeral ECDH key pair. X25519 and the NIST curves share
// this interface; one pair serves one handshake and is wiped right after
// the shared secret is derived.
type KeyPair struct {
	priv *ecdh.PrivateKey
}

// NewKeyPair generates an ephemeral key pair on the given curve.
func NewKeyPair(curve ecdh.Curve) (*KeyPair, liberr.Error) {
	if curve == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	priv, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, ErrorKeyAgreement.Error(err)
	}

	return &KeyPair{priv: priv}, nil
}

// PublicBytes returns the wire encoding of the public key: 32 raw bytes for
// X25519, an uncompressed point for the NIST curves.
func (k *KeyPair) PublicBytes() []byte {
	if k == nil || k.priv == nil {
		return nil
	}

	return k.priv.PublicKey().Bytes()
}

// SharedSecret derives the shared secret against the peer's wire-encoded
// public key. Both sides call this with their own private key and the
// other side's public bytes.
func (k *KeyPair) SharedSecret(peerPublic []byte) ([]byte, liberr.Error) {
	if k == nil || k.priv == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	pub, err := k.priv.Curve().NewPublicKey(peerPublic)
	if err != nil {
		return nil, ErrorKeyAgreement.Error(err)
	}

	ss, err := k.priv.ECDH(pub)
	if err != nil {
		return nil, ErrorKeyAgreement.Error(err)
	}

	return ss, nil
}

// Wipe detaches the private key. The ecdh scalar itself is managed by the
// runtime; dropping the last reference makes it collectable.
func (k *KeyPair) Wipe() {
	if k == nil {
		return
	}

	k.priv = nil
}

// WipeSecret zeroizes a derived shared secret.
func WipeSecret(ss []byte) {
	libblb.WipeBytes(ss)
}
