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

// Package kem provides the key encapsulation bridge used by hybrid
// post-quantum cipher suites.
//
// A hybrid key exchange runs a classical ECDHE agreement and a KEM
// encapsulation side by side, then concatenates ecdhe_shared || kem_shared
// as the premaster secret. The KEM is consumed through a uniform trait.
// Decapsulate refuses only a ciphertext of the wrong size or a wiped key;
// on a malformed ciphertext of the right size it returns a pseudo-random
// value derived from a rejection secret stored with the private key
// (implicit rejection) instead of an error.
package kem

import liberr "github.com/nabbar/gotls/errors"

// KEM is a key encapsulation mechanism.
type KEM interface {
	Name() string
	PublicKeySize() int
	CiphertextSize() int
	SharedSecretSize() int

	Keypair() (pub []byte, priv PrivateKey, err liberr.Error)
	Encapsulate(pub []byte) (ct, ss []byte, err liberr.Error)
}

// PrivateKey is a decapsulation key.
type PrivateKey interface {
	// Decapsulate fails only on a ciphertext of the wrong size or a wiped
	// key: a bad ciphertext of the right size yields an implicit-rejection
	// value, not an error.
	Decapsulate(ct []byte) (ss []byte, err liberr.Error)
	Wipe()
}

// ConcatSecrets builds the hybrid premaster secret, classical part first.
func ConcatSecrets(classical, kemShared []byte) []byte {
	out := make([]byte, 0, len(classical)+len(kemShared))
	out = append(out, classical...)
	out = append(out, kemShared...)

	return out
}
