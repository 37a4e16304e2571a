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

package suite

import "crypto/ecdh"

// NamedGroup is an elliptic curve group in wire form.
type NamedGroup uint16

const (
	GroupP256   NamedGroup = 23
	GroupP384   NamedGroup = 24
	GroupP521   NamedGroup = 25
	GroupX25519 NamedGroup = 29
)

// Curve returns the ecdh curve behind the group, nil for unknown groups.
// X25519 and the NIST curves share one key agreement interface.
func (g NamedGroup) Curve() ecdh.Curve {
	switch g {
	case GroupP256:
		return ecdh.P256()
	case GroupP384:
		return ecdh.P384()
	case GroupP521:
		return ecdh.P521()
	case GroupX25519:
		return ecdh.X25519()
	}

	return nil
}

// String implements fmt.Stringer.
func (g NamedGroup) String() string {
	switch g {
	case GroupP256:
		return "secp256r1"
	case GroupP384:
		return "secp384r1"
	case GroupP521:
		return "secp521r1"
	case GroupX25519:
		return "x25519"
	}

	return "unknown"
}
