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

// Package suite holds the immutable protocol tables of the TLS core: wire
// constants, named groups, cipher suite descriptors and signature scheme
// descriptors. Everything here is data; negotiation logic lives in the
// handshake package.
package suite

// Lookup returns the cipher suite for an IANA code point, nil if unknown.
func Lookup(iana uint16) *CipherSuite {
	for _, s := range allSuites {
		if s.IANA == iana {
			return s
		}
	}

	return nil
}

// LookupByName returns the cipher suite carrying the given IANA name, nil
// if unknown.
func LookupByName(name string) *CipherSuite {
	for _, s := range allSuites {
		if s.Name == name {
			return s
		}
	}

	return nil
}

// ParseVersion maps the short form used in configuration files ("1.2",
// "1.3") onto the wire version, 0 when unknown.
func ParseVersion(s string) Version {
	switch s {
	case "1.0":
		return VersionTLS10
	case "1.1":
		return VersionTLS11
	case "1.2":
		return VersionTLS12
	case "1.3":
		return VersionTLS13
	}

	return 0
}

// ParseGroup maps a configuration name onto a named group, 0 when unknown.
func ParseGroup(s string) NamedGroup {
	switch s {
	case "X25519", "x25519":
		return GroupX25519
	case "P256", "secp256r1":
		return GroupP256
	case "P384", "secp384r1":
		return GroupP384
	case "P521", "secp521r1":
		return GroupP521
	}

	return 0
}

// LookupScheme returns the signature scheme for an IANA code point, nil if
// unknown.
func LookupScheme(iana uint16) *SignatureScheme {
	for _, s := range allSchemes {
		if s.IANA == iana {
			return s
		}
	}

	return nil
}

// LookupGroup returns the named group for an IANA code point, 0 if not
// supported.
func LookupGroup(iana uint16) NamedGroup {
	for _, g := range DefaultGroups() {
		if uint16(g) == iana {
			return g
		}
	}

	return 0
}

// DefaultSuites returns the built-in preference order, most preferred
// first.
func DefaultSuites() []*CipherSuite {
	return append([]*CipherSuite(nil), defaultPreference...)
}

// DefaultSchemes returns the built-in signature scheme preference order.
func DefaultSchemes() []*SignatureScheme {
	return append([]*SignatureScheme(nil), allSchemes...)
}

// DefaultGroups returns the built-in group preference order. X25519 is
// canonical and comes first.
func DefaultGroups() []NamedGroup {
	return []NamedGroup{GroupX25519, GroupP256, GroupP384, GroupP521}
}
