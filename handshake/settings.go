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

package handshake

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"

	libsui "github.com/nabbar/gotls/suite"
)

// PKeyType classifies a local certificate key.
type PKeyType uint8

const (
	PKeyUnknown PKeyType = iota
	PKeyRSA
	PKeyRSAPSS
	PKeyECDSA
	PKeyEd25519
)

// CertChain is one local identity: a DER chain (leaf first) and its
// private key.
type CertChain struct {
	ChainDER [][]byte
	Key      crypto.Signer
	KeyType  PKeyType
	// Leaf is the parsed leaf, cached at configuration time.
	Leaf *x509.Certificate
	// OCSPResponse is an optional staple sent when the peer asks.
	OCSPResponse []byte
}

// CurveGroup returns the group of an ECDSA leaf key, 0 otherwise.
func (c *CertChain) CurveGroup() libsui.NamedGroup {
	if c == nil || c.KeyType != PKeyECDSA {
		return 0
	}

	k, ok := c.Key.Public().(*ecdsa.PublicKey)
	if !ok {
		return 0
	}

	switch k.Curve.Params().Name {
	case "P-256":
		return libsui.GroupP256
	case "P-384":
		return libsui.GroupP384
	case "P-521":
		return libsui.GroupP521
	}

	return 0
}

// AuthMethod maps the key type onto the cipher suite auth families.
func (t PKeyType) AuthMethod() (libsui.AuthMethod, bool) {
	switch t {
	case PKeyRSA, PKeyRSAPSS:
		return libsui.AuthRSA, true
	case PKeyECDSA:
		return libsui.AuthECDSA, true
	}

	return 0, false
}

// KeyTypeOf classifies a public key.
func KeyTypeOf(pub crypto.PublicKey) PKeyType {
	switch pub.(type) {
	case *rsa.PublicKey:
		return PKeyRSA
	case *ecdsa.PublicKey:
		return PKeyECDSA
	}

	return PKeyUnknown
}

// Settings is the immutable preference snapshot the handshake negotiates
// from. The connection layer builds it from its validated config when the
// config is attached.
type Settings struct {
	VersionMin libsui.Version
	VersionMax libsui.Version

	Suites  []*libsui.CipherSuite
	Groups  []libsui.NamedGroup
	Schemes []*libsui.SignatureScheme

	Certs []*CertChain

	// ServerName is the SNI the client sends and verifies against.
	ServerName string

	// ALPN protocols, most preferred first.
	Protocols [][]byte

	// PSKModes are the psk_key_exchange_modes the client advertises.
	// Empty means both, DHE preferred.
	PSKModes []PSKKeMode

	// RequireClientAuth makes the server request and require a client
	// certificate.
	RequireClientAuth bool

	// OCSPStapling asks for (client) or answers with (server) a stapled
	// response.
	OCSPStapling bool

	// SessionTickets enables NewSessionTicket issuance.
	SessionTickets bool

	// TreatWarningsAsFatal controls pre-1.3 warning alert handling.
	TreatWarningsAsFatal bool

	// QUIC suppresses the wire alert and CCS machinery.
	QUIC bool

	// MaxFragment caps outgoing plaintext fragments.
	MaxFragment int
}

// suitesFor filters the preference list down to what the negotiated
// version can use.
func (s *Settings) suitesFor(v libsui.Version) []*libsui.CipherSuite {
	out := make([]*libsui.CipherSuite, 0, len(s.Suites))

	for _, cs := range s.Suites {
		if v >= libsui.VersionTLS13 && !cs.IsTLS13() {
			continue
		}
		if v < libsui.VersionTLS13 && cs.IsTLS13() {
			continue
		}
		if cs.MinVersion > v {
			continue
		}
		out = append(out, cs)
	}

	return out
}

// schemesFor filters the signature scheme preferences for a version.
func (s *Settings) schemesFor(v libsui.Version) []*libsui.SignatureScheme {
	out := make([]*libsui.SignatureScheme, 0, len(s.Schemes))

	for _, sc := range s.Schemes {
		if sc.UsableWith(v) {
			out = append(out, sc)
		}
	}

	return out
}

// certForType returns the first configured chain of the given key type.
func (s *Settings) certForType(t PKeyType) *CertChain {
	for _, c := range s.Certs {
		if c.KeyType == t {
			return c
		}
	}

	return nil
}

// hasCertForAuth reports whether a chain exists for a suite auth method.
// TLS 1.3 suites accept any configured chain.
func (s *Settings) hasCertForAuth(m libsui.AuthMethod) bool {
	if m == libsui.AuthSentinel {
		return len(s.Certs) > 0
	}

	for _, c := range s.Certs {
		if am, ok := c.KeyType.AuthMethod(); ok && am == m {
			return true
		}
	}

	return false
}
