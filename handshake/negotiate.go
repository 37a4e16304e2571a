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
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
	libsui "github.com/nabbar/gotls/suite"
)

// negotiateVersion picks the protocol version on the server. With a
// supported_versions extension the highest common entry wins; without it
// the legacy field is authoritative, capped at TLS 1.2.
func (c *Conn) negotiateVersion(legacy libsui.Version) liberr.Error {
	if len(c.peerVersions) > 0 {
		best := libsui.Version(0)
		for _, pv := range c.peerVersions {
			v := libsui.Version(pv)
			if v < c.Set.VersionMin || v > c.Set.VersionMax {
				continue
			}
			if v > best {
				best = v
			}
		}

		if best == 0 {
			return ErrorBadVersion.Error(nil)
		}

		c.Version = best
		c.VersionEstablished = true
		return nil
	}

	v := legacy
	if v > libsui.VersionTLS12 {
		v = libsui.VersionTLS12
	}

	if v < c.Set.VersionMin || v > c.Set.VersionMax {
		return ErrorBadVersion.Error(nil)
	}

	c.Version = v
	c.VersionEstablished = true

	return nil
}

// suiteValidForAuth implements the first reconciliation step: a suite is
// acceptable only when a compatible certificate exists for its auth
// method. TLS 1.3 suites accept any configured certificate.
func (c *Conn) suiteValidForAuth(s *libsui.CipherSuite) bool {
	if c.resuming {
		return true
	}

	// A 1.3 suite can also authenticate through a PSK alone.
	if s.Auth == libsui.AuthSentinel && (len(c.PSK.List) > 0 || c.offered != nil) {
		return true
	}

	return c.Set.hasCertForAuth(s.Auth)
}

// groupAvailable reports whether the suite's key exchange can proceed with
// the peer's groups.
func (c *Conn) groupAvailable(s *libsui.CipherSuite) bool {
	if s.Kex == libsui.KexRSA {
		return true
	}

	return c.selectGroup() != 0
}

// selectGroup picks the first locally preferred curve the peer also
// supports.
func (c *Conn) selectGroup() libsui.NamedGroup {
	for _, g := range c.Set.Groups {
		for _, pg := range c.peerGroups {
			if uint16(g) == pg {
				return g
			}
		}
	}

	return 0
}

// negotiateSuite picks the cipher suite on the server: for each locally
// preferred suite, in order, the suite must appear in the client list, a
// compatible certificate must exist, its key exchange must be serviceable
// and its minimum version must not exceed the negotiated version.
func (c *Conn) negotiateSuite(clientSuites []uint16) liberr.Error {
	if c.resuming && c.ResumeSuite != nil {
		for _, cs := range clientSuites {
			if cs == c.ResumeSuite.IANA {
				c.Suite = c.ResumeSuite
				c.transcript.Select(c.Suite.PRFHash)
				return nil
			}
		}
		// The prior suite vanished from the client list: full handshake.
		c.resuming = false
	}

	for _, s := range c.Set.suitesFor(c.Version) {
		found := false
		for _, cs := range clientSuites {
			if cs == s.IANA {
				found = true
				break
			}
		}

		if !found {
			continue
		}

		if !c.suiteValidForAuth(s) {
			continue
		}

		if !s.IsTLS13() && !c.groupAvailable(s) {
			continue
		}

		c.Suite = s
		c.transcript.Select(s.PRFHash)

		return nil
	}

	return ErrorNoCipherOverlap.Error(nil)
}

// certTypeForScheme maps a signature scheme onto the key type its
// certificate must carry.
func certTypeForScheme(s *libsui.SignatureScheme) (PKeyType, bool) {
	switch s.Sig {
	case libprv.SigRSAPKCS1, libprv.SigRSAPSSRSAE:
		return PKeyRSA, true
	case libprv.SigRSAPSSPSS:
		return PKeyRSAPSS, true
	case libprv.SigECDSA:
		return PKeyECDSA, true
	case libprv.SigEd25519:
		return PKeyEd25519, true
	}

	return PKeyUnknown, false
}

// schemeValidForAuth implements the second reconciliation step.
func (c *Conn) schemeValidForAuth(s *libsui.SignatureScheme, narrowed []uint16) bool {
	kt, ok := certTypeForScheme(s)
	if !ok {
		return false
	}

	// Non-ephemeral exchanges need a certificate able to encrypt, which
	// RSA-PSS keys cannot.
	if c.Suite != nil && !c.Suite.IsTLS13() && !c.Suite.Kex.Ephemeral() && kt == PKeyRSAPSS {
		return false
	}

	// The suite's auth method, when present, pins the family.
	if c.Suite != nil && c.Suite.Auth != libsui.AuthSentinel {
		am, ok := kt.AuthMethod()
		if !ok || am != c.Suite.Auth {
			return false
		}
	}

	cert := c.Set.certForType(kt)
	if cert == nil {
		return false
	}

	// ECDSA schemes bind to the certificate curve in TLS 1.3.
	if c.Version >= libsui.VersionTLS13 && s.Curve != 0 && cert.CurveGroup() != s.Curve {
		return false
	}

	if narrowed != nil {
		found := false
		for _, n := range narrowed {
			if n == s.IANA {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// negotiateScheme picks the signature scheme used to sign towards the
// peer: the first local preference present in the peer's
// signature_algorithms that passes the auth reconciliation.
func (c *Conn) negotiateScheme() liberr.Error {
	peer := c.peerSchemes

	if len(peer) == 0 {
		// RFC 5246 section 7.4.1.4.1 default.
		if c.Version >= libsui.VersionTLS13 {
			return ErrorInvalidSignatureAlgorithm.Error(nil)
		}
		peer = []uint16{libsui.RSAPKCS1SHA1.IANA, libsui.ECDSASHA1.IANA}
	}

	for _, s := range c.Set.schemesFor(c.Version) {
		found := false
		for _, ps := range peer {
			if ps == s.IANA {
				found = true
				break
			}
		}

		if !found {
			continue
		}

		if !c.schemeValidForAuth(s, nil) {
			continue
		}

		c.SigScheme = s

		return nil
	}

	return ErrorInvalidSignatureAlgorithm.Error(nil)
}

// selectCert implements the third reconciliation step: the chosen chain is
// the one matching the chosen scheme, with signature_algorithms_cert
// narrowing the certificate choice when the peer sent it.
func (c *Conn) selectCert() (*CertChain, liberr.Error) {
	scheme := c.SigScheme

	if len(c.peerSchemesC) > 0 {
		for _, s := range c.Set.schemesFor(c.Version) {
			if c.schemeValidForAuth(s, c.peerSchemesC) {
				scheme = s
				break
			}
		}
	}

	if scheme == nil {
		return nil, ErrorInvalidSignatureAlgorithm.Error(nil)
	}

	kt, ok := certTypeForScheme(scheme)
	if !ok {
		return nil, ErrorInvalidSignatureAlgorithm.Error(nil)
	}

	cert := c.Set.certForType(kt)
	if cert == nil {
		return nil, ErrorCertTypeUnsupported.Error(nil)
	}

	return cert, nil
}

// peerCertAcceptable implements the client-side auth check: the peer's
// leaf key family must match the suite's auth method when one is pinned.
func (c *Conn) peerCertAcceptable(kt PKeyType) liberr.Error {
	if c.Suite == nil || c.Suite.Auth == libsui.AuthSentinel {
		return nil
	}

	am, ok := kt.AuthMethod()
	if !ok || am != c.Suite.Auth {
		return ErrorCertTypeUnsupported.Error(nil)
	}

	return nil
}
