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
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// TLS 1.3 CertificateVerify context strings (RFC 8446 section 4.4.3).
const (
	cvContextServer = "TLS 1.3, server CertificateVerify"
	cvContextClient = "TLS 1.3, client CertificateVerify"
)

// pickLocalChain resolves the identity to present.
func (c *Conn) pickLocalChain(st State) (*CertChain, liberr.Error) {
	if c.Role == RoleServer && st == StateServerCert {
		if c.Suite.Auth != libsui.AuthSentinel {
			// Pre-1.3: the suite pins the family.
			kt := PKeyRSA
			if c.Suite.Auth == libsui.AuthECDSA {
				kt = PKeyECDSA
			}

			cert := c.Set.certForType(kt)
			if cert == nil {
				return nil, ErrorCertTypeUnsupported.Error(nil)
			}
			return cert, nil
		}

		if err := c.negotiateScheme(); err != nil {
			return nil, err
		}

		return c.selectCert()
	}

	// Client auth: the first chain usable under a scheme the server
	// accepts.
	for _, s := range c.Set.schemesFor(c.Version) {
		for _, ps := range c.peerSchemes {
			if ps != s.IANA {
				continue
			}

			kt, ok := certTypeForScheme(s)
			if !ok {
				continue
			}

			if cert := c.Set.certForType(kt); cert != nil {
				c.SigScheme = s
				return cert, nil
			}
		}
	}

	return nil, nil
}

// sendCertificate emits the local chain in the shape of the negotiated
// version. A client with nothing to present sends an empty list.
func (c *Conn) sendCertificate(st State) liberr.Error {
	if st == StateClientCert && !c.peerCertReq {
		c.advance()
		return nil
	}

	chain, err := c.pickLocalChain(st)
	if err != nil {
		return err
	}

	if chain == nil && st == StateServerCert {
		return ErrorCertTypeUnsupported.Error(nil)
	}

	c.localChain = chain
	c.sentCert = chain != nil

	body, err := libstf.New(1024)
	if err != nil {
		return err
	}

	if c.Version >= libsui.VersionTLS13 {
		if err = body.WriteUint8(uint8(len(c.certReqContext))); err != nil {
			return err
		}
		if err = body.WriteBytes(c.certReqContext); err != nil {
			return err
		}
	}

	list, err := body.ReserveUint24()
	if err != nil {
		return err
	}

	if chain != nil {
		for _, der := range chain.ChainDER {
			if err = body.WriteUint24(uint32(len(der))); err != nil {
				return err
			}
			if err = body.WriteBytes(der); err != nil {
				return err
			}

			if c.Version >= libsui.VersionTLS13 {
				// no per-certificate extensions
				if err = body.WriteUint16(0); err != nil {
					return err
				}
			}
		}
	}

	if err = body.WriteVectorSize(list); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeCertificate, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processCertificate parses the peer chain, validates it, and extracts the
// leaf public key required to continue.
func (c *Conn) processCertificate(st State, in *libstf.Stuffer) liberr.Error {
	if c.Version >= libsui.VersionTLS13 {
		ctxLen, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if err = in.SkipRead(int(ctxLen)); err != nil {
			return ErrorBadMessage.Error(err)
		}
	}

	total, err := in.ReadUint24()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	if int(total) != in.Avail() {
		return ErrorBadMessage.Error(nil)
	}

	var chain [][]byte
	for in.Avail() > 0 {
		l, err := in.ReadUint24()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		der, err := in.ReadN(int(l))
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		chain = append(chain, der)

		if c.Version >= libsui.VersionTLS13 {
			extLen, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			if err = in.SkipRead(int(extLen)); err != nil {
				return ErrorBadMessage.Error(err)
			}
		}
	}

	if len(chain) == 0 {
		if st == StateClientCert {
			if c.Set.RequireClientAuth {
				return ErrorHandshakeFailure.Error(nil)
			}
			// Anonymous client: the CertificateVerify state will skip.
			c.advance()
			return nil
		}
		return ErrorBadMessage.Error(nil)
	}

	if c.Validator == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	verdict, leaf, err := c.Validator.ValidateChain(chain)
	c.PeerVerdict = verdict
	if err != nil {
		return err
	}

	c.PeerChainDER = chain
	c.PeerCert = leaf

	if st == StateServerCert {
		if err = c.peerCertAcceptable(KeyTypeOf(leaf.PublicKey)); err != nil {
			return err
		}
	}

	c.advance()

	return nil
}

// sendCertificateStatus staples the OCSP response when the client asked
// for one and the chosen chain carries one.
func (c *Conn) sendCertificateStatus() liberr.Error {
	if !c.ocspRequested || c.localChain == nil || len(c.localChain.OCSPResponse) == 0 {
		c.advance()
		return nil
	}

	body, err := libstf.New(len(c.localChain.OCSPResponse) + 4)
	if err != nil {
		return err
	}

	// status_type ocsp
	if err = body.WriteUint8(1); err != nil {
		return err
	}
	if err = body.WriteUint24(uint32(len(c.localChain.OCSPResponse))); err != nil {
		return err
	}
	if err = body.WriteBytes(c.localChain.OCSPResponse); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeCertificateStatus, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processCertificateStatus validates the stapled response.
func (c *Conn) processCertificateStatus(in *libstf.Stuffer) liberr.Error {
	statusType, err := in.ReadUint8()
	if err != nil || statusType != 1 {
		return ErrorBadMessage.Error(nil)
	}

	l, err := in.ReadUint24()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	resp, err := in.ReadN(int(l))
	if err != nil || in.Avail() != 0 {
		return ErrorBadMessage.Error(nil)
	}

	c.OCSPResponse = resp

	if c.Validator != nil && c.Validator.CheckOCSP() {
		verdict, err := c.Validator.ValidateOCSP(resp)
		c.PeerVerdict = verdict
		if err != nil {
			return err
		}
	}

	c.advance()

	return nil
}

// sendCertificateRequest asks the peer for a certificate.
func (c *Conn) sendCertificateRequest() liberr.Error {
	body, err := libstf.New(128)
	if err != nil {
		return err
	}

	if c.Version >= libsui.VersionTLS13 {
		// empty certificate_request_context
		if err = body.WriteUint8(0); err != nil {
			return err
		}
		if err = c.sendExtensions(msgCertificateRequest, body); err != nil {
			return err
		}
	} else {
		// rsa_sign, ecdsa_sign
		if err = body.WriteUint8(2); err != nil {
			return err
		}
		if err = body.WriteUint8(1); err != nil {
			return err
		}
		if err = body.WriteUint8(64); err != nil {
			return err
		}

		list, err := body.ReserveUint16()
		if err != nil {
			return err
		}
		for _, s := range c.Set.schemesFor(c.Version) {
			if err = body.WriteUint16(s.IANA); err != nil {
				return err
			}
		}
		if err = body.WriteVectorSize(list); err != nil {
			return err
		}

		// no distinguished names
		if err = body.WriteUint16(0); err != nil {
			return err
		}
	}

	if err = c.writeMessage(libsui.TypeCertificateRequest, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processCertificateRequest records that the peer wants a certificate and
// which schemes it accepts.
func (c *Conn) processCertificateRequest(in *libstf.Stuffer) liberr.Error {
	if c.Version >= libsui.VersionTLS13 {
		ctxLen, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		if c.certReqContext, err = in.ReadN(int(ctxLen)); err != nil {
			return ErrorBadMessage.Error(err)
		}

		if err = c.recvExtensions(msgCertificateRequest, in); err != nil {
			return err
		}
	} else {
		typesLen, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if err = in.SkipRead(int(typesLen)); err != nil {
			return ErrorBadMessage.Error(err)
		}

		listLen, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if listLen%2 != 0 || int(listLen) > in.Avail() {
			return ErrorBadMessage.Error(nil)
		}

		c.peerSchemes = c.peerSchemes[:0]
		for i := 0; i < int(listLen)/2; i++ {
			v, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			c.peerSchemes = append(c.peerSchemes, v)
		}

		dnLen, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if err = in.SkipRead(int(dnLen)); err != nil {
			return ErrorBadMessage.Error(err)
		}
	}

	c.peerCertReq = true
	c.advance()

	return nil
}

// cvContent13 builds the TLS 1.3 CertificateVerify input: 64 spaces, the
// context string, a zero byte and the transcript hash.
func cvContent13(server bool, transcriptHash []byte) []byte {
	ctx := cvContextClient
	if server {
		ctx = cvContextServer
	}

	out := make([]byte, 0, 64+len(ctx)+1+len(transcriptHash))
	for i := 0; i < 64; i++ {
		out = append(out, 0x20)
	}
	out = append(out, ctx...)
	out = append(out, 0)
	out = append(out, transcriptHash...)

	return out
}

// sendCertificateVerify proves possession of the presented key.
func (c *Conn) sendCertificateVerify(st State) liberr.Error {
	if st == StateClientCertVerify && !c.sentCert {
		c.advance()
		return nil
	}

	if c.localChain == nil || c.SigScheme == nil {
		return ErrorState.Error(nil)
	}

	var signed []byte

	if c.Version >= libsui.VersionTLS13 {
		th, err := c.transcript.Current()
		if err != nil {
			return err
		}
		signed = cvContent13(st == StateServerCertVerify, th)
	} else {
		// TLS 1.2 signs the raw handshake messages so far.
		signed = c.hsRaw
	}

	sig, err := libprv.Sign(c.SigScheme.Sig, c.SigScheme.Hash, c.localChain.Key, signed)
	if err != nil {
		return err
	}

	body, err := libstf.New(len(sig) + 8)
	if err != nil {
		return err
	}

	if err = body.WriteUint16(c.SigScheme.IANA); err != nil {
		return err
	}
	if err = body.WriteUint16(uint16(len(sig))); err != nil {
		return err
	}
	if err = body.WriteBytes(sig); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeCertificateVerify, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processCertificateVerify checks the peer's possession proof.
func (c *Conn) processCertificateVerify(st State, in *libstf.Stuffer, snapshot *Transcript) liberr.Error {
	bodyLen := in.Avail()

	schemeIANA, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	scheme := libsui.LookupScheme(schemeIANA)
	if scheme == nil || !scheme.UsableWith(c.Version) {
		return ErrorInvalidSignatureAlgorithm.Error(nil)
	}

	sigLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	sig, err := in.ReadN(int(sigLen))
	if err != nil || in.Avail() != 0 {
		return ErrorBadMessage.Error(nil)
	}

	if c.PeerCert == nil {
		return ErrorUnexpectedMessage.Error(nil)
	}

	var signed []byte

	if c.Version >= libsui.VersionTLS13 {
		th, err := snapshot.Current()
		if err != nil {
			return err
		}
		signed = cvContent13(st == StateServerCertVerify, th)
	} else {
		// The raw messages preceding this CertificateVerify.
		full := 4 + bodyLen
		if len(c.hsRaw) < full {
			return ErrorState.Error(nil)
		}
		signed = c.hsRaw[:len(c.hsRaw)-full]
	}

	if err = libprv.Verify(scheme.Sig, scheme.Hash, c.PeerCert.PublicKey, signed, sig); err != nil {
		return ErrorBadSignature.Error(err)
	}

	c.advance()

	return nil
}
