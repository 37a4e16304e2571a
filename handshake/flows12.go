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
	"crypto/rsa"
	"crypto/subtle"

	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libkem "github.com/nabbar/gotls/kem"
	libprf "github.com/nabbar/gotls/prf"
	libprv "github.com/nabbar/gotls/provider"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// rsaKexVersion is the version pair embedded in an RSA-exchanged
// premaster secret: the legacy ClientHello field, pinned to TLS 1.2.
var rsaKexVersion = [2]byte{3, 3}

// sendServerKeyExchange emits the ephemeral parameters, signed with the
// negotiated scheme. Hybrid suites carry the KEM public key alongside the
// curve point.
func (c *Conn) sendServerKeyExchange() liberr.Error {
	pair, err := libprv.NewKeyPair(c.Group.Curve())
	if err != nil {
		return err
	}
	c.kexPair = pair

	params, err := libstf.New(256)
	if err != nil {
		return err
	}

	// ECCurveType named_curve
	if err = params.WriteUint8(3); err != nil {
		return err
	}
	if err = params.WriteUint16(uint16(c.Group)); err != nil {
		return err
	}

	pub := pair.PublicBytes()
	if err = params.WriteUint8(uint8(len(pub))); err != nil {
		return err
	}
	if err = params.WriteBytes(pub); err != nil {
		return err
	}

	if c.Suite.Kex == libsui.KexECDHEKEM {
		k := c.Suite.KEM()

		kemPub, kemPriv, err := k.Keypair()
		if err != nil {
			return err
		}

		c.kemPriv = kemPriv

		if err = params.WriteUint16(uint16(len(kemPub))); err != nil {
			return err
		}
		if err = params.WriteBytes(kemPub); err != nil {
			return err
		}
	}

	if err = c.negotiateScheme(); err != nil {
		return err
	}

	cert, err := c.selectCert()
	if err != nil {
		return err
	}

	signed := make([]byte, 0, 2*libsui.RandomLen+params.Avail())
	signed = append(signed, c.ClientRandom[:]...)
	signed = append(signed, c.ServerRandom[:]...)
	signed = append(signed, params.Bytes()...)

	sig, err := libprv.Sign(c.SigScheme.Sig, c.SigScheme.Hash, cert.Key, signed)
	if err != nil {
		return err
	}

	body, err := libstf.New(params.Avail() + len(sig) + 8)
	if err != nil {
		return err
	}

	if err = body.WriteBytes(params.Bytes()); err != nil {
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

	if err = c.writeMessage(libsui.TypeServerKeyExchange, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processServerKeyExchange verifies the parameter signature against the
// server certificate and stores the peer share.
func (c *Conn) processServerKeyExchange(in *libstf.Stuffer) liberr.Error {
	paramsStart := in.Bytes()

	curveType, err := in.ReadUint8()
	if err != nil || curveType != 3 {
		return ErrorBadMessage.Error(nil)
	}

	group, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	ng := libsui.LookupGroup(group)
	if ng == 0 {
		return ErrorNoGroupOverlap.Error(nil)
	}
	c.Group = ng

	pubLen, err := in.ReadUint8()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	if c.peerShare, err = in.ReadN(int(pubLen)); err != nil {
		return ErrorBadMessage.Error(err)
	}

	if c.Suite.Kex == libsui.KexECDHEKEM {
		kemLen, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if c.kemPublic, err = in.ReadN(int(kemLen)); err != nil {
			return ErrorBadMessage.Error(err)
		}
	}

	paramsLen := len(paramsStart) - in.Avail()

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

	signed := make([]byte, 0, 2*libsui.RandomLen+paramsLen)
	signed = append(signed, c.ClientRandom[:]...)
	signed = append(signed, c.ServerRandom[:]...)
	signed = append(signed, paramsStart[:paramsLen]...)

	if err = libprv.Verify(scheme.Sig, scheme.Hash, c.PeerCert.PublicKey, signed, sig); err != nil {
		return ErrorBadSignature.Error(err)
	}

	c.advance()

	return nil
}

// sendServerHelloDone closes the server's first flight.
func (c *Conn) sendServerHelloDone() liberr.Error {
	if err := c.writeMessage(libsui.TypeServerHelloDone, nil); err != nil {
		return err
	}

	c.advance()

	return nil
}

func (c *Conn) processServerHelloDone(in *libstf.Stuffer) liberr.Error {
	if in.Avail() != 0 {
		return ErrorBadMessage.Error(nil)
	}

	c.advance()

	return nil
}

// sendClientKeyExchange performs the client side of the key exchange and
// derives the master secret behind it.
func (c *Conn) sendClientKeyExchange() liberr.Error {
	body, err := libstf.New(256)
	if err != nil {
		return err
	}

	var pms []byte

	switch c.Suite.Kex {
	case libsui.KexRSA:
		pms = make([]byte, libsui.MasterSecretLen)
		pms[0] = rsaKexVersion[0]
		pms[1] = rsaKexVersion[1]
		if err = libprv.Fill(pms[2:]); err != nil {
			return err
		}

		pub, ok := c.PeerCert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return ErrorCertTypeUnsupported.Error(nil)
		}

		enc, er := rsa.EncryptPKCS1v15(libprv.Reader(), pub, pms)
		if er != nil {
			return ErrorHandshakeFailure.Error(er)
		}

		if err = body.WriteUint16(uint16(len(enc))); err != nil {
			return err
		}
		if err = body.WriteBytes(enc); err != nil {
			return err
		}

	case libsui.KexECDHE, libsui.KexECDHEKEM:
		pair, er := libprv.NewKeyPair(c.Group.Curve())
		if er != nil {
			return er
		}

		pub := pair.PublicBytes()

		shared, er := pair.SharedSecret(c.peerShare)
		if er != nil {
			return er
		}
		pair.Wipe()
		if err = body.WriteUint8(uint8(len(pub))); err != nil {
			return err
		}
		if err = body.WriteBytes(pub); err != nil {
			return err
		}

		if c.Suite.Kex == libsui.KexECDHEKEM {
			k := c.Suite.KEM()

			ct, kemShared, er := k.Encapsulate(c.kemPublic)
			if er != nil {
				return er
			}

			if err = body.WriteUint16(uint16(len(ct))); err != nil {
				return err
			}
			if err = body.WriteBytes(ct); err != nil {
				return err
			}

			pms = libkem.ConcatSecrets(shared, kemShared)
			libprv.WipeSecret(shared)
			libprv.WipeSecret(kemShared)
		} else {
			pms = shared
		}

	default:
		return ErrorHandshakeFailure.Error(nil)
	}

	c.clientKeyExchangeMsg = append([]byte(nil), body.Written()...)

	if err = c.writeMessage(libsui.TypeClientKeyExchange, body.Written()); err != nil {
		return err
	}

	err = c.deriveMaster12(pms)
	libprv.WipeSecret(pms)
	if err != nil {
		return err
	}

	if err = c.installPending12(); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processClientKeyExchange is the server side of the exchange. The raw
// message body is retained for the hybrid master secret.
func (c *Conn) processClientKeyExchange(in *libstf.Stuffer, body []byte) liberr.Error {
	c.clientKeyExchangeMsg = append([]byte(nil), body...)

	var pms []byte

	switch c.Suite.Kex {
	case libsui.KexRSA:
		encLen, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		enc, err := in.ReadN(int(encLen))
		if err != nil || in.Avail() != 0 {
			return ErrorBadMessage.Error(nil)
		}

		cert, err := c.selectRSAKexCert()
		if err != nil {
			return err
		}

		// Bleichenbacher defense: a random premaster stands in when the
		// decryption or the embedded version fails, with no early exit.
		pms = make([]byte, libsui.MasterSecretLen)
		if err = libprv.Fill(pms); err != nil {
			return err
		}
		fallback := append([]byte(nil), pms...)

		key, ok := cert.Key.(*rsa.PrivateKey)
		if !ok {
			return ErrorCertTypeUnsupported.Error(nil)
		}

		_ = rsa.DecryptPKCS1v15SessionKey(libprv.Reader(), key, enc, pms)

		bad := subtle.ConstantTimeByteEq(pms[0], rsaKexVersion[0])&
			subtle.ConstantTimeByteEq(pms[1], rsaKexVersion[1]) != 1
		libblb.CondCopy(pms, fallback, bad)
		libblb.WipeBytes(fallback)

	case libsui.KexECDHE, libsui.KexECDHEKEM:
		pubLen, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		peerPub, err := in.ReadN(int(pubLen))
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		shared, err := c.kexPair.SharedSecret(peerPub)
		if err != nil {
			return err
		}
		c.kexPair.Wipe()
		c.kexPair = nil

		if c.Suite.Kex == libsui.KexECDHEKEM {
			ctLen, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}

			ct, err := in.ReadN(int(ctLen))
			if err != nil || in.Avail() != 0 {
				return ErrorBadMessage.Error(nil)
			}

			kemShared, err := c.kemPriv.Decapsulate(ct)
			if err != nil {
				return err
			}
			c.kemPriv.Wipe()
			c.kemPriv = nil

			pms = libkem.ConcatSecrets(shared, kemShared)
			libprv.WipeSecret(shared)
			libprv.WipeSecret(kemShared)
		} else {
			if in.Avail() != 0 {
				return ErrorBadMessage.Error(nil)
			}
			pms = shared
		}

	default:
		return ErrorHandshakeFailure.Error(nil)
	}

	err := c.deriveMaster12(pms)
	libprv.WipeSecret(pms)
	if err != nil {
		return err
	}

	if err = c.installPending12(); err != nil {
		return err
	}

	c.advance()

	return nil
}

// selectRSAKexCert returns the RSA chain the RSA key exchange decrypts
// with.
func (c *Conn) selectRSAKexCert() (*CertChain, liberr.Error) {
	cert := c.Set.certForType(PKeyRSA)
	if cert == nil {
		return nil, ErrorCertTypeUnsupported.Error(nil)
	}

	return cert, nil
}

// sendFinished emits the Finished message of either version.
func (c *Conn) sendFinished(st State) liberr.Error {
	th, err := c.transcript.Current()
	if err != nil {
		return err
	}

	var data []byte

	if c.Version >= libsui.VersionTLS13 {
		fk, err := c.finishedKey13(c.Role == RoleClient)
		if err != nil {
			return err
		}
		defer libblb.WipeBytes(fk)

		mac, err := libprv.NewHMAC(c.suiteHash(), fk)
		if err != nil {
			return err
		}
		defer mac.Wipe()

		if err = mac.Update(th); err != nil {
			return err
		}

		data = make([]byte, mac.Size())
		if err = mac.Digest(data); err != nil {
			return err
		}
	} else {
		if data, err = libprf.FinishedData(c.suiteHash(), c.MasterSecret, c.Role == RoleClient, th); err != nil {
			return err
		}
	}

	if err = c.writeMessage(libsui.TypeFinished, data); err != nil {
		return err
	}

	c.advance()

	return c.afterFinishedSent(st)
}

// processFinished verifies the peer Finished in constant time against the
// transcript as it stood before the message.
func (c *Conn) processFinished(st State, in *libstf.Stuffer, snapshot *Transcript) liberr.Error {
	th, err := snapshot.Current()
	if err != nil {
		return err
	}

	peerIsClient := st == StateClientFinished

	var want []byte

	if c.Version >= libsui.VersionTLS13 {
		fk, err := c.finishedKey13(peerIsClient)
		if err != nil {
			return err
		}
		defer libblb.WipeBytes(fk)

		mac, err := libprv.NewHMAC(c.suiteHash(), fk)
		if err != nil {
			return err
		}
		defer mac.Wipe()

		if err = mac.Update(th); err != nil {
			return err
		}

		want = make([]byte, mac.Size())
		if err = mac.Digest(want); err != nil {
			return err
		}
	} else {
		if want, err = libprf.FinishedData(c.suiteHash(), c.MasterSecret, peerIsClient, th); err != nil {
			return err
		}
	}

	got := in.Bytes()
	if len(got) != len(want) || subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrorFinishedMismatch.Error(nil)
	}

	c.advance()

	return c.afterFinishedReceived(st)
}

// afterFinishedSent runs the key transitions hanging off our own Finished.
func (c *Conn) afterFinishedSent(st State) liberr.Error {
	if c.Version < libsui.VersionTLS13 {
		return nil
	}

	if st == StateServerFinished {
		// The server's application write keys start right after its
		// Finished; reads stay under handshake keys until the client
		// responds.
		if err := c.deriveAppSecrets13(); err != nil {
			return err
		}
		return c.switchWriteToApp13()
	}

	// Client: its Finished closes the handshake.
	if err := c.deriveResumptionMaster13(); err != nil {
		return err
	}

	return c.switchWriteToApp13()
}

// afterFinishedReceived runs the key transitions hanging off the peer
// Finished.
func (c *Conn) afterFinishedReceived(st State) liberr.Error {
	if c.Version < libsui.VersionTLS13 {
		return nil
	}

	if st == StateServerFinished {
		// Client side: application secrets exist now; the read
		// direction flips immediately, writes stay on handshake keys
		// for the client's own flight.
		if err := c.deriveAppSecrets13(); err != nil {
			return err
		}
		return c.switchReadToApp13()
	}

	// Server side: the client Finished completes the handshake.
	if err := c.deriveResumptionMaster13(); err != nil {
		return err
	}

	return c.switchReadToApp13()
}
