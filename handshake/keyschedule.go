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
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libhkd "github.com/nabbar/gotls/hkdf"
	libprf "github.com/nabbar/gotls/prf"
	libprv "github.com/nabbar/gotls/provider"
	librec "github.com/nabbar/gotls/record"
	libsui "github.com/nabbar/gotls/suite"
)

// geometry12 returns the key block element sizes of a suite.
func geometry12(s *libsui.CipherSuite) (keyLen, macLen, ivLen int) {
	desc := s.Cipher()
	keyLen = desc.KeyLen()

	switch desc.Kind() {
	case libprv.KindAEAD:
		ivLen = desc.FixedIVLen()
	case libprv.KindCBC, libprv.KindComposite:
		macLen = s.MACAlgo.Size()
		ivLen = desc.BlockSize()
	case libprv.KindStream:
		macLen = s.MACAlgo.Size()
	}

	return keyLen, macLen, ivLen
}

// buildKeys12 assembles the protection state of one direction from its key
// block slots.
func buildKeys12(s *libsui.CipherSuite, key, macKey, iv []byte) (*librec.SessionKeys, liberr.Error) {
	desc := s.Cipher()

	var (
		sess libprv.Session
		mac  libprv.HMAC
		err  liberr.Error
	)

	switch desc.Kind() {
	case libprv.KindComposite:
		if sess, err = desc.NewSession(key, macKey); err != nil {
			return nil, err
		}
	case libprv.KindCBC, libprv.KindStream:
		if sess, err = desc.NewSession(key, nil); err != nil {
			return nil, err
		}
		if mac, err = libprv.NewHMAC(s.MACAlgo, macKey); err != nil {
			return nil, err
		}
	default:
		if sess, err = desc.NewSession(key, nil); err != nil {
			return nil, err
		}
	}

	return &librec.SessionKeys{
		Suite:   s,
		Desc:    desc,
		Cipher:  sess,
		FixedIV: append([]byte(nil), iv...),
		MAC:     mac,
	}, nil
}

// deriveMaster12 turns the premaster secret into the master secret. The
// hybrid label binds the raw ClientKeyExchange bytes; the extended label
// binds the session hash.
func (c *Conn) deriveMaster12(pms []byte) liberr.Error {
	hash := c.suiteHash()

	var (
		master []byte
		err    liberr.Error
	)

	switch {
	case c.Suite.Kex == libsui.KexECDHEKEM:
		master, err = libprf.HybridMasterSecret(hash, pms, c.ClientRandom[:], c.ServerRandom[:], c.clientKeyExchangeMsg)
	case c.extendedMS:
		var sessionHash []byte
		if sessionHash, err = c.transcript.Current(); err != nil {
			return err
		}
		master, err = libprf.ExtendedMasterSecret(hash, pms, sessionHash)
	default:
		master, err = libprf.MasterSecret(hash, pms, c.ClientRandom[:], c.ServerRandom[:])
	}

	if err != nil {
		return err
	}

	c.MasterSecret = master

	return nil
}

// installPending12 derives the TLS 1.2 key block and stages both
// directions behind the ChangeCipherSpec barrier.
func (c *Conn) installPending12() liberr.Error {
	keyLen, macLen, ivLen := geometry12(c.Suite)

	block, err := libprf.KeyBlock(c.suiteHash(), c.MasterSecret,
		c.ServerRandom[:], c.ClientRandom[:], 2*(keyLen+macLen+ivLen))
	if err != nil {
		return err
	}
	defer libblb.WipeBytes(block)

	var off int
	next := func(n int) []byte {
		out := block[off : off+n]
		off += n
		return out
	}

	clientMac := next(macLen)
	serverMac := next(macLen)
	clientKey := next(keyLen)
	serverKey := next(keyLen)
	clientIV := next(ivLen)
	serverIV := next(ivLen)

	clientKeys, err := buildKeys12(c.Suite, clientKey, clientMac, clientIV)
	if err != nil {
		return err
	}

	serverKeys, err := buildKeys12(c.Suite, serverKey, serverMac, serverIV)
	if err != nil {
		return err
	}

	if c.Role == RoleClient {
		c.PendingWrite = clientKeys
		c.PendingRead = serverKeys
	} else {
		c.PendingWrite = serverKeys
		c.PendingRead = clientKeys
	}

	return nil
}

// keysFromSecret13 derives the record protection of one direction from a
// TLS 1.3 traffic secret.
func keysFromSecret13(s *libsui.CipherSuite, secret []byte) (*librec.SessionKeys, liberr.Error) {
	desc := s.Cipher()

	key, iv, err := libhkd.TrafficKeyIV(s.PRFHash, secret, desc.KeyLen(), desc.FixedIVLen())
	if err != nil {
		return nil, err
	}
	defer libblb.WipeBytes(key)

	sess, err := desc.NewSession(key, nil)
	if err != nil {
		return nil, err
	}

	return &librec.SessionKeys{
		Suite:   s,
		Desc:    desc,
		Cipher:  sess,
		FixedIV: iv,
	}, nil
}

// installHandshakeKeys13 runs the schedule through the handshake secret
// and switches both directions to the handshake traffic keys. The
// transcript must already contain the ServerHello.
func (c *Conn) installHandshakeKeys13(sharedSecret []byte) liberr.Error {
	sched := libhkd.NewSchedule(c.suiteHash())

	var psk []byte
	if c.usingPSK && c.PSK.Chosen != nil {
		psk = c.PSK.Chosen.Secret
	}

	if err := sched.DeriveEarly(psk); err != nil {
		return err
	}

	if err := sched.DeriveHandshake(sharedSecret); err != nil {
		return err
	}

	th, err := c.transcript.Current()
	if err != nil {
		return err
	}

	if c.hsTrafficC, err = sched.Secret(libhkd.LabelClientHandshake, th); err != nil {
		return err
	}
	if c.hsTrafficS, err = sched.Secret(libhkd.LabelServerHandshake, th); err != nil {
		return err
	}

	clientKeys, err := keysFromSecret13(c.Suite, c.hsTrafficC)
	if err != nil {
		return err
	}
	serverKeys, err := keysFromSecret13(c.Suite, c.hsTrafficS)
	if err != nil {
		return err
	}

	c.ReadKeys.Wipe()
	c.WriteKeys.Wipe()

	if c.Role == RoleClient {
		c.WriteKeys = clientKeys
		c.ReadKeys = serverKeys
	} else {
		c.WriteKeys = serverKeys
		c.ReadKeys = clientKeys
	}

	c.Schedule = sched

	return nil
}

// deriveAppSecrets13 moves the schedule to the master secret and derives
// the application traffic, exporter and resumption inputs. The transcript
// must contain everything through the server Finished.
func (c *Conn) deriveAppSecrets13() liberr.Error {
	if err := c.Schedule.DeriveMaster(); err != nil {
		return err
	}

	th, err := c.transcript.Current()
	if err != nil {
		return err
	}

	if c.appTrafficC, err = c.Schedule.Secret(libhkd.LabelClientApp, th); err != nil {
		return err
	}
	if c.appTrafficS, err = c.Schedule.Secret(libhkd.LabelServerApp, th); err != nil {
		return err
	}
	if c.exporterMaster, err = c.Schedule.Secret(libhkd.LabelExporterMaster, th); err != nil {
		return err
	}

	return nil
}

// deriveResumptionMaster13 binds the resumption master secret to the full
// transcript, client Finished included.
func (c *Conn) deriveResumptionMaster13() liberr.Error {
	th, err := c.transcript.Current()
	if err != nil {
		return err
	}

	c.resumptionMast, err = c.Schedule.Secret(libhkd.LabelResumptionMast, th)

	return err
}

// switchWriteToApp13 / switchReadToApp13 install the application keys per
// direction at the right point of the flight order.
func (c *Conn) switchWriteToApp13() liberr.Error {
	secret := c.appTrafficS
	if c.Role == RoleClient {
		secret = c.appTrafficC
	}

	keys, err := keysFromSecret13(c.Suite, secret)
	if err != nil {
		return err
	}

	c.WriteKeys.Wipe()
	c.WriteKeys = keys

	return nil
}

func (c *Conn) switchReadToApp13() liberr.Error {
	secret := c.appTrafficC
	if c.Role == RoleClient {
		secret = c.appTrafficS
	}

	keys, err := keysFromSecret13(c.Suite, secret)
	if err != nil {
		return err
	}

	c.ReadKeys.Wipe()
	c.ReadKeys = keys

	return nil
}

// finishedKey13 derives the finished key of one side's handshake traffic
// secret.
func (c *Conn) finishedKey13(client bool) ([]byte, liberr.Error) {
	secret := c.hsTrafficS
	if client {
		secret = c.hsTrafficC
	}

	return libhkd.FinishedKey(c.suiteHash(), secret)
}

// rotateReadKeys13 applies a KeyUpdate from the peer.
func (c *Conn) rotateReadKeys13() liberr.Error {
	var err liberr.Error

	if c.Role == RoleClient {
		if c.appTrafficS, err = libhkd.NextTrafficSecret(c.suiteHash(), c.appTrafficS); err != nil {
			return err
		}
	} else {
		if c.appTrafficC, err = libhkd.NextTrafficSecret(c.suiteHash(), c.appTrafficC); err != nil {
			return err
		}
	}

	return c.switchReadToApp13()
}

// rotateWriteKeys13 advances our own sending generation.
func (c *Conn) rotateWriteKeys13() liberr.Error {
	var err liberr.Error

	if c.Role == RoleClient {
		if c.appTrafficC, err = libhkd.NextTrafficSecret(c.suiteHash(), c.appTrafficC); err != nil {
			return err
		}
	} else {
		if c.appTrafficS, err = libhkd.NextTrafficSecret(c.suiteHash(), c.appTrafficS); err != nil {
			return err
		}
	}

	return c.switchWriteToApp13()
}
