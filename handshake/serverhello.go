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
	libprv "github.com/nabbar/gotls/provider"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// legacyFieldVersion is the version byte pair inside the ServerHello body.
func (c *Conn) legacyFieldVersion() libsui.Version {
	if c.Version >= libsui.VersionTLS13 {
		return libsui.VersionTLS12
	}

	return c.Version
}

// sendServerHello emits the ServerHello, or the pending HelloRetryRequest
// when the ClientHello lacked a usable key share.
func (c *Conn) sendServerHello() liberr.Error {
	if c.sentHRR && !c.hrrDone {
		return c.sendHelloRetry()
	}

	if err := libprv.Fill(c.ServerRandom[:]); err != nil {
		return err
	}

	body, err := libstf.New(256)
	if err != nil {
		return err
	}

	if err = c.encodeHelloShape(body, c.ServerRandom[:], msgServerHello); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeServerHello, body.Written()); err != nil {
		return err
	}

	c.buildFlow()
	c.advance()

	if c.Version >= libsui.VersionTLS13 {
		var shared []byte

		if !c.pskOnly() {
			if shared, err = c.kexPair.SharedSecret(c.peerShare); err != nil {
				return err
			}
			c.kexPair.Wipe()
			c.kexPair = nil
		}

		err = c.installHandshakeKeys13(shared)
		libprv.WipeSecret(shared)
		if err != nil {
			return err
		}
	} else if c.resuming {
		c.MasterSecret = append([]byte(nil), c.ResumeMaster...)
		if err = c.installPending12(); err != nil {
			return err
		}
	}

	return nil
}

// encodeHelloShape writes the common ServerHello body: legacy version,
// random, session id echo, suite, compression, extensions.
func (c *Conn) encodeHelloShape(body *libstf.Stuffer, random []byte, kind msgKind) liberr.Error {
	if err := body.WriteUint16(uint16(c.legacyFieldVersion())); err != nil {
		return err
	}

	if err := body.WriteBytes(random); err != nil {
		return err
	}

	sid := []byte(nil)
	if c.Version < libsui.VersionTLS13 && c.resuming {
		sid = c.legacySID
	} else if c.Version >= libsui.VersionTLS13 {
		sid = c.legacySID
	}

	if err := body.WriteUint8(uint8(len(sid))); err != nil {
		return err
	}
	if err := body.WriteBytes(sid); err != nil {
		return err
	}

	if err := body.WriteUint16(c.Suite.IANA); err != nil {
		return err
	}

	if err := body.WriteUint8(0); err != nil {
		return err
	}

	return c.sendExtensions(kind, body)
}

// sendHelloRetry emits a HelloRetryRequest: a ServerHello with the magic
// random and only the retry extensions. ClientHello1 collapses into a
// message_hash first.
func (c *Conn) sendHelloRetry() liberr.Error {
	if err := c.transcript.ReplaceWithMessageHash(); err != nil {
		return err
	}

	body, err := libstf.New(128)
	if err != nil {
		return err
	}

	if err = c.encodeHelloShape(body, libsui.HelloRetryRandom[:], msgHelloRetry); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeServerHello, body.Written()); err != nil {
		return err
	}

	c.hrrDone = true

	// Back to waiting for the retried ClientHello.
	c.resetFlow()

	return nil
}

// processServerHello handles the ServerHello on the client.
func (c *Conn) processServerHello(in *libstf.Stuffer) liberr.Error {
	legacy, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	if err = in.ReadBytes(c.ServerRandom[:]); err != nil {
		return ErrorBadMessage.Error(err)
	}

	sidLen, err := in.ReadUint8()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	sid, err := in.ReadN(int(sidLen))
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	suiteIANA, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	comp, err := in.ReadUint8()
	if err != nil || comp != 0 {
		return ErrorBadMessage.Error(nil)
	}

	chosen := libsui.Lookup(suiteIANA)
	if chosen == nil {
		return ErrorNoCipherOverlap.Error(nil)
	}

	offered := false
	for _, s := range c.offeredSuites() {
		if s.IANA == suiteIANA {
			offered = true
			break
		}
	}
	if !offered {
		return ErrorNoCipherOverlap.Error(nil)
	}

	c.Suite = chosen
	c.transcript.Select(chosen.PRFHash)

	// supported_versions may override to 1.3 during extension dispatch.
	c.Version = libsui.Version(legacy)

	if err = c.recvExtensions(msgServerHello, in); err != nil {
		return err
	}

	if c.Version < c.Set.VersionMin || c.Version > c.Set.VersionMax {
		return ErrorBadVersion.Error(nil)
	}

	c.VersionEstablished = true

	if c.Version >= libsui.VersionTLS13 {
		if chosen.IsTLS13() == false {
			return ErrorNoCipherOverlap.Error(nil)
		}

		var shared []byte

		if !c.pskOnly() {
			if c.peerShare == nil || c.kexPair == nil {
				return ErrorBadMessage.Error(nil)
			}
			if shared, err = c.kexPair.SharedSecret(c.peerShare); err != nil {
				return err
			}
			c.kexPair.Wipe()
			c.kexPair = nil
		}

		c.buildFlow()
		c.advance()

		err = c.installHandshakeKeys13(shared)
		libprv.WipeSecret(shared)

		return err
	}

	if chosen.IsTLS13() {
		return ErrorNoCipherOverlap.Error(nil)
	}

	// TLS 1.2 ticket resumption is signalled by the echoed session id.
	if len(c.legacySID) > 0 && len(sid) == len(c.legacySID) && libblb.Eq(sid, c.legacySID) && len(c.SessionTicket) > 0 {
		c.resuming = true
		c.MasterSecret = append([]byte(nil), c.ResumeMaster...)
	}

	c.buildFlow()
	c.advance()

	if c.resuming {
		return c.installPending12()
	}

	return nil
}

// processHelloRetry handles a HelloRetryRequest on the client. A second
// retry is fatal.
func (c *Conn) processHelloRetry(in *libstf.Stuffer) liberr.Error {
	if c.helloRetried {
		return ErrorHelloRetryLoop.Error(nil)
	}

	legacy, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	_ = legacy

	if err = in.SkipRead(libsui.RandomLen); err != nil {
		return ErrorBadMessage.Error(err)
	}

	sidLen, err := in.ReadUint8()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	if err = in.SkipRead(int(sidLen)); err != nil {
		return ErrorBadMessage.Error(err)
	}

	suiteIANA, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	comp, err := in.ReadUint8()
	if err != nil || comp != 0 {
		return ErrorBadMessage.Error(nil)
	}

	chosen := libsui.Lookup(suiteIANA)
	if chosen == nil || !chosen.IsTLS13() {
		return ErrorNoCipherOverlap.Error(nil)
	}

	c.Suite = chosen
	c.transcript.Select(chosen.PRFHash)

	oldGroup := c.Group

	if err = c.recvExtensions(msgHelloRetry, in); err != nil {
		return err
	}

	// A retry that changes nothing is illegal.
	if c.Group == oldGroup {
		return ErrorBadMessage.Error(nil)
	}

	c.helloRetried = true

	// Redo the ClientHello with the corrected share.
	c.resetFlow()

	return nil
}
