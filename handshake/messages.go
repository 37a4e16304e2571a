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
	"bytes"

	liberr "github.com/nabbar/gotls/errors"
	librec "github.com/nabbar/gotls/record"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// wireVersion returns the record version byte pair for outgoing records:
// 0x0301 on the very first ClientHello, the negotiated version up to TLS
// 1.2, and the pinned 0x0303 under TLS 1.3.
func (c *Conn) wireVersion() libsui.Version {
	if c.Role == RoleClient && !c.sentFirstCH {
		return libsui.VersionTLS10
	}

	if c.VersionEstablished && c.Version < libsui.VersionTLS13 {
		return c.Version
	}

	return libsui.VersionTLS12
}

// WireVersion exposes the outbound record version to the connection layer.
func (c *Conn) WireVersion() libsui.Version {
	return c.wireVersion()
}

// writeMessage frames one handshake message, feeds the transcript and
// protects it under the current write keys.
func (c *Conn) writeMessage(t libsui.HandshakeType, body []byte) liberr.Error {
	if len(body) > libsui.MaxHandshakeLen {
		return ErrorMessageTooBig.Error(nil)
	}

	full := make([]byte, 0, 4+len(body))
	full = append(full, uint8(t), byte(len(body)>>16), byte(len(body)>>8), byte(len(body)))
	full = append(full, body...)

	if err := c.transcript.Update(full); err != nil {
		return err
	}
	c.hsRaw = append(c.hsRaw, full...)

	return librec.WriteAll(c.Out, c.WriteKeys, c.Version, c.wireVersion(), libsui.ContentHandshake, full, c.Set.MaxFragment)
}

// writeCCS emits a ChangeCipherSpec record under the outgoing keys still
// active, then swaps in the pending write keys: everything after the
// barrier uses them.
func (c *Conn) writeCCS() liberr.Error {
	if c.Set.QUIC {
		return nil
	}

	if err := librec.Write(c.Out, c.WriteKeys, c.Version, c.wireVersion(), libsui.ContentChangeCipherSpec, []byte{1}); err != nil {
		return err
	}

	if c.PendingWrite == nil {
		return ErrorKeyInstall.Error(nil)
	}

	c.WriteKeys.Wipe()
	c.WriteKeys = c.PendingWrite
	c.PendingWrite = nil
	c.WriteKeys.ResetSeq()

	return nil
}

// Feed consumes the plaintext of one received record. Handshake fragments
// accumulate in the reassembly buffer until whole messages dispatch;
// ChangeCipherSpec records hit the key barrier.
func (c *Conn) Feed(ct libsui.ContentType, payload []byte) liberr.Error {
	switch ct {
	case libsui.ContentHandshake:
		if err := c.hsBuf.WriteBytes(payload); err != nil {
			return err
		}
		return c.processBuffered()

	case libsui.ContentChangeCipherSpec:
		if len(payload) != 1 || payload[0] != 1 {
			return ErrorBadMessage.Error(nil)
		}

		ok, err := c.matchCCS()
		if err != nil {
			return err
		}

		if !ok {
			// TLS 1.3 middlebox compatibility: stray CCS ignored.
			return nil
		}

		if c.PendingRead == nil {
			return ErrorKeyInstall.Error(nil)
		}

		c.ReadKeys.Wipe()
		c.ReadKeys = c.PendingRead
		c.PendingRead = nil
		c.ReadKeys.ResetSeq()
		c.advance()

		return nil
	}

	return ErrorUnexpectedMessage.Error(nil)
}

// processBuffered dispatches every complete message sitting in the
// reassembly buffer.
func (c *Conn) processBuffered() liberr.Error {
	for {
		win := c.hsBuf.Bytes()
		if len(win) < 4 {
			break
		}

		t := libsui.HandshakeType(win[0])
		l := int(win[1])<<16 | int(win[2])<<8 | int(win[3])

		if l > libsui.MaxHandshakeLen {
			return ErrorMessageTooBig.Error(nil)
		}

		if len(win) < 4+l {
			break
		}

		if err := c.dispatch(t, win[:4+l]); err != nil {
			return err
		}

		if err := c.hsBuf.SkipRead(4 + l); err != nil {
			return err
		}

		if c.hsBuf.Avail() == 0 {
			c.hsBuf.Wipe()
		}
	}

	return nil
}

// dispatch routes one complete handshake message. The transcript snapshot
// taken before feeding serves the handlers that bind to the transcript as
// it stood before this message.
func (c *Conn) dispatch(t libsui.HandshakeType, full []byte) liberr.Error {
	body := full[4:]

	if !c.InProgress() {
		return c.handlePostHandshake(t, body)
	}

	isHRR := false
	if t == libsui.TypeServerHello && c.Role == RoleClient && len(body) >= 34 {
		isHRR = bytes.Equal(body[2:34], libsui.HelloRetryRandom[:])
	}

	snapshot, err := c.transcript.Snapshot()
	if err != nil {
		return err
	}

	if isHRR {
		// RFC 8446 section 4.4.1: ClientHello1 collapses to a synthetic
		// message_hash before the HelloRetryRequest enters the
		// transcript.
		if err = c.transcript.ReplaceWithMessageHash(); err != nil {
			return err
		}
	}

	if err = c.transcript.Update(full); err != nil {
		return err
	}
	c.hsRaw = append(c.hsRaw, full...)

	st, err := c.matchIncoming(t)
	if err != nil {
		return err
	}

	in := libstf.FromBytes(body)

	switch st {
	case StateClientHello:
		return c.processClientHello(in, full, snapshot)
	case StateServerHello:
		if isHRR {
			return c.processHelloRetry(in)
		}
		return c.processServerHello(in)
	case StateEncryptedExtensions:
		return c.processEncryptedExtensions(in)
	case StateCertReq:
		return c.processCertificateRequest(in)
	case StateServerCert, StateClientCert:
		return c.processCertificate(st, in)
	case StateServerCertVerify, StateClientCertVerify:
		return c.processCertificateVerify(st, in, snapshot)
	case StateCertStatus:
		return c.processCertificateStatus(in)
	case StateServerKeyExchange:
		return c.processServerKeyExchange(in)
	case StateServerHelloDone:
		return c.processServerHelloDone(in)
	case StateClientKeyExchange:
		return c.processClientKeyExchange(in, body)
	case StateClientFinished, StateServerFinished:
		return c.processFinished(st, in, snapshot)
	case StateNewSessionTicket:
		return c.processNewSessionTicket12(in)
	}

	return ErrorUnexpectedMessage.Error(nil)
}

// WriteNext emits every consecutive message the flow expects from us. The
// caller flushes c.Out to the transport between calls.
func (c *Conn) WriteNext() liberr.Error {
	for c.InProgress() && c.IsWriter() {
		if err := c.emit(c.State()); err != nil {
			return err
		}
	}

	return nil
}

// emit sends the message of one writer state and advances the flow.
func (c *Conn) emit(st State) liberr.Error {
	switch st {
	case StateClientHello:
		return c.sendClientHello()
	case StateServerHello:
		return c.sendServerHello()
	case StateEncryptedExtensions:
		return c.sendEncryptedExtensions()
	case StateCertReq:
		return c.sendCertificateRequest()
	case StateServerCert, StateClientCert:
		return c.sendCertificate(st)
	case StateServerCertVerify, StateClientCertVerify:
		return c.sendCertificateVerify(st)
	case StateCertStatus:
		return c.sendCertificateStatus()
	case StateServerKeyExchange:
		return c.sendServerKeyExchange()
	case StateServerHelloDone:
		return c.sendServerHelloDone()
	case StateClientKeyExchange:
		return c.sendClientKeyExchange()
	case StateClientCCS, StateServerCCS:
		if err := c.writeCCS(); err != nil {
			return err
		}
		c.advance()
		return nil
	case StateClientFinished, StateServerFinished:
		return c.sendFinished(st)
	case StateNewSessionTicket:
		return c.sendNewSessionTicket12()
	}

	return ErrorState.Error(nil)
}
