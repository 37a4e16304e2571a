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
	libhkd "github.com/nabbar/gotls/hkdf"
	libprv "github.com/nabbar/gotls/provider"
	librec "github.com/nabbar/gotls/record"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// sendEncryptedExtensions emits the server's protected extension block.
func (c *Conn) sendEncryptedExtensions() liberr.Error {
	body, err := libstf.New(128)
	if err != nil {
		return err
	}

	if err = c.sendExtensions(msgEncryptedExtensions, body); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeEncryptedExtensions, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

func (c *Conn) processEncryptedExtensions(in *libstf.Stuffer) liberr.Error {
	if err := c.recvExtensions(msgEncryptedExtensions, in); err != nil {
		return err
	}

	c.advance()

	return nil
}

// SendNewSessionTicket issues a TLS 1.3 resumption ticket. Callable any
// time after the handshake completes; a nil TicketMint disables issuance.
func (c *Conn) SendNewSessionTicket(lifetime uint32) liberr.Error {
	if c.InProgress() || c.Version < libsui.VersionTLS13 || c.Role != RoleServer {
		return ErrorState.Error(nil)
	}

	if c.TicketMint == nil {
		return nil
	}

	nonce := []byte{byte(c.ticketsIssued >> 8), byte(c.ticketsIssued)}
	c.ticketsIssued++

	psk, err := libhkd.ResumptionPSK(c.suiteHash(), c.resumptionMast, nonce)
	if err != nil {
		return err
	}

	ticket, er := c.TicketMint(psk, c.Suite.IANA)
	if er != nil {
		return ErrorHandshakeFailure.Error(er)
	}

	var ageAdd [4]byte
	if err = libprv.Fill(ageAdd[:]); err != nil {
		return err
	}

	body, err := libstf.New(len(ticket) + 32)
	if err != nil {
		return err
	}

	if err = body.WriteUint32(lifetime); err != nil {
		return err
	}
	if err = body.WriteBytes(ageAdd[:]); err != nil {
		return err
	}
	if err = body.WriteUint8(uint8(len(nonce))); err != nil {
		return err
	}
	if err = body.WriteBytes(nonce); err != nil {
		return err
	}
	if err = body.WriteUint16(uint16(len(ticket))); err != nil {
		return err
	}
	if err = body.WriteBytes(ticket); err != nil {
		return err
	}
	if err = body.WriteUint16(0); err != nil {
		return err
	}

	// Post-handshake messages stay out of the transcript.
	full := make([]byte, 0, 4+body.Avail())
	full = append(full, uint8(libsui.TypeNewSessionTicket),
		byte(body.Avail()>>16), byte(body.Avail()>>8), byte(body.Avail()))
	full = append(full, body.Bytes()...)

	return c.writeRaw(full)
}

// processNewSessionTicket13 derives the resumption PSK the ticket stands
// for and hands both to the embedder.
func (c *Conn) processNewSessionTicket13(in *libstf.Stuffer) liberr.Error {
	lifetime, err := in.ReadUint32()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	_ = lifetime

	ageAdd, err := in.ReadUint32()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	nonceLen, err := in.ReadUint8()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	nonce, err := in.ReadN(int(nonceLen))
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	ticketLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	ticket, err := in.ReadN(int(ticketLen))
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	extLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	if err = in.SkipRead(int(extLen)); err != nil || in.Avail() != 0 {
		return ErrorBadMessage.Error(nil)
	}

	secret, err := libhkd.ResumptionPSK(c.suiteHash(), c.resumptionMast, nonce)
	if err != nil {
		return err
	}

	psk := &PSK{
		Type:         PSKResumption,
		Identity:     ticket,
		Secret:       secret,
		HMAC:         c.suiteHash(),
		TicketAgeAdd: ageAdd,
	}

	if c.TicketReceived != nil {
		c.TicketReceived(ticket, psk)
	}

	return nil
}

// SendKeyUpdate rotates our sending keys and tells the peer, optionally
// requesting it rotates too.
func (c *Conn) SendKeyUpdate(requestPeer bool) liberr.Error {
	if c.InProgress() || c.Version < libsui.VersionTLS13 {
		return ErrorState.Error(nil)
	}

	v := uint8(0)
	if requestPeer {
		v = 1
	}

	full := []byte{uint8(libsui.TypeKeyUpdate), 0, 0, 1, v}

	if err := c.writeRaw(full); err != nil {
		return err
	}

	return c.rotateWriteKeys13()
}

// processKeyUpdate applies the peer rotation and queues our own when
// requested.
func (c *Conn) processKeyUpdate(in *libstf.Stuffer) liberr.Error {
	v, err := in.ReadUint8()
	if err != nil || in.Avail() != 0 || v > 1 {
		return ErrorBadMessage.Error(nil)
	}

	if err = c.rotateReadKeys13(); err != nil {
		return err
	}

	if v == 1 {
		c.keyUpdatePend = true
	}

	return nil
}

// KeyUpdatePending reports whether the peer asked for our rotation; the
// connection layer answers it between application writes.
func (c *Conn) KeyUpdatePending() bool {
	return c.keyUpdatePend
}

// AnswerKeyUpdate sends the rotation the peer asked for.
func (c *Conn) AnswerKeyUpdate() liberr.Error {
	if !c.keyUpdatePend {
		return nil
	}

	c.keyUpdatePend = false

	return c.SendKeyUpdate(false)
}

// writeRaw protects an already framed handshake message without touching
// the transcript.
func (c *Conn) writeRaw(full []byte) liberr.Error {
	return librec.WriteAll(c.Out, c.WriteKeys, c.Version, c.wireVersion(), libsui.ContentHandshake, full, c.Set.MaxFragment)
}

// handlePostHandshake routes messages arriving in the application data
// state.
func (c *Conn) handlePostHandshake(t libsui.HandshakeType, body []byte) liberr.Error {
	in := libstf.FromBytes(body)

	switch t {
	case libsui.TypeNewSessionTicket:
		if c.Version >= libsui.VersionTLS13 && c.Role == RoleClient {
			return c.processNewSessionTicket13(in)
		}
	case libsui.TypeKeyUpdate:
		if c.Version >= libsui.VersionTLS13 {
			return c.processKeyUpdate(in)
		}
	case libsui.TypeHelloRequest:
		// Renegotiation is not supported; the request is ignored.
		if c.Version < libsui.VersionTLS13 && c.Role == RoleClient && len(body) == 0 {
			return nil
		}
	}

	return ErrorUnexpectedMessage.Error(nil)
}
