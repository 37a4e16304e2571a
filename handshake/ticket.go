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
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// defaultTicketLifetime is the advertised 1.2 ticket lifetime in seconds.
const defaultTicketLifetime = 7200

// sendNewSessionTicket12 wraps the session state into an opaque ticket and
// hands it to the client inside the handshake.
func (c *Conn) sendNewSessionTicket12() liberr.Error {
	if c.TicketMint == nil {
		c.advance()
		return nil
	}

	ticket, er := c.TicketMint(c.MasterSecret, c.Suite.IANA)
	if er != nil {
		return ErrorHandshakeFailure.Error(er)
	}

	body, err := libstf.New(len(ticket) + 8)
	if err != nil {
		return err
	}

	if err = body.WriteUint32(defaultTicketLifetime); err != nil {
		return err
	}
	if err = body.WriteUint16(uint16(len(ticket))); err != nil {
		return err
	}
	if err = body.WriteBytes(ticket); err != nil {
		return err
	}

	if err = c.writeMessage(libsui.TypeNewSessionTicket, body.Written()); err != nil {
		return err
	}

	c.advance()

	return nil
}

// processNewSessionTicket12 stores the opaque ticket for the embedder to
// persist.
func (c *Conn) processNewSessionTicket12(in *libstf.Stuffer) liberr.Error {
	lifetime, err := in.ReadUint32()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	_ = lifetime

	l, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	ticket, err := in.ReadN(int(l))
	if err != nil || in.Avail() != 0 {
		return ErrorBadMessage.Error(nil)
	}

	c.SessionTicket = ticket

	if c.TicketReceived != nil {
		c.TicketReceived(ticket, nil)
	}

	c.advance()

	return nil
}
