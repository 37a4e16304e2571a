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

package connection

import (
	"github.com/fxamacker/cbor/v2"

	liberr "github.com/nabbar/gotls/errors"
	libhsk "github.com/nabbar/gotls/handshake"
	libprv "github.com/nabbar/gotls/provider"
	libsui "github.com/nabbar/gotls/suite"
)

// sessionState is the persisted resumption material. The embedder stores
// the encoded blob and hands it back to a future connection; the core
// never interprets ticket bytes beyond this frame.
type sessionState struct {
	Version     uint16 `cbor:"1,keyasint"`
	Suite       uint16 `cbor:"2,keyasint"`
	Master      []byte `cbor:"3,keyasint,omitempty"`
	Ticket      []byte `cbor:"4,keyasint,omitempty"`
	PSKIdentity []byte `cbor:"5,keyasint,omitempty"`
	PSKSecret   []byte `cbor:"6,keyasint,omitempty"`
	PSKHash     uint8  `cbor:"7,keyasint,omitempty"`
	AgeAdd      uint32 `cbor:"8,keyasint,omitempty"`
}

// ExportSession serializes the resumption state of a completed client
// handshake: master secret plus ticket for TLS 1.2, the derived
// resumption PSK for TLS 1.3.
func (c *Connection) ExportSession() ([]byte, liberr.Error) {
	if c.hs.InProgress() {
		return nil, ErrorState.Error(nil)
	}

	st := sessionState{
		Version: uint16(c.hs.Version),
	}

	if c.hs.Version >= libsui.VersionTLS13 {
		if c.lastTicketPSK == nil {
			return nil, ErrorBadSession.Error(nil)
		}

		st.Suite = c.hs.Suite.IANA
		st.PSKIdentity = c.lastTicketPSK.Identity
		st.PSKSecret = c.lastTicketPSK.Secret
		st.PSKHash = uint8(c.lastTicketPSK.HMAC)
		st.AgeAdd = c.lastTicketPSK.TicketAgeAdd
	} else {
		if len(c.lastTicket) == 0 || len(c.hs.MasterSecret) == 0 {
			return nil, ErrorBadSession.Error(nil)
		}

		st.Suite = c.hs.Suite.IANA
		st.Master = c.hs.MasterSecret
		st.Ticket = c.lastTicket
	}

	out, err := cbor.Marshal(st)
	if err != nil {
		return nil, ErrorBadSession.Error(err)
	}

	return out, nil
}

// ResumeSession primes a fresh connection with previously exported state.
// Call before Handshake.
func (c *Connection) ResumeSession(data []byte) liberr.Error {
	if c.hs.State() != libhsk.StateClientHello || c.role != libhsk.RoleClient {
		return ErrorState.Error(nil)
	}

	var st sessionState
	if err := cbor.Unmarshal(data, &st); err != nil {
		return ErrorBadSession.Error(err)
	}

	if libsui.Version(st.Version) >= libsui.VersionTLS13 {
		if len(st.PSKIdentity) == 0 || len(st.PSKSecret) == 0 {
			return ErrorBadSession.Error(nil)
		}

		return c.hs.PSK.Append(&libhsk.PSK{
			Type:         libhsk.PSKResumption,
			Identity:     st.PSKIdentity,
			Secret:       st.PSKSecret,
			HMAC:         libprv.HashAlgo(st.PSKHash),
			TicketAgeAdd: st.AgeAdd,
		})
	}

	rs := libsui.Lookup(st.Suite)
	if rs == nil || len(st.Master) != libsui.MasterSecretLen || len(st.Ticket) == 0 {
		return ErrorBadSession.Error(nil)
	}

	c.hs.SessionTicket = st.Ticket
	c.hs.ResumeMaster = st.Master
	c.hs.ResumeSuite = rs

	return nil
}
