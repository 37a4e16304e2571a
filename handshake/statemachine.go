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
	libsui "github.com/nabbar/gotls/suite"
)

// State names the message expected next. Terminal states are StateAppData
// and StateClosed.
type State uint8

const (
	StateClientHello State = iota
	StateServerHello
	StateEncryptedExtensions
	StateCertReq
	StateServerCert
	StateServerCertVerify
	StateCertStatus
	StateServerKeyExchange
	StateServerHelloDone
	StateClientCert
	StateClientKeyExchange
	StateClientCertVerify
	StateClientCCS
	StateClientFinished
	StateServerCCS
	StateServerFinished
	StateNewSessionTicket
	StateAppData
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateClientHello:
		return "CLIENT_HELLO"
	case StateServerHello:
		return "SERVER_HELLO"
	case StateEncryptedExtensions:
		return "ENCRYPTED_EXTENSIONS"
	case StateCertReq:
		return "CERT_REQ"
	case StateServerCert:
		return "SERVER_CERT"
	case StateServerCertVerify:
		return "SERVER_CERT_VERIFY"
	case StateCertStatus:
		return "CERT_STATUS"
	case StateServerKeyExchange:
		return "SERVER_KEY_EXCHANGE"
	case StateServerHelloDone:
		return "SERVER_HELLO_DONE"
	case StateClientCert:
		return "CLIENT_CERT"
	case StateClientKeyExchange:
		return "CLIENT_KEY_EXCHANGE"
	case StateClientCertVerify:
		return "CLIENT_CERT_VERIFY"
	case StateClientCCS:
		return "CLIENT_CHANGE_CIPHER_SPEC"
	case StateClientFinished:
		return "CLIENT_FINISHED"
	case StateServerCCS:
		return "SERVER_CHANGE_CIPHER_SPEC"
	case StateServerFinished:
		return "SERVER_FINISHED"
	case StateNewSessionTicket:
		return "NEW_SESSION_TICKET"
	case StateAppData:
		return "APPLICATION_DATA"
	case StateClosed:
		return "CLOSED"
	}

	return "UNKNOWN"
}

// stateInfo describes who sends a state's message and how it matches.
type stateInfo struct {
	typ      libsui.HandshakeType
	sender   Role
	optional bool
	ccs      bool
}

func (c *Conn) info(s State) stateInfo {
	switch s {
	case StateClientHello:
		return stateInfo{typ: libsui.TypeClientHello, sender: RoleClient}
	case StateServerHello:
		return stateInfo{typ: libsui.TypeServerHello, sender: RoleServer}
	case StateEncryptedExtensions:
		return stateInfo{typ: libsui.TypeEncryptedExtensions, sender: RoleServer}
	case StateCertReq:
		return stateInfo{typ: libsui.TypeCertificateRequest, sender: RoleServer, optional: true}
	case StateServerCert:
		return stateInfo{typ: libsui.TypeCertificate, sender: RoleServer}
	case StateServerCertVerify:
		return stateInfo{typ: libsui.TypeCertificateVerify, sender: RoleServer}
	case StateCertStatus:
		return stateInfo{typ: libsui.TypeCertificateStatus, sender: RoleServer, optional: true}
	case StateServerKeyExchange:
		return stateInfo{typ: libsui.TypeServerKeyExchange, sender: RoleServer}
	case StateServerHelloDone:
		return stateInfo{typ: libsui.TypeServerHelloDone, sender: RoleServer}
	case StateClientCert:
		return stateInfo{typ: libsui.TypeCertificate, sender: RoleClient, optional: true}
	case StateClientKeyExchange:
		return stateInfo{typ: libsui.TypeClientKeyExchange, sender: RoleClient}
	case StateClientCertVerify:
		return stateInfo{typ: libsui.TypeCertificateVerify, sender: RoleClient, optional: true}
	case StateClientCCS:
		return stateInfo{sender: RoleClient, ccs: true}
	case StateClientFinished:
		return stateInfo{typ: libsui.TypeFinished, sender: RoleClient}
	case StateServerCCS:
		return stateInfo{sender: RoleServer, ccs: true}
	case StateServerFinished:
		return stateInfo{typ: libsui.TypeFinished, sender: RoleServer}
	case StateNewSessionTicket:
		return stateInfo{typ: libsui.TypeNewSessionTicket, sender: RoleServer, optional: true}
	}

	return stateInfo{}
}

// resetFlow installs the pre-negotiation flow. It restarts from the
// ClientHello, which also serves the HelloRetryRequest loop.
func (c *Conn) resetFlow() {
	c.flow = []State{StateClientHello, StateServerHello}
	c.flowIdx = 0
}

// buildFlow extends the flow after the negotiation settled: version, suite,
// resumption, client auth and PSK mode are known once the ServerHello is on
// both sides.
func (c *Conn) buildFlow() {
	if c.Version >= libsui.VersionTLS13 {
		c.buildFlow13()
		return
	}

	if c.resuming {
		c.flow = append(c.flow,
			StateNewSessionTicket,
			StateServerCCS,
			StateServerFinished,
			StateClientCCS,
			StateClientFinished,
			StateAppData,
		)
		return
	}

	states := make([]State, 0, 16)

	// Optional receive states skip when the wire shows no such message;
	// the client therefore always leaves room for CertificateRequest,
	// while the server only inserts it when it will send one.
	clientAuth := c.Set.RequireClientAuth || c.Role == RoleClient

	// The certificate always flows in the full handshake: RSA kex needs
	// it for encryption, signing kex for the signature.
	states = append(states, StateServerCert, StateCertStatus)

	if c.Suite.Kex.Ephemeral() {
		states = append(states, StateServerKeyExchange)
	}

	if clientAuth {
		states = append(states, StateCertReq)
	}

	states = append(states, StateServerHelloDone)

	if clientAuth {
		states = append(states, StateClientCert)
	}

	states = append(states, StateClientKeyExchange)

	if clientAuth {
		states = append(states, StateClientCertVerify)
	}

	states = append(states,
		StateClientCCS,
		StateClientFinished,
	)

	if c.Set.SessionTickets && c.peerOffersST {
		states = append(states, StateNewSessionTicket)
	}

	states = append(states,
		StateServerCCS,
		StateServerFinished,
		StateAppData,
	)

	c.flow = append(c.flow, states...)
}

func (c *Conn) buildFlow13() {
	states := make([]State, 0, 12)

	states = append(states, StateEncryptedExtensions)

	clientAuth := c.Set.RequireClientAuth || c.Role == RoleClient

	if !c.usingPSK {
		if clientAuth {
			states = append(states, StateCertReq)
		}
		states = append(states,
			StateServerCert,
			StateServerCertVerify,
		)
	}

	states = append(states, StateServerFinished)

	if !c.usingPSK && clientAuth {
		states = append(states,
			StateClientCert,
			StateClientCertVerify,
		)
	}

	states = append(states, StateClientFinished, StateAppData)

	c.flow = append(c.flow, states...)
}

// IsWriter reports whether the next expected message is ours to send.
func (c *Conn) IsWriter() bool {
	if !c.InProgress() {
		return false
	}

	return c.info(c.State()).sender == c.Role
}

// matchIncoming finds the state an incoming message type satisfies,
// skipping optional receive states. Anything else is an unexpected
// message.
func (c *Conn) matchIncoming(t libsui.HandshakeType) (State, liberr.Error) {
	for c.flowIdx < len(c.flow) {
		st := c.flow[c.flowIdx]
		inf := c.info(st)

		if st == StateAppData || st == StateClosed {
			break
		}

		if inf.sender == c.Role || inf.ccs {
			return 0, ErrorUnexpectedMessage.Error(nil)
		}

		if inf.typ == t {
			return st, nil
		}

		if inf.optional {
			c.flowIdx++
			continue
		}

		return 0, ErrorUnexpectedMessage.Error(nil)
	}

	return 0, ErrorUnexpectedMessage.Error(nil)
}

// matchCCS validates an incoming ChangeCipherSpec record against the flow.
// TLS 1.3 tolerates stray compatibility CCS records.
func (c *Conn) matchCCS() (bool, liberr.Error) {
	if c.Version >= libsui.VersionTLS13 {
		return false, nil
	}

	for c.flowIdx < len(c.flow) {
		st := c.flow[c.flowIdx]
		inf := c.info(st)

		if inf.ccs && inf.sender != c.Role {
			return true, nil
		}

		if inf.optional && inf.sender != c.Role {
			c.flowIdx++
			continue
		}

		return false, ErrorUnexpectedMessage.Error(nil)
	}

	return false, ErrorUnexpectedMessage.Error(nil)
}
