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

// Package handshake drives a TLS session from the first ClientHello to the
// application data state: message framing and reassembly, extension
// dispatch, negotiation, the key schedule driver and the state machine.
//
// The package owns all cryptographic material of a session. The record
// layer only sees opaque SessionKeys handles installed from here; the
// connection layer above pumps bytes and converts failures into alerts.
package handshake

import (
	"crypto/x509"

	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libhkd "github.com/nabbar/gotls/hkdf"
	libkem "github.com/nabbar/gotls/kem"
	libprv "github.com/nabbar/gotls/provider"
	librec "github.com/nabbar/gotls/record"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
	libval "github.com/nabbar/gotls/validator"
)

// Role is the endpoint side.
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

// Conn is the handshake-visible core of a connection. The connection layer
// holds one and adds transport pumping, alert queues and the application
// data surface.
type Conn struct {
	Role Role
	Set  *Settings

	// Out receives protected outgoing records.
	Out *libstf.Stuffer

	// reassembly buffer for fragmented handshake messages
	hsBuf *libstf.Stuffer

	// Negotiated state.
	Version            libsui.Version
	VersionEstablished bool
	// ClientVersion is the version recognized while parsing the
	// ClientHello, before negotiation settles.
	ClientVersion libsui.Version
	Suite         *libsui.CipherSuite
	Group         libsui.NamedGroup
	SigScheme     *libsui.SignatureScheme

	ClientRandom [libsui.RandomLen]byte
	ServerRandom [libsui.RandomLen]byte

	// Active protection per direction plus the pending set staged behind
	// the ChangeCipherSpec barrier (TLS 1.2).
	ReadKeys     *librec.SessionKeys
	WriteKeys    *librec.SessionKeys
	PendingRead  *librec.SessionKeys
	PendingWrite *librec.SessionKeys

	// TLS 1.2 secrets.
	MasterSecret []byte
	pms          []byte
	// clientKeyExchangeMsg keeps the raw ClientKeyExchange body for the
	// hybrid master secret derivation.
	clientKeyExchangeMsg []byte
	extendedMS           bool
	peerExtendedMS       bool

	// TLS 1.3 schedule and traffic secrets.
	Schedule        *libhkd.Schedule
	hsTrafficC      []byte
	hsTrafficS      []byte
	appTrafficC     []byte
	appTrafficS     []byte
	resumptionMast []byte
	exporterMaster []byte
	ticketsIssued  int
	keyUpdatePend  bool
	peerCertReq    bool
	certReqContext []byte
	sentCert       bool

	// Key exchange material, wiped as soon as the shared secret exists.
	kexPair   *libprv.KeyPair
	peerShare []byte
	kemPriv   libkem.PrivateKey
	kemPublic []byte

	transcript *Transcript
	// hsRaw accumulates the raw handshake messages for the TLS 1.2
	// CertificateVerify signature, which covers them directly.
	hsRaw []byte

	// Extension results.
	SNI          string
	ALPN         []byte
	peerALPN     [][]byte
	peerGroups   []uint16
	peerSchemes  []uint16
	peerSchemesC []uint16
	peerVersions []uint16
	peerOffersST bool
	ocspRequested bool
	OCSPResponse  []byte

	// PSK state.
	PSK             PSKParams
	offered         *OfferedPSKList
	offeredBinders  [][]byte
	binderListTotal int
	binderPatchPos  int
	PSKSelect       PSKSelector
	partialCH       []byte
	usingPSK        bool
	pskModes        []PSKKeMode

	// TicketAccept lets the embedder resolve an opaque 1.2 session ticket
	// back into the session state it persisted.
	TicketAccept func(ticket []byte) (master []byte, suiteIANA uint16, ok bool)

	// TicketMint lets the embedder wrap session state into an opaque
	// ticket. Nil disables ticket issuance.
	TicketMint func(secret []byte, suiteIANA uint16) ([]byte, error)

	// Resumption (TLS 1.2 abbreviated flow).
	resuming       bool
	ResumeMaster   []byte
	ResumeSuite    *libsui.CipherSuite
	SessionTicket  []byte
	TicketReceived func(ticket []byte, psk *PSK)

	// localChain is the identity chosen for this session.
	localChain *CertChain

	// Peer identity.
	PeerChainDER [][]byte
	PeerCert     *x509.Certificate
	PeerVerdict  libval.Verdict
	Validator    *libval.Validator

	// HelloRetryRequest bookkeeping: one retry is legal, a second fatal.
	helloRetried bool
	sentHRR      bool
	hrrDone      bool
	sentFirstCH  bool

	// legacySID is the session id echoed to signal 1.2 ticket resumption.
	legacySID []byte

	// state machine
	flow    []State
	flowIdx int
}

// NewConn builds a handshake core for the given role and settings.
func NewConn(role Role, set *Settings) (*Conn, liberr.Error) {
	if set == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	out, err := libstf.New(libsui.MaxCiphertextLen)
	if err != nil {
		return nil, err
	}

	buf, err := libstf.New(0)
	if err != nil {
		return nil, err
	}

	tr, err := NewTranscript()
	if err != nil {
		return nil, err
	}

	c := &Conn{
		Role:       role,
		Set:        set,
		Out:        out,
		hsBuf:      buf,
		ReadKeys:   librec.NewPlaintext(),
		WriteKeys:  librec.NewPlaintext(),
		transcript: tr,
		Version:    set.VersionMax,
	}

	c.resetFlow()

	return c, nil
}

// State returns the message state expected next.
func (c *Conn) State() State {
	if c.flowIdx >= len(c.flow) {
		return StateAppData
	}

	return c.flow[c.flowIdx]
}

// InProgress reports whether the handshake is still running.
func (c *Conn) InProgress() bool {
	s := c.State()

	return s != StateAppData && s != StateClosed
}

// advance moves to the next state of the active flow.
func (c *Conn) advance() {
	c.flowIdx++
}

// Close forces the terminal state.
func (c *Conn) Close() {
	c.flow = []State{StateClosed}
	c.flowIdx = 0
}

// suiteHash returns the PRF hash of the negotiated suite.
func (c *Conn) suiteHash() libprv.HashAlgo {
	if c.Suite == nil {
		return libprv.HashSHA256
	}

	return c.Suite.PRFHash
}

// Wipe zeroizes every secret the handshake holds. The connection struct is
// reusable afterwards; Wipe is safe from any partially completed state.
func (c *Conn) Wipe() {
	libblb.WipeBytes(c.MasterSecret)
	libblb.WipeBytes(c.pms)
	libblb.WipeBytes(c.hsTrafficC)
	libblb.WipeBytes(c.hsTrafficS)
	libblb.WipeBytes(c.appTrafficC)
	libblb.WipeBytes(c.appTrafficS)
	libblb.WipeBytes(c.resumptionMast)
	libblb.WipeBytes(c.exporterMaster)
	libblb.WipeBytes(c.ResumeMaster)
	libblb.WipeBytes(c.partialCH)

	c.MasterSecret = nil
	c.pms = nil
	c.hsTrafficC = nil
	c.hsTrafficS = nil
	c.appTrafficC = nil
	c.appTrafficS = nil
	c.resumptionMast = nil
	c.exporterMaster = nil
	c.ResumeMaster = nil
	c.partialCH = nil

	if c.Schedule != nil {
		c.Schedule.Wipe()
		c.Schedule = nil
	}

	if c.kexPair != nil {
		c.kexPair.Wipe()
		c.kexPair = nil
	}

	if c.kemPriv != nil {
		c.kemPriv.Wipe()
		c.kemPriv = nil
	}

	c.PSK.Wipe()

	c.ReadKeys.Wipe()
	c.WriteKeys.Wipe()
	c.PendingRead.Wipe()
	c.PendingWrite.Wipe()
	c.ReadKeys = librec.NewPlaintext()
	c.WriteKeys = librec.NewPlaintext()
	c.PendingRead = nil
	c.PendingWrite = nil

	if c.hsBuf != nil {
		c.hsBuf.Wipe()
	}
	if c.Out != nil {
		c.Out.Wipe()
	}
}
