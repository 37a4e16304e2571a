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
	"crypto/x509"

	liberr "github.com/nabbar/gotls/errors"
	libhsk "github.com/nabbar/gotls/handshake"
	liblog "github.com/nabbar/gotls/logger"
	librec "github.com/nabbar/gotls/record"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
	libxvl "github.com/nabbar/gotls/validator"
)

// Connection drives one TLS session over an opaque byte transport.
type Connection struct {
	role  libhsk.Role
	cfg   *Config
	set   *libhsk.Settings
	store *libxvl.TrustStore

	hs *libhsk.Conn

	rd  FuncRead
	wr  FuncWrite
	log liblog.FuncLog

	// record receive state, resumable across short reads
	hdrBuf      [libsui.RecordHeaderLen]byte
	hdrFill     int
	hdrOK       bool
	hdr         librec.Header
	sslv2       bool
	sslv2Type   uint8
	sslv2Ver    libsui.Version
	firstRecord bool
	in          *libstf.Stuffer
	inBody      []byte
	inFill      int

	// two independent alert queues: reader- and writer-originated
	alertRead      [2]byte
	alertWrite     [2]byte
	alertReadPend  bool
	alertWritePend bool

	appIn *libstf.Stuffer

	lastTicket    []byte
	lastTicketPSK *libhsk.PSK

	closeSent  bool
	closeRecvd bool
	closed     bool
}

// SetIO installs the transport callbacks.
func (c *Connection) SetIO(rd FuncRead, wr FuncWrite) {
	c.rd = rd
	c.wr = wr
}

// SetLogger installs the log sink.
func (c *Connection) SetLogger(l liblog.FuncLog) {
	if l != nil {
		c.log = l
	}
}

// SetPSKSelector installs the server-side PSK selection callback.
func (c *Connection) SetPSKSelector(f libhsk.PSKSelector) {
	c.hs.PSKSelect = f
}

// SetTicketCallbacks installs the session ticket mint/accept hooks.
func (c *Connection) SetTicketCallbacks(
	mint func(secret []byte, suiteIANA uint16) ([]byte, error),
	accept func(ticket []byte) (master []byte, suiteIANA uint16, ok bool),
) {
	c.hs.TicketMint = mint
	c.hs.TicketAccept = accept
}

// AppendPSK adds an external pre-shared key. Insertion order is the wire
// order of the offer.
func (c *Connection) AppendPSK(psk *libhsk.PSK) liberr.Error {
	return c.hs.PSK.Append(psk)
}

// SetProtocols overrides the configured application protocol list for this
// connection only. Legal until the handshake starts. Empty names and lists
// above 64 KiB total are rejected per RFC 7301.
func (c *Connection) SetProtocols(protocols []string) liberr.Error {
	if c.hs.State() != libhsk.StateClientHello || c.hs.VersionEstablished {
		return ErrorState.Error(nil)
	}

	total := 0
	out := make([][]byte, 0, len(protocols))

	for _, p := range protocols {
		if len(p) == 0 || len(p) > 255 {
			return ErrorParamsEmpty.Error(nil)
		}

		total += len(p) + 1
		if total > 0xFFFF {
			return ErrorParamsEmpty.Error(nil)
		}

		out = append(out, []byte(p))
	}

	c.hs.Set.Protocols = out

	return nil
}

// buildValidator assembles the certificate validator for this connection.
func (c *Connection) buildValidator() *libxvl.Validator {
	if c.cfg.InsecureSkipVerify {
		return libxvl.NewNoChecks()
	}

	var hv libxvl.HostVerifier
	if c.role == libhsk.RoleClient && c.cfg.ServerName != "" {
		want := c.cfg.ServerName
		hv = func(name string) bool {
			return name == want
		}
	}

	v := libxvl.New(c.store, hv)
	v.SetCheckOCSP(c.cfg.OCSPStapling)

	return v
}

// captureTicket keeps the latest ticket for the session export.
func (c *Connection) captureTicket(ticket []byte, psk *libhsk.PSK) {
	c.lastTicket = ticket
	c.lastTicketPSK = psk
}

// debug emits a debug line when a logger is installed.
func (c *Connection) debug(msg string, fields map[string]interface{}) {
	if l := c.log(); l != nil {
		l.Debug(msg, fields)
	}
}

// flushOut pushes protected bytes to the transport.
func (c *Connection) flushOut() liberr.Error {
	if c.wr == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	for {
		b := c.hs.Out.Bytes()
		if len(b) == 0 {
			c.hs.Out.Wipe()
			return nil
		}

		n, err := c.wr(b)
		if n > 0 {
			if er := c.hs.Out.SkipRead(n); er != nil {
				return er
			}
		}

		if err != nil {
			return ErrorIOFailed.Error(err)
		}

		if n < len(b) {
			return ErrorIOBlockedWrite.Error(nil)
		}
	}
}

// fillFromTransport reads into dst, resumable.
func (c *Connection) fillFromTransport(dst []byte, fill *int) liberr.Error {
	if c.rd == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	for *fill < len(dst) {
		n, err := c.rd(dst[*fill:])
		if n > 0 {
			*fill += n
			continue
		}

		if err != nil {
			return ErrorIOFailed.Error(err)
		}

		return ErrorIOBlockedRead.Error(nil)
	}

	return nil
}

// readRecord reads, decrypts and routes exactly one record. Short reads
// suspend and resume without losing position.
func (c *Connection) readRecord() liberr.Error {
	if !c.hdrOK {
		if err := c.fillFromTransport(c.hdrBuf[:], &c.hdrFill); err != nil {
			return err
		}

		hs := libstf.FromBytes(c.hdrBuf[:])

		// The SSLv2 hello shape is recognized on the very first server
		// record only, flagged by the high bit of the length.
		if c.firstRecord && c.role == libhsk.RoleServer && c.hdrBuf[0]&0x80 != 0 {
			rt, ver, frag, err := librec.ParseSSLv2Header(hs)
			if err != nil {
				return err
			}

			c.sslv2 = true
			c.sslv2Type = rt
			c.sslv2Ver = ver
			c.hdr = librec.Header{
				ContentType: libsui.ContentHandshake,
				FragmentLen: frag,
			}
		} else {
			// Post-negotiation the wire pins the record version to
			// TLS 1.2 even under TLS 1.3.
			expect := c.hs.Version
			if expect > libsui.VersionTLS12 {
				expect = libsui.VersionTLS12
			}

			hdr, err := librec.ParseHeader(hs, c.hs.VersionEstablished, expect)
			if err != nil {
				return err
			}
			c.hdr = hdr
		}

		in, err := libstf.New(c.hdr.FragmentLen)
		if err != nil {
			return err
		}

		body, err := in.RawWrite(c.hdr.FragmentLen)
		if err != nil {
			return err
		}

		c.in = in
		c.inBody = body
		c.inFill = 0
		c.hdrOK = true
	}

	if err := c.fillFromTransport(c.inBody, &c.inFill); err != nil {
		return err
	}

	// One whole record is in. Reset the resume state before routing.
	in := c.in
	sslv2 := c.sslv2
	sslv2Ver := c.sslv2Ver
	hdr := c.hdr

	c.hdrOK = false
	c.hdrFill = 0
	c.in = nil
	c.inBody = nil
	c.inFill = 0
	c.sslv2 = false
	c.firstRecord = false

	if sslv2 {
		if c.sslv2Type != uint8(libsui.TypeClientHello) {
			return libhsk.ErrorUnexpectedMessage.Error(nil)
		}
		return c.hs.FeedSSLv2ClientHello(in.Bytes(), sslv2Ver)
	}

	ct, err := librec.Parse(c.hs.ReadKeys, c.hs.Version, hdr.ContentType, in)
	if err != nil {
		return err
	}

	switch ct {
	case libsui.ContentHandshake, libsui.ContentChangeCipherSpec:
		if ct == libsui.ContentChangeCipherSpec && c.set.QUIC {
			return libhsk.ErrorUnexpectedMessage.Error(nil)
		}
		return c.hs.Feed(ct, in.Bytes())

	case libsui.ContentAlert:
		return c.handleAlert(in.Bytes())

	case libsui.ContentApplicationData:
		if c.hs.InProgress() {
			return libhsk.ErrorUnexpectedMessage.Error(nil)
		}
		return c.appIn.WriteBytes(in.Bytes())
	}

	return librec.ErrorBadMessage.Error(nil)
}

// queueReaderAlert stages an alert caused by something we read.
func (c *Connection) queueReaderAlert(level libsui.AlertLevel, desc libsui.AlertDescription) {
	if c.set.QUIC {
		return
	}

	c.alertRead = [2]byte{uint8(level), uint8(desc)}
	c.alertReadPend = true
}

// queueWriterAlert stages an alert originated by our own write path.
func (c *Connection) queueWriterAlert(level libsui.AlertLevel, desc libsui.AlertDescription) {
	if c.set.QUIC {
		return
	}

	c.alertWrite = [2]byte{uint8(level), uint8(desc)}
	c.alertWritePend = true
}

// PendingAlertBytes returns the number of staged alert bytes, both queues.
func (c *Connection) PendingAlertBytes() int {
	n := 0
	if c.alertReadPend {
		n += 2
	}
	if c.alertWritePend {
		n += 2
	}

	return n
}

// drainAlerts protects and stages every queued alert for the next flush.
func (c *Connection) drainAlerts() liberr.Error {
	if c.alertWritePend {
		if err := librec.Write(c.hs.Out, c.hs.WriteKeys, c.hs.Version, c.hs.WireVersion(), libsui.ContentAlert, c.alertWrite[:]); err != nil {
			return err
		}
		c.alertWritePend = false
	}

	if c.alertReadPend {
		if err := librec.Write(c.hs.Out, c.hs.WriteKeys, c.hs.Version, c.hs.WireVersion(), libsui.ContentAlert, c.alertRead[:]); err != nil {
			return err
		}
		c.alertReadPend = false
	}

	return nil
}

// handleAlert consumes an incoming alert record.
func (c *Connection) handleAlert(payload []byte) liberr.Error {
	if c.set.QUIC {
		// QUIC carries its own error channel; alert records are illegal.
		return librec.ErrorBadMessage.Error(nil)
	}

	if len(payload) != 2 {
		return librec.ErrorBadMessage.Error(nil)
	}

	level := libsui.AlertLevel(payload[0])
	desc := libsui.AlertDescription(payload[1])

	if desc == libsui.AlertCloseNotify {
		c.closeRecvd = true
		if c.closeSent {
			c.closed = true
			c.hs.Close()
		}
		return nil
	}

	if c.hs.Version >= libsui.VersionTLS13 {
		if desc == libsui.AlertUserCanceled {
			return nil
		}
	} else if level == libsui.AlertLevelWarning && !c.set.TreatWarningsAsFatal {
		return nil
	}

	c.closed = true
	c.hs.Close()

	return ErrorAlertReceived.Error(nil)
}

// fail terminates the connection: the matching alert is queued on the
// reader or writer queue, drained, and the handshake core closes.
func (c *Connection) fail(err liberr.Error, readerSide bool) liberr.Error {
	desc := alertFor(err)

	if readerSide {
		c.queueReaderAlert(libsui.AlertLevelFatal, desc)
	} else {
		c.queueWriterAlert(libsui.AlertLevelFatal, desc)
	}

	// Best effort: the peer may already be gone.
	_ = c.drainAlerts()
	_ = c.flushOut()

	c.hs.Close()
	c.closed = true

	return err
}

// Handshake advances the handshake until it completes or suspends.
// Suspension is reported as a blocked error and the call is resumable; any
// other failure is terminal and surfaced as a handshake failure wrapping
// the cause.
func (c *Connection) Handshake() liberr.Error {
	if c.closed {
		return ErrorClosed.Error(nil)
	}

	for c.hs.InProgress() {
		if c.hs.IsWriter() {
			if err := c.hs.WriteNext(); err != nil {
				return libhsk.ErrorHandshakeFailure.Error(c.fail(err, false))
			}

			if err := c.flushOut(); err != nil {
				if IsBlocked(err) {
					return err
				}
				return libhsk.ErrorHandshakeFailure.Error(c.fail(err, false))
			}

			continue
		}

		if err := c.readRecord(); err != nil {
			if IsBlocked(err) {
				return err
			}
			if err.IsCode(ErrorAlertReceived) {
				return libhsk.ErrorHandshakeFailure.Error(err)
			}
			return libhsk.ErrorHandshakeFailure.Error(c.fail(err, true))
		}

		if c.closed || c.closeRecvd {
			return libhsk.ErrorHandshakeFailure.Error(ErrorClosed.Error(nil))
		}
	}

	if err := c.flushOut(); err != nil {
		return err
	}

	c.debug("handshake complete", map[string]interface{}{
		"version": c.hs.Version.String(),
		"suite":   c.hs.Suite.Name,
	})

	return nil
}

// Send protects application bytes and pushes them out. The returned count
// is the number of plaintext bytes consumed; a blocked error leaves
// protected bytes staged and the next call flushes them first.
func (c *Connection) Send(p []byte) (int, liberr.Error) {
	if c.closed || c.closeSent {
		return 0, ErrorClosed.Error(nil)
	}

	if c.hs.InProgress() {
		return 0, ErrorState.Error(nil)
	}

	if err := c.flushOut(); err != nil {
		return 0, err
	}

	if c.hs.KeyUpdatePending() {
		if err := c.hs.AnswerKeyUpdate(); err != nil {
			return 0, err
		}
	}

	if err := c.drainAlerts(); err != nil {
		return 0, err
	}

	if err := librec.WriteAll(c.hs.Out, c.hs.WriteKeys, c.hs.Version, c.hs.WireVersion(), libsui.ContentApplicationData, p, c.set.MaxFragment); err != nil {
		return 0, err
	}

	if err := c.flushOut(); err != nil {
		return len(p), err
	}

	return len(p), nil
}

// Recv copies received application bytes into p, reading records as
// needed.
func (c *Connection) Recv(p []byte) (int, liberr.Error) {
	if len(p) == 0 {
		return 0, nil
	}

	for {
		if c.appIn.Avail() > 0 {
			n := c.appIn.Avail()
			if n > len(p) {
				n = len(p)
			}

			if err := c.appIn.ReadBytes(p[:n]); err != nil {
				return 0, err
			}

			if c.appIn.Avail() == 0 {
				c.appIn.Wipe()
			}

			return n, nil
		}

		if c.closeRecvd || c.closed {
			return 0, ErrorClosed.Error(nil)
		}

		if err := c.readRecord(); err != nil {
			if IsBlocked(err) || err.IsCode(ErrorIOFailed) || err.IsCode(ErrorAlertReceived) {
				return 0, err
			}
			return 0, c.fail(err, true)
		}
	}
}

// Shutdown runs the close_notify exchange. The first call queues our
// close_notify; the call completes once the peer's close_notify arrived.
// Reads stay legal after sending close_notify, writes do not. In QUIC mode
// no alert bytes exist and the shutdown is local.
func (c *Connection) Shutdown() liberr.Error {
	if c.set.QUIC {
		c.closeSent = true
		c.closed = true
		c.hs.Close()
		return nil
	}

	if !c.closeSent {
		c.queueWriterAlert(libsui.AlertLevelWarning, libsui.AlertCloseNotify)
		c.closeSent = true
	}

	if err := c.drainAlerts(); err != nil {
		return err
	}

	if err := c.flushOut(); err != nil {
		return err
	}

	for !c.closeRecvd {
		if err := c.readRecord(); err != nil {
			if IsBlocked(err) || err.IsCode(ErrorIOFailed) {
				return err
			}
			return c.fail(err, true)
		}
	}

	c.closed = true
	c.hs.Close()

	return nil
}

// Wipe zeroizes all secret material and resets the connection for reuse.
// Safe from any partially completed state.
func (c *Connection) Wipe() liberr.Error {
	c.hs.Wipe()

	if c.appIn != nil {
		c.appIn.Free()
	}

	c.lastTicketPSK = nil
	c.lastTicket = nil

	return c.reset()
}

// Free releases the connection and its config reference.
func (c *Connection) Free() {
	c.hs.Wipe()

	if c.appIn != nil {
		c.appIn.Free()
	}

	c.cfg.release()
	c.closed = true
}

// Version returns the negotiated protocol version.
func (c *Connection) Version() libsui.Version {
	return c.hs.Version
}

// CipherSuite returns the negotiated suite, nil before negotiation.
func (c *Connection) CipherSuite() *libsui.CipherSuite {
	return c.hs.Suite
}

// SelectedALPN returns the negotiated application protocol.
func (c *Connection) SelectedALPN() string {
	return string(c.hs.ALPN)
}

// SelectedPSKIdentity returns the identity of the PSK in use, nil when the
// handshake did not bind one.
func (c *Connection) SelectedPSKIdentity() []byte {
	if c.hs.PSK.Chosen == nil {
		return nil
	}

	return c.hs.PSK.Chosen.Identity
}

// ServerName returns the SNI observed (server) or configured (client).
func (c *Connection) ServerName() string {
	if c.role == libhsk.RoleServer {
		return c.hs.SNI
	}

	return c.cfg.ServerName
}

// PeerCertificate returns the validated peer leaf, nil if none arrived.
func (c *Connection) PeerCertificate() *x509.Certificate {
	return c.hs.PeerCert
}

// PeerVerdict returns the validation outcome of the peer chain.
func (c *Connection) PeerVerdict() libxvl.Verdict {
	return c.hs.PeerVerdict
}

// CloseNotifyReceived reports whether the peer's close_notify arrived.
func (c *Connection) CloseNotifyReceived() bool {
	return c.closeRecvd
}

// Closed reports whether the connection reached the terminal state.
func (c *Connection) Closed() bool {
	return c.closed
}

// HandshakeDone reports whether application data may flow.
func (c *Connection) HandshakeDone() bool {
	return !c.hs.InProgress() && !c.closed
}

// IssueSessionTicket sends a post-handshake NewSessionTicket (server,
// TLS 1.3).
func (c *Connection) IssueSessionTicket(lifetime uint32) liberr.Error {
	if err := c.hs.SendNewSessionTicket(lifetime); err != nil {
		return err
	}

	return c.flushOut()
}

// RequestKeyUpdate rotates our sending keys, optionally asking the peer to
// rotate too.
func (c *Connection) RequestKeyUpdate(requestPeer bool) liberr.Error {
	if err := c.hs.SendKeyUpdate(requestPeer); err != nil {
		return err
	}

	return c.flushOut()
}
