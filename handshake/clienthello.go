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
	libprv "github.com/nabbar/gotls/provider"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// offeredSuites lists the code points the client advertises, bounded by
// its version range.
func (c *Conn) offeredSuites() []*libsui.CipherSuite {
	out := make([]*libsui.CipherSuite, 0, len(c.Set.Suites))

	for _, s := range c.Set.Suites {
		if s.IsTLS13() && c.Set.VersionMax < libsui.VersionTLS13 {
			continue
		}
		if s.MinVersion > c.Set.VersionMax {
			continue
		}
		out = append(out, s)
	}

	return out
}

// sendClientHello emits the ClientHello. The legacy version field is
// pinned to TLS 1.2; supported_versions carries the real list. PSK
// binders are reserved during encoding and patched once the partial hello
// hash exists.
func (c *Conn) sendClientHello() liberr.Error {
	if !c.helloRetried {
		if err := libprv.Fill(c.ClientRandom[:]); err != nil {
			return err
		}

		if len(c.Set.Groups) > 0 {
			c.Group = c.Set.Groups[0]
		}
	}

	// A fresh share on the (possibly HRR-corrected) group.
	if c.Set.VersionMax >= libsui.VersionTLS13 && c.Group != 0 {
		pair, err := libprv.NewKeyPair(c.Group.Curve())
		if err != nil {
			return err
		}
		c.kexPair = pair
	}

	body, err := libstf.New(512)
	if err != nil {
		return err
	}

	// The legacy field pins to TLS 1.2 for a 1.3-capable client; an older
	// client states its real maximum here.
	legacy := c.Set.VersionMax
	if legacy > libsui.VersionTLS12 {
		legacy = libsui.VersionTLS12
	}

	if err = body.WriteUint16(uint16(legacy)); err != nil {
		return err
	}
	if err = body.WriteBytes(c.ClientRandom[:]); err != nil {
		return err
	}

	// The legacy session id stays empty unless a 1.2 ticket rides along:
	// its echo is how the server signals resumption.
	if len(c.SessionTicket) > 0 && len(c.legacySID) == 0 {
		c.legacySID = make([]byte, libsui.RandomLen)
		if err = libprv.Fill(c.legacySID); err != nil {
			return err
		}
	}

	if err = body.WriteUint8(uint8(len(c.legacySID))); err != nil {
		return err
	}
	if err = body.WriteBytes(c.legacySID); err != nil {
		return err
	}

	suitesRes, err := body.ReserveUint16()
	if err != nil {
		return err
	}
	for _, s := range c.offeredSuites() {
		if err = body.WriteUint16(s.IANA); err != nil {
			return err
		}
	}
	if err = body.WriteVectorSize(suitesRes); err != nil {
		return err
	}

	// null compression only
	if err = body.WriteUint8(1); err != nil {
		return err
	}
	if err = body.WriteUint8(0); err != nil {
		return err
	}

	c.binderPatchPos = 0
	if err = c.sendExtensions(msgClientHello, body); err != nil {
		return err
	}

	if len(c.PSK.List) > 0 && c.binderPatchPos > 0 {
		if err = c.patchBinders(body); err != nil {
			return err
		}
	}

	if err = c.writeMessage(libsui.TypeClientHello, body.Written()); err != nil {
		return err
	}

	c.sentFirstCH = true
	c.advance()

	return nil
}

// patchBinders fills the reserved binder slots. Each binder authenticates
// the transcript so far plus this hello up to (and excluding) the binder
// list.
func (c *Conn) patchBinders(body *libstf.Stuffer) liberr.Error {
	raw := body.Written()

	hdr := []byte{
		uint8(libsui.TypeClientHello),
		byte(len(raw) >> 16), byte(len(raw) >> 8), byte(len(raw)),
	}

	partial := make([]byte, 0, 4+c.binderPatchPos)
	partial = append(partial, hdr...)
	partial = append(partial, raw[:c.binderPatchPos]...)

	// skip the 2 byte binder list length
	off := c.binderPatchPos + 2

	for _, psk := range c.PSK.List {
		partialHash, err := c.transcript.SumWith(psk.HMAC, partial)
		if err != nil {
			return err
		}

		binder, err := binderFor(psk, partialHash)
		if err != nil {
			return err
		}

		// one length byte precedes each binder slot
		off++
		copy(raw[off:off+len(binder)], binder)
		off += len(binder)
	}

	return nil
}

// processClientHello handles a ClientHello on the server: parse, version
// and suite negotiation, PSK selection with binder verification, and the
// flow build for everything that follows.
func (c *Conn) processClientHello(in *libstf.Stuffer, full []byte, snapshot *Transcript) liberr.Error {
	legacy, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	if err = in.ReadBytes(c.ClientRandom[:]); err != nil {
		return ErrorBadMessage.Error(err)
	}

	sidLen, err := in.ReadUint8()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	if c.legacySID, err = in.ReadN(int(sidLen)); err != nil {
		return ErrorBadMessage.Error(err)
	}

	suitesLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}
	if suitesLen == 0 || suitesLen%2 != 0 || int(suitesLen) > in.Avail() {
		return ErrorBadMessage.Error(nil)
	}

	clientSuites := make([]uint16, 0, suitesLen/2)
	for i := 0; i < int(suitesLen)/2; i++ {
		s, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		clientSuites = append(clientSuites, s)
	}

	compLen, err := in.ReadUint8()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	comp, err := in.ReadN(int(compLen))
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	nullComp := false
	for _, m := range comp {
		if m == 0 {
			nullComp = true
		}
	}
	if !nullComp {
		return ErrorBadMessage.Error(nil)
	}

	if err = c.recvExtensions(msgClientHello, in); err != nil {
		return err
	}

	c.ClientVersion = libsui.Version(legacy)

	return c.concludeClientHello(clientSuites, full, snapshot)
}

// concludeClientHello runs the negotiation shared by the TLS and SSLv2
// hello shapes.
func (c *Conn) concludeClientHello(clientSuites []uint16, full []byte, snapshot *Transcript) liberr.Error {
	if err := c.negotiateVersion(c.ClientVersion); err != nil {
		return err
	}

	if c.Version >= libsui.VersionTLS13 {
		c.resuming = false
	}

	if err := c.negotiateSuite(clientSuites); err != nil {
		return err
	}

	if c.Version >= libsui.VersionTLS13 {
		if err := c.selectPSK(full, snapshot); err != nil {
			return err
		}

		if !c.pskOnly() {
			if c.peerShare == nil {
				// No usable share: ask for a retry on our group.
				if c.sentHRR {
					return ErrorHelloRetryLoop.Error(nil)
				}

				g := c.selectGroup()
				if g == 0 {
					return ErrorNoGroupOverlap.Error(nil)
				}

				c.Group = g
				c.sentHRR = true
				c.advance()
				return nil
			}

			pair, err := libprv.NewKeyPair(c.Group.Curve())
			if err != nil {
				return err
			}
			c.kexPair = pair
		}
	} else if c.Suite.Kex.Ephemeral() && !c.resuming {
		g := c.selectGroup()
		if g == 0 {
			return ErrorNoGroupOverlap.Error(nil)
		}
		c.Group = g
	}

	// ALPN: first local preference the client also offered.
	for _, p := range c.Set.Protocols {
		for _, cp := range c.peerALPN {
			if string(p) == string(cp) {
				c.ALPN = p
				break
			}
		}
		if c.ALPN != nil {
			break
		}
	}

	c.advance()

	return nil
}

// selectPSK resolves the offered identities against our keys, verifies
// the chosen binder over the partial hello, and records the selection.
func (c *Conn) selectPSK(full []byte, snapshot *Transcript) liberr.Error {
	c.usingPSK = false

	if c.offered == nil || c.offered.Len() == 0 {
		return nil
	}

	idx := -1

	if c.PSKSelect != nil {
		i, err := c.PSKSelect(c.offered)
		if err != nil {
			return ErrorHandshakeFailure.Error(err)
		}
		idx = i
	} else {
		for i, off := range c.offered.items {
			for _, own := range c.PSK.List {
				if string(own.Identity) == string(off.Identity) {
					idx = i
					break
				}
			}
			if idx >= 0 {
				break
			}
		}
	}

	if idx < 0 {
		// No identity accepted; continue with certificates.
		return nil
	}

	if idx >= c.offered.Len() {
		return ErrorUnknownPSKIdentity.Error(nil)
	}

	var chosen *PSK
	off, _ := c.offered.Get(idx)
	for _, own := range c.PSK.List {
		if string(own.Identity) == string(off.Identity) {
			chosen = own
			break
		}
	}

	if chosen == nil {
		return ErrorUnknownPSKIdentity.Error(nil)
	}

	// The PSK hash must match the negotiated suite hash.
	if chosen.HMAC != c.Suite.PRFHash {
		return nil
	}

	if c.binderListTotal <= 0 || c.binderListTotal >= len(full) {
		return ErrorBadMessage.Error(nil)
	}

	partial := full[:len(full)-c.binderListTotal]

	partialHash, err := snapshot.SumWith(chosen.HMAC, partial)
	if err != nil {
		return err
	}

	if err = verifyBinder(chosen, partialHash, c.offeredBinders[idx]); err != nil {
		return err
	}

	c.usingPSK = true
	c.PSK.Chosen = chosen
	c.PSK.ChosenIdx = idx

	c.PSK.KEMode = PSKKe
	for _, m := range c.pskModes {
		if m == PSKDheKe && c.peerShare != nil {
			c.PSK.KEMode = PSKDheKe
		}
	}

	return nil
}

// FeedSSLv2ClientHello converts the SSLv2 hello shape into the TLS fields
// and runs the shared negotiation. The raw payload, not the converted
// form, feeds the transcript, matching what the peer hashed.
func (c *Conn) FeedSSLv2ClientHello(payload []byte, clientVersion libsui.Version) liberr.Error {
	if c.Role != RoleServer || c.State() != StateClientHello {
		return ErrorUnexpectedMessage.Error(nil)
	}

	snapshot, err := c.transcript.Snapshot()
	if err != nil {
		return err
	}

	if err = c.transcript.Update(payload); err != nil {
		return err
	}

	in := libstf.FromBytes(payload)

	specsLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	sidLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	chLen, err := in.ReadUint16()
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	if specsLen%3 != 0 || chLen == 0 || chLen > libsui.RandomLen {
		return ErrorBadMessage.Error(nil)
	}

	clientSuites := make([]uint16, 0, specsLen/3)
	for i := 0; i < int(specsLen)/3; i++ {
		hi, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		v, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		// Only the TLS-shaped code points survive conversion.
		if hi == 0 {
			clientSuites = append(clientSuites, v)
		}
	}

	if err = in.SkipRead(int(sidLen)); err != nil {
		return ErrorBadMessage.Error(err)
	}

	challenge, err := in.ReadN(int(chLen))
	if err != nil {
		return ErrorBadMessage.Error(err)
	}

	// The challenge right-aligns into the 32 byte client random.
	for i := range c.ClientRandom {
		c.ClientRandom[i] = 0
	}
	copy(c.ClientRandom[libsui.RandomLen-int(chLen):], challenge)

	c.ClientVersion = clientVersion

	return c.concludeClientHello(clientSuites, payload, snapshot)
}
