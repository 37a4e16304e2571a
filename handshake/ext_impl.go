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

// server_name, RFC 6066. The client names the host, the server
// acknowledges with an empty copy.
var extServerName = &extensionType{
	iana: libsui.ExtServerName,
	shouldSend: func(c *Conn, kind msgKind) bool {
		if kind == msgClientHello {
			return c.Role == RoleClient && c.Set.ServerName != ""
		}
		return c.Role == RoleServer && c.SNI != "" && c.Version < libsui.VersionTLS13 && kind == msgServerHello ||
			c.Role == RoleServer && c.SNI != "" && kind == msgEncryptedExtensions
	},
	encode: func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		if kind != msgClientHello {
			// bare acknowledgement
			return nil
		}

		name := []byte(c.Set.ServerName)

		list, err := out.ReserveUint16()
		if err != nil {
			return err
		}

		// name_type host_name
		if err = out.WriteUint8(0); err != nil {
			return err
		}
		if err = out.WriteUint16(uint16(len(name))); err != nil {
			return err
		}
		if err = out.WriteBytes(name); err != nil {
			return err
		}

		return out.WriteVectorSize(list)
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		if kind != msgClientHello {
			// acknowledgement may be empty only
			if len(data) != 0 {
				return ErrorBadMessage.Error(nil)
			}
			return nil
		}

		in := libstf.FromBytes(data)

		total, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		if int(total) > in.Avail() || total < 3 {
			return ErrorBadMessage.Error(nil)
		}

		nameType, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if nameType != 0 {
			return nil
		}

		nameLen, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		// An inner name running past the outer list is malformed, per
		// RFC 6066 — not silently tolerated.
		if int(nameLen)+3 > int(total) {
			return ErrorBadMessage.Error(nil)
		}

		name, err := in.ReadN(int(nameLen))
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		c.SNI = string(name)

		return nil
	},
}

// supported_groups, RFC 8422 / 8446.
var extSupportedGroups = &extensionType{
	iana: libsui.ExtSupportedGroups,
	shouldSend: func(c *Conn, kind msgKind) bool {
		return kind == msgClientHello
	},
	encode: func(c *Conn, _ msgKind, out *libstf.Stuffer) liberr.Error {
		list, err := out.ReserveUint16()
		if err != nil {
			return err
		}

		for _, g := range c.Set.Groups {
			if err = out.WriteUint16(uint16(g)); err != nil {
				return err
			}
		}

		return out.WriteVectorSize(list)
	},
	decode: func(c *Conn, _ msgKind, data []byte) liberr.Error {
		in := libstf.FromBytes(data)

		total, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		if int(total) != in.Avail() || total%2 != 0 {
			return ErrorBadMessage.Error(nil)
		}

		c.peerGroups = c.peerGroups[:0]
		for in.Avail() > 0 {
			g, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			c.peerGroups = append(c.peerGroups, g)
		}

		return nil
	},
}

// ec_point_formats, RFC 8422. Only uncompressed survives; content is
// accepted and ignored.
var extECPointFormats = &extensionType{
	iana: libsui.ExtECPointFormats,
	shouldSend: func(c *Conn, kind msgKind) bool {
		return kind == msgClientHello
	},
	encode: func(_ *Conn, _ msgKind, out *libstf.Stuffer) liberr.Error {
		if err := out.WriteUint8(1); err != nil {
			return err
		}
		return out.WriteUint8(0)
	},
	decode: func(_ *Conn, _ msgKind, data []byte) liberr.Error {
		if len(data) == 0 {
			return ErrorBadMessage.Error(nil)
		}
		return nil
	},
}

func encodeSchemeList(c *Conn, out *libstf.Stuffer) liberr.Error {
	list, err := out.ReserveUint16()
	if err != nil {
		return err
	}

	for _, s := range c.Set.schemesFor(c.Version) {
		if err = out.WriteUint16(s.IANA); err != nil {
			return err
		}
	}

	return out.WriteVectorSize(list)
}

func decodeSchemeList(data []byte) ([]uint16, liberr.Error) {
	in := libstf.FromBytes(data)

	total, err := in.ReadUint16()
	if err != nil {
		return nil, ErrorBadMessage.Error(err)
	}

	if int(total) != in.Avail() || total%2 != 0 || total == 0 {
		return nil, ErrorBadMessage.Error(nil)
	}

	out := make([]uint16, 0, total/2)
	for in.Avail() > 0 {
		v, err := in.ReadUint16()
		if err != nil {
			return nil, ErrorBadMessage.Error(err)
		}
		out = append(out, v)
	}

	return out, nil
}

// signature_algorithms, RFC 5246 / 8446.
var extSignatureAlgorithms = &extensionType{
	iana: libsui.ExtSignatureAlgorithms,
	shouldSend: func(c *Conn, kind msgKind) bool {
		if kind == msgCertificateRequest {
			return true
		}
		return kind == msgClientHello && c.Set.VersionMax >= libsui.VersionTLS12
	},
	encode: func(c *Conn, _ msgKind, out *libstf.Stuffer) liberr.Error {
		return encodeSchemeList(c, out)
	},
	decode: func(c *Conn, _ msgKind, data []byte) liberr.Error {
		got, err := decodeSchemeList(data)
		if err != nil {
			return err
		}
		c.peerSchemes = got
		return nil
	},
	onMissing: func(c *Conn, kind msgKind) liberr.Error {
		if kind == msgCertificateRequest && c.Version >= libsui.VersionTLS13 {
			// Mandatory there.
			return ErrorMissingExtension.Error(nil)
		}
		return nil
	},
}

// signature_algorithms_cert, RFC 8446 section 4.2.3: narrows certificate
// selection apart from the signing operation.
var extSigAlgorithmsCert = &extensionType{
	iana: libsui.ExtSigAlgorithmsCert,
	shouldSend: func(_ *Conn, _ msgKind) bool {
		return false
	},
	encode: func(c *Conn, _ msgKind, out *libstf.Stuffer) liberr.Error {
		return encodeSchemeList(c, out)
	},
	decode: func(c *Conn, _ msgKind, data []byte) liberr.Error {
		got, err := decodeSchemeList(data)
		if err != nil {
			return err
		}
		c.peerSchemesC = got
		return nil
	},
}

// application_layer_protocol_negotiation, RFC 7301.
var extALPN = &extensionType{
	iana: libsui.ExtALPN,
	shouldSend: func(c *Conn, kind msgKind) bool {
		switch kind {
		case msgClientHello:
			return len(c.Set.Protocols) > 0
		case msgServerHello:
			return c.Role == RoleServer && len(c.ALPN) > 0 && c.Version < libsui.VersionTLS13
		case msgEncryptedExtensions:
			return len(c.ALPN) > 0
		}
		return false
	},
	encode: func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		list, err := out.ReserveUint16()
		if err != nil {
			return err
		}

		if kind == msgClientHello {
			for _, p := range c.Set.Protocols {
				if err = out.WriteUint8(uint8(len(p))); err != nil {
					return err
				}
				if err = out.WriteBytes(p); err != nil {
					return err
				}
			}
		} else {
			if err = out.WriteUint8(uint8(len(c.ALPN))); err != nil {
				return err
			}
			if err = out.WriteBytes(c.ALPN); err != nil {
				return err
			}
		}

		return out.WriteVectorSize(list)
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		in := libstf.FromBytes(data)

		total, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		if int(total) != in.Avail() || total == 0 {
			return ErrorBadMessage.Error(nil)
		}

		names := make([][]byte, 0, 4)
		for in.Avail() > 0 {
			l, err := in.ReadUint8()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}

			// Empty protocol names must not be included.
			if l == 0 {
				return ErrorBadMessage.Error(nil)
			}

			name, err := in.ReadN(int(l))
			if err != nil {
				return ErrorBadMessage.Error(err)
			}

			names = append(names, name)
		}

		if kind == msgClientHello {
			c.peerALPN = names
			return nil
		}

		// Exactly one selected protocol, and one we offered.
		if len(names) != 1 {
			return ErrorBadMessage.Error(nil)
		}
		for _, p := range c.Set.Protocols {
			if string(p) == string(names[0]) {
				c.ALPN = names[0]
				return nil
			}
		}

		return ErrorHandshakeFailure.Error(nil)
	},
}

// extended_master_secret, RFC 7627. Empty body; presence on both sides
// rebinds the TLS 1.2 master secret to the session hash.
var extExtendedMasterSecret = &extensionType{
	iana: libsui.ExtExtendedMasterSec,
	shouldSend: func(c *Conn, kind msgKind) bool {
		switch kind {
		case msgClientHello:
			return c.Set.VersionMax >= libsui.VersionTLS10
		case msgServerHello:
			return c.Role == RoleServer && c.peerExtendedMS && c.Version < libsui.VersionTLS13
		}
		return false
	},
	encode: func(c *Conn, kind msgKind, _ *libstf.Stuffer) liberr.Error {
		// The echo seals the negotiation on the server side.
		if kind == msgServerHello {
			c.extendedMS = true
		}
		return nil
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		if len(data) != 0 {
			return ErrorBadMessage.Error(nil)
		}

		if kind == msgClientHello {
			c.peerExtendedMS = true
		} else {
			c.extendedMS = true
		}

		return nil
	},
}

// session_ticket, RFC 5077. The payload is an opaque ticket from the
// core's perspective.
var extSessionTicket = &extensionType{
	iana: libsui.ExtSessionTicket,
	shouldSend: func(c *Conn, kind msgKind) bool {
		if c.Version >= libsui.VersionTLS13 {
			return false
		}
		switch kind {
		case msgClientHello:
			return c.Set.SessionTickets
		case msgServerHello:
			return c.Role == RoleServer && c.Set.SessionTickets && c.peerOffersST
		}
		return false
	},
	encode: func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		if kind == msgClientHello && len(c.SessionTicket) > 0 {
			return out.WriteBytes(c.SessionTicket)
		}
		return nil
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		if kind != msgClientHello {
			// Server acknowledgement: a NewSessionTicket will follow.
			if len(data) != 0 {
				return ErrorBadMessage.Error(nil)
			}
			c.peerOffersST = true
			return nil
		}

		c.peerOffersST = true

		if len(data) > 0 && c.TicketAccept != nil {
			if master, iana, ok := c.TicketAccept(data); ok {
				if rs := libsui.Lookup(iana); rs != nil && !rs.IsTLS13() {
					c.resuming = true
					c.ResumeMaster = master
					c.ResumeSuite = rs
				}
			}
		}

		return nil
	},
}

// status_request, RFC 6066: OCSP stapling.
var extStatusRequest = &extensionType{
	iana: libsui.ExtStatusRequest,
	shouldSend: func(c *Conn, kind msgKind) bool {
		switch kind {
		case msgClientHello:
			return c.Set.OCSPStapling
		case msgServerHello:
			return c.Role == RoleServer && c.ocspRequested && c.stapleAvailable() && c.Version < libsui.VersionTLS13
		}
		return false
	},
	encode: func(_ *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		if kind != msgClientHello {
			return nil
		}

		// status_type ocsp, empty responder id list, empty extensions
		if err := out.WriteUint8(1); err != nil {
			return err
		}
		if err := out.WriteUint16(0); err != nil {
			return err
		}
		return out.WriteUint16(0)
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		if kind == msgClientHello {
			if len(data) < 1 || data[0] != 1 {
				return nil
			}
			c.ocspRequested = true
			return nil
		}

		if len(data) != 0 {
			return ErrorBadMessage.Error(nil)
		}

		c.ocspRequested = true

		return nil
	},
}

// supported_versions, RFC 8446 section 4.2.1. The legacy version field is
// pinned to TLS 1.2; this extension carries the real list.
var extSupportedVersions = &extensionType{
	iana: libsui.ExtSupportedVersions,
	shouldSend: func(c *Conn, kind msgKind) bool {
		switch kind {
		case msgClientHello:
			return c.Set.VersionMax >= libsui.VersionTLS13
		case msgServerHello, msgHelloRetry:
			return c.Role == RoleServer && c.Version >= libsui.VersionTLS13
		}
		return false
	},
	encode: func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		if kind == msgClientHello {
			inner := make([]libsui.Version, 0, 4)
			for v := c.Set.VersionMax; v >= c.Set.VersionMin; v-- {
				inner = append(inner, v)
			}

			if err := out.WriteUint8(uint8(2 * len(inner))); err != nil {
				return err
			}
			for _, v := range inner {
				if err := out.WriteUint16(uint16(v)); err != nil {
					return err
				}
			}
			return nil
		}

		return out.WriteUint16(uint16(c.Version))
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		in := libstf.FromBytes(data)

		if kind == msgClientHello {
			l, err := in.ReadUint8()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			if int(l) != in.Avail() || l%2 != 0 || l == 0 {
				return ErrorBadMessage.Error(nil)
			}

			c.peerVersions = c.peerVersions[:0]
			for in.Avail() > 0 {
				v, err := in.ReadUint16()
				if err != nil {
					return ErrorBadMessage.Error(err)
				}
				c.peerVersions = append(c.peerVersions, v)
			}
			return nil
		}

		v, err := in.ReadUint16()
		if err != nil || in.Avail() != 0 {
			return ErrorBadMessage.Error(nil)
		}

		if libsui.Version(v) < libsui.VersionTLS13 {
			return ErrorBadVersion.Error(nil)
		}

		c.Version = libsui.Version(v)
		c.VersionEstablished = true

		return nil
	},
}

// psk_key_exchange_modes, RFC 8446 section 4.2.9.
var extPSKModes = &extensionType{
	iana: libsui.ExtPSKKeyExchangeModes,
	shouldSend: func(c *Conn, kind msgKind) bool {
		return kind == msgClientHello && c.Set.VersionMax >= libsui.VersionTLS13 && len(c.PSK.List) > 0
	},
	encode: func(c *Conn, _ msgKind, out *libstf.Stuffer) liberr.Error {
		modes := c.Set.PSKModes
		if len(modes) == 0 {
			modes = []PSKKeMode{PSKDheKe, PSKKe}
		}
		if err := out.WriteUint8(uint8(len(modes))); err != nil {
			return err
		}
		for _, m := range modes {
			if err := out.WriteUint8(uint8(m)); err != nil {
				return err
			}
		}
		return nil
	},
	decode: func(c *Conn, _ msgKind, data []byte) liberr.Error {
		in := libstf.FromBytes(data)

		l, err := in.ReadUint8()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if int(l) != in.Avail() || l == 0 {
			return ErrorBadMessage.Error(nil)
		}

		c.pskModes = c.pskModes[:0]
		for in.Avail() > 0 {
			m, err := in.ReadUint8()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			c.pskModes = append(c.pskModes, PSKKeMode(m))
		}

		return nil
	},
}

// key_share, RFC 8446 section 4.2.8.
var extKeyShare = &extensionType{
	iana: libsui.ExtKeyShare,
	shouldSend: func(c *Conn, kind msgKind) bool {
		switch kind {
		case msgClientHello:
			return c.Set.VersionMax >= libsui.VersionTLS13
		case msgServerHello:
			return c.Role == RoleServer && c.Version >= libsui.VersionTLS13 && !c.pskOnly()
		case msgHelloRetry:
			return true
		}
		return false
	},
	encode: func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		switch kind {
		case msgClientHello:
			list, err := out.ReserveUint16()
			if err != nil {
				return err
			}

			if c.kexPair != nil {
				pub := c.kexPair.PublicBytes()
				if err = out.WriteUint16(uint16(c.Group)); err != nil {
					return err
				}
				if err = out.WriteUint16(uint16(len(pub))); err != nil {
					return err
				}
				if err = out.WriteBytes(pub); err != nil {
					return err
				}
			}

			return out.WriteVectorSize(list)

		case msgServerHello:
			pub := c.kexPair.PublicBytes()
			if err := out.WriteUint16(uint16(c.Group)); err != nil {
				return err
			}
			if err := out.WriteUint16(uint16(len(pub))); err != nil {
				return err
			}
			return out.WriteBytes(pub)

		case msgHelloRetry:
			return out.WriteUint16(uint16(c.Group))
		}

		return ErrorState.Error(nil)
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		in := libstf.FromBytes(data)

		switch kind {
		case msgClientHello:
			total, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			if int(total) != in.Avail() {
				return ErrorBadMessage.Error(nil)
			}

			for in.Avail() > 0 {
				g, err := in.ReadUint16()
				if err != nil {
					return ErrorBadMessage.Error(err)
				}
				l, err := in.ReadUint16()
				if err != nil {
					return ErrorBadMessage.Error(err)
				}
				pub, err := in.ReadN(int(l))
				if err != nil {
					return ErrorBadMessage.Error(err)
				}

				// keep the first share on a group we also support
				if c.peerShare == nil && libsui.LookupGroup(g) != 0 {
					c.Group = libsui.NamedGroup(g)
					c.peerShare = pub
				}
			}
			return nil

		case msgServerHello:
			g, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			l, err := in.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			pub, err := in.ReadN(int(l))
			if err != nil || in.Avail() != 0 {
				return ErrorBadMessage.Error(nil)
			}

			if libsui.NamedGroup(g) != c.Group {
				return ErrorBadMessage.Error(nil)
			}

			c.peerShare = pub
			if c.usingPSK {
				c.PSK.KEMode = PSKDheKe
			}
			return nil

		case msgHelloRetry:
			g, err := in.ReadUint16()
			if err != nil || in.Avail() != 0 {
				return ErrorBadMessage.Error(nil)
			}

			ng := libsui.LookupGroup(g)
			if ng == 0 {
				return ErrorBadMessage.Error(nil)
			}

			c.Group = ng
			return nil
		}

		return ErrorState.Error(nil)
	},
	onMissing: func(c *Conn, kind msgKind) liberr.Error {
		if kind != msgServerHello || c.Role != RoleClient {
			return nil
		}

		if c.Version >= libsui.VersionTLS13 {
			if c.usingPSK {
				// psk_ke: no share flows.
				c.PSK.KEMode = PSKKe
				return nil
			}
			return ErrorMissingExtension.Error(nil)
		}

		return nil
	},
}

// pre_shared_key, RFC 8446 section 4.2.11. Must be the last ClientHello
// extension; the binder list size is reserved during encoding and patched
// after computation, and verification hashes only the bytes preceding it.
var extPreSharedKey = &extensionType{
	iana: libsui.ExtPreSharedKey,
	shouldSend: func(c *Conn, kind msgKind) bool {
		switch kind {
		case msgClientHello:
			return c.Set.VersionMax >= libsui.VersionTLS13 && len(c.PSK.List) > 0
		case msgServerHello:
			return c.Role == RoleServer && c.usingPSK
		}
		return false
	},
	encode: func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error {
		if kind == msgServerHello {
			return out.WriteUint16(uint16(c.PSK.ChosenIdx))
		}

		ids, err := out.ReserveUint16()
		if err != nil {
			return err
		}

		for _, psk := range c.PSK.List {
			if err = out.WriteUint16(uint16(len(psk.Identity))); err != nil {
				return err
			}
			if err = out.WriteBytes(psk.Identity); err != nil {
				return err
			}
			if err = out.WriteUint32(obfuscatedAge(psk)); err != nil {
				return err
			}
		}

		if err = out.WriteVectorSize(ids); err != nil {
			return err
		}

		// Binder placeholders, patched once the partial hello hash is
		// known. The patch position is relative to the message body.
		c.binderPatchPos = out.WritePos()

		binders, err := out.ReserveUint16()
		if err != nil {
			return err
		}

		for _, psk := range c.PSK.List {
			size := psk.HMAC.Size()
			if err = out.WriteUint8(uint8(size)); err != nil {
				return err
			}
			if err = out.SkipWrite(size); err != nil {
				return err
			}
		}

		return out.WriteVectorSize(binders)
	},
	decode: func(c *Conn, kind msgKind, data []byte) liberr.Error {
		in := libstf.FromBytes(data)

		if kind == msgServerHello {
			idx, err := in.ReadUint16()
			if err != nil || in.Avail() != 0 {
				return ErrorBadMessage.Error(nil)
			}

			if int(idx) >= len(c.PSK.List) {
				return ErrorUnknownPSKIdentity.Error(nil)
			}

			c.PSK.ChosenIdx = int(idx)
			c.PSK.Chosen = c.PSK.List[idx]
			c.usingPSK = true
			return nil
		}

		idTotal, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if int(idTotal) > in.Avail() || idTotal == 0 {
			return ErrorBadMessage.Error(nil)
		}

		idVec, err := in.RawRead(int(idTotal))
		if err != nil {
			return ErrorBadMessage.Error(err)
		}

		ids := libstf.FromBytes(idVec)
		offered := &OfferedPSKList{}
		for ids.Avail() > 0 {
			l, err := ids.ReadUint16()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			identity, err := ids.ReadN(int(l))
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			age, err := ids.ReadUint32()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			offered.items = append(offered.items, OfferedPSK{
				Identity:      identity,
				ObfuscatedAge: age,
			})
		}

		bindTotal, err := in.ReadUint16()
		if err != nil {
			return ErrorBadMessage.Error(err)
		}
		if int(bindTotal) != in.Avail() || bindTotal == 0 {
			return ErrorBadMessage.Error(nil)
		}

		binders := make([][]byte, 0, offered.Len())
		for in.Avail() > 0 {
			l, err := in.ReadUint8()
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			b, err := in.ReadN(int(l))
			if err != nil {
				return ErrorBadMessage.Error(err)
			}
			binders = append(binders, b)
		}

		if len(binders) != offered.Len() {
			return ErrorBadMessage.Error(nil)
		}

		c.offered = offered
		c.offeredBinders = binders
		c.binderListTotal = 2 + int(bindTotal)

		return nil
	},
	onMissing: func(c *Conn, kind msgKind) liberr.Error {
		if kind == msgClientHello {
			c.offered = nil
			c.offeredBinders = nil
			c.binderListTotal = 0
		}
		return nil
	},
}

// obfuscatedAge computes the ticket age the wire carries. External PSKs
// always send zero.
func obfuscatedAge(psk *PSK) uint32 {
	if psk.Type == PSKExternal {
		return 0
	}

	return psk.TicketAgeAdd
}

// pskOnly reports whether the chosen mode skips the key share.
func (c *Conn) pskOnly() bool {
	return c.usingPSK && c.PSK.KEMode == PSKKe
}

// stapleAvailable reports whether a configured chain carries an OCSP
// response.
func (c *Conn) stapleAvailable() bool {
	for _, cc := range c.Set.Certs {
		if len(cc.OCSPResponse) > 0 {
			return true
		}
	}

	return false
}
