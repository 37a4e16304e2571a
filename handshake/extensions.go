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

// extIndex is the dense local id of a supported extension. Extensions seen
// on the wire are parsed into an array indexed by it.
type extIndex int

const (
	extIdxServerName extIndex = iota
	extIdxStatusRequest
	extIdxSupportedGroups
	extIdxECPointFormats
	extIdxSignatureAlgorithms
	extIdxALPN
	extIdxExtendedMasterSecret
	extIdxSessionTicket
	extIdxPreSharedKey
	extIdxSupportedVersions
	extIdxPSKModes
	extIdxSigAlgorithmsCert
	extIdxKeyShare

	extCount
)

func extIndexOf(iana uint16) (extIndex, bool) {
	switch iana {
	case libsui.ExtServerName:
		return extIdxServerName, true
	case libsui.ExtStatusRequest:
		return extIdxStatusRequest, true
	case libsui.ExtSupportedGroups:
		return extIdxSupportedGroups, true
	case libsui.ExtECPointFormats:
		return extIdxECPointFormats, true
	case libsui.ExtSignatureAlgorithms:
		return extIdxSignatureAlgorithms, true
	case libsui.ExtALPN:
		return extIdxALPN, true
	case libsui.ExtExtendedMasterSec:
		return extIdxExtendedMasterSecret, true
	case libsui.ExtSessionTicket:
		return extIdxSessionTicket, true
	case libsui.ExtPreSharedKey:
		return extIdxPreSharedKey, true
	case libsui.ExtSupportedVersions:
		return extIdxSupportedVersions, true
	case libsui.ExtPSKKeyExchangeModes:
		return extIdxPSKModes, true
	case libsui.ExtSigAlgorithmsCert:
		return extIdxSigAlgorithmsCert, true
	case libsui.ExtKeyShare:
		return extIdxKeyShare, true
	}

	return 0, false
}

// parsedExtension is one observed (type, payload) pair.
type parsedExtension struct {
	iana    uint16
	data    []byte
	present bool
}

// parsedList is the dense array the raw extension vector scans into.
type parsedList struct {
	arr [extCount]parsedExtension
}

// parseExtensionList scans the wire extension vector. Unknown code points
// are ignored, duplicates are fatal, and any inner length running past the
// outer vector is a malformed message.
func parseExtensionList(in *libstf.Stuffer) (*parsedList, liberr.Error) {
	out := &parsedList{}

	if in.Avail() == 0 {
		// A missing extension block is a legal empty one.
		return out, nil
	}

	total, err := in.ReadUint16()
	if err != nil {
		return nil, ErrorBadMessage.Error(err)
	}

	if int(total) > in.Avail() {
		return nil, ErrorBadMessage.Error(nil)
	}

	raw, err := in.RawRead(int(total))
	if err != nil {
		return nil, ErrorBadMessage.Error(err)
	}

	vec := libstf.FromBytes(raw)

	for vec.Avail() > 0 {
		iana, err := vec.ReadUint16()
		if err != nil {
			return nil, ErrorBadMessage.Error(err)
		}

		size, err := vec.ReadUint16()
		if err != nil {
			return nil, ErrorBadMessage.Error(err)
		}

		data, err := vec.RawRead(int(size))
		if err != nil {
			return nil, ErrorBadMessage.Error(err)
		}

		idx, known := extIndexOf(iana)
		if !known {
			continue
		}

		if out.arr[idx].present {
			return nil, ErrorDuplicateExtension.Error(nil)
		}

		out.arr[idx] = parsedExtension{
			iana:    iana,
			data:    data,
			present: true,
		}
	}

	return out, nil
}

// msgKind selects which extension list applies.
type msgKind uint8

const (
	msgClientHello msgKind = iota
	msgServerHello
	msgHelloRetry
	msgEncryptedExtensions
	msgCertificateRequest
	msgNewSessionTicket
)

// extensionType is the static record of one extension: where it may
// appear, whether to emit it, how to encode and decode it, and the policy
// when the peer's copy is missing.
type extensionType struct {
	iana       uint16
	shouldSend func(c *Conn, kind msgKind) bool
	encode     func(c *Conn, kind msgKind, out *libstf.Stuffer) liberr.Error
	decode     func(c *Conn, kind msgKind, data []byte) liberr.Error
	onMissing  func(c *Conn, kind msgKind) liberr.Error
}

// listFor returns the expected extension set of a message kind, in
// registration order.
func listFor(kind msgKind) []*extensionType {
	switch kind {
	case msgClientHello:
		return []*extensionType{
			extServerName,
			extSupportedGroups,
			extECPointFormats,
			extSignatureAlgorithms,
			extSigAlgorithmsCert,
			extALPN,
			extExtendedMasterSecret,
			extSessionTicket,
			extStatusRequest,
			extSupportedVersions,
			extPSKModes,
			extKeyShare,
			// pre_shared_key must close the ClientHello.
			extPreSharedKey,
		}
	case msgServerHello:
		// pre_shared_key processes before key_share: the PSK selection
		// decides whether a share is even expected.
		return []*extensionType{
			extSupportedVersions,
			extPreSharedKey,
			extKeyShare,
			extExtendedMasterSecret,
			extSessionTicket,
			extStatusRequest,
			extECPointFormats,
			extServerName,
			extALPN,
		}
	case msgHelloRetry:
		return []*extensionType{
			extSupportedVersions,
			extKeyShare,
		}
	case msgEncryptedExtensions:
		return []*extensionType{
			extServerName,
			extALPN,
		}
	case msgCertificateRequest:
		return []*extensionType{
			extSignatureAlgorithms,
			extSigAlgorithmsCert,
		}
	case msgNewSessionTicket:
		return []*extensionType{}
	}

	return nil
}

// sendExtensions emits the extension vector of a message.
func (c *Conn) sendExtensions(kind msgKind, out *libstf.Stuffer) liberr.Error {
	res, err := out.ReserveUint16()
	if err != nil {
		return err
	}

	for _, ext := range listFor(kind) {
		if ext.shouldSend != nil && !ext.shouldSend(c, kind) {
			continue
		}

		if err = out.WriteUint16(ext.iana); err != nil {
			return err
		}

		body, err := out.ReserveUint16()
		if err != nil {
			return err
		}

		if err = ext.encode(c, kind, out); err != nil {
			return err
		}

		if err = out.WriteVectorSize(body); err != nil {
			return err
		}
	}

	return out.WriteVectorSize(res)
}

// recvExtensions parses and processes the extension vector of a message.
// The expected set runs in registration order, the missing handler fires
// for absent entries, and any observed extension the message kind does not
// expect is unsupported.
func (c *Conn) recvExtensions(kind msgKind, in *libstf.Stuffer) liberr.Error {
	parsed, err := parseExtensionList(in)
	if err != nil {
		return err
	}

	for _, ext := range listFor(kind) {
		idx, _ := extIndexOf(ext.iana)
		p := &parsed.arr[idx]

		if !p.present {
			if ext.onMissing != nil {
				if err = ext.onMissing(c, kind); err != nil {
					return err
				}
			}
			continue
		}

		if err = ext.decode(c, kind, p.data); err != nil {
			return err
		}

		p.present = false
	}

	for i := range parsed.arr {
		if parsed.arr[i].present {
			return ErrorUnsupportedExtension.Error(nil)
		}
	}

	return nil
}
