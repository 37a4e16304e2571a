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

package record

import (
	liberr "github.com/nabbar/gotls/errors"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// Header is the parsed five byte record header.
type Header struct {
	ContentType libsui.ContentType
	Version     libsui.Version
	FragmentLen int
}

// ParseHeader reads and validates a record header. The major version byte
// must be 3; once a protocol version is established the header version must
// match it exactly. Oversized fragment lengths are tolerated up to the wire
// maximum: some stacks send fragments above the negotiated cap.
func ParseHeader(in *libstf.Stuffer, established bool, version libsui.Version) (Header, liberr.Error) {
	if in.Avail() < libsui.RecordHeaderLen {
		return Header{}, ErrorBadMessage.Error(nil)
	}

	ct, err := in.ReadUint8()
	if err != nil {
		return Header{}, err
	}

	ver, err := in.ReadUint16()
	if err != nil {
		return Header{}, err
	}

	if libsui.Version(ver).Major() != 3 {
		return Header{}, ErrorBadMessage.Error(nil)
	}

	if established && libsui.Version(ver) != version {
		return Header{}, ErrorBadMessage.Error(nil)
	}

	length, err := in.ReadUint16()
	if err != nil {
		return Header{}, err
	}

	in.Reread()

	return Header{
		ContentType: libsui.ContentType(ct),
		Version:     libsui.Version(ver),
		FragmentLen: int(length),
	}, nil
}

// ParseSSLv2Header reads the SSLv2 compatibility header
// [len-hi, len-lo, type, major, minor], used once for version discovery
// before any version is established. The three payload bytes consumed here
// are subtracted from the fragment length.
func ParseSSLv2Header(in *libstf.Stuffer) (recordType uint8, clientVersion libsui.Version, fragLen int, err liberr.Error) {
	if in.Avail() < libsui.RecordHeaderLen {
		return 0, 0, 0, ErrorBadMessage.Error(nil)
	}

	length, err := in.ReadUint16()
	if err != nil {
		return 0, 0, 0, err
	}

	// The high bit flags a two byte header; mask it off the length.
	length &= 0x7FFF

	if length < 3 {
		return 0, 0, 0, ErrorBadMessage.Error(nil)
	}
	length -= 3

	rt, err := in.ReadUint8()
	if err != nil {
		return 0, 0, 0, err
	}

	ver, err := in.ReadUint16()
	if err != nil {
		return 0, 0, 0, err
	}

	return rt, libsui.Version(ver), int(length), nil
}

// WriteHeader emits a record header.
func WriteHeader(out *libstf.Stuffer, ct libsui.ContentType, wireVersion libsui.Version, fragLen int) liberr.Error {
	if fragLen < 0 || fragLen > 0xFFFF {
		return ErrorFragmentTooBig.Error(nil)
	}

	if err := out.WriteUint8(uint8(ct)); err != nil {
		return err
	}

	if err := out.WriteUint16(uint16(wireVersion)); err != nil {
		return err
	}

	return out.WriteUint16(uint16(fragLen))
}
