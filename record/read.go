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

// Package record implements the TLS record layer: header handling,
// AEAD/CBC/stream/composite protection, sequence number management and the
// TLS 1.3 inner content type. Alerts are never emitted here; failures
// bubble to the connection layer which owns the alert queues.
package record

import (
	"crypto/subtle"

	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// pseudoHeader builds seq(8) || type(1) || version(2), the MAC prefix of
// the pre-1.3 record families. The two byte length is appended by the
// verifier once the content length is known.
func pseudoHeader(keys *SessionKeys, ct libsui.ContentType, version libsui.Version) []byte {
	out := make([]byte, 0, libsui.SequenceNumberLen+3)
	out = append(out, keys.Seq[:]...)
	out = append(out, uint8(ct), version.Major(), version.Minor())

	return out
}

// aad12 builds the TLS 1.2 AEAD associated data:
// seq(8) || type(1) || version(2) || payload_len(2).
func aad12(keys *SessionKeys, ct libsui.ContentType, version libsui.Version, payloadLen int) []byte {
	out := pseudoHeader(keys, ct, version)

	return append(out, byte(payloadLen>>8), byte(payloadLen))
}

// aad13 builds the TLS 1.3 associated data: the outer record header.
func aad13(ciphertextLen int) []byte {
	return []byte{
		uint8(libsui.ContentApplicationData),
		libsui.VersionTLS12.Major(), libsui.VersionTLS12.Minor(),
		byte(ciphertextLen >> 8), byte(ciphertextLen),
	}
}

// Parse decrypts and verifies the fragment held in `in`, dispatching by the
// record algorithm family of the active cipher. On success the readable
// window of `in` is exactly the plaintext, the trailing MAC, tag and
// padding bytes are wiped, the read sequence number is incremented, and the
// effective content type is returned (in TLS 1.3 the last non-zero inner
// byte). No alert is queued here.
func Parse(keys *SessionKeys, version libsui.Version, ct libsui.ContentType, in *libstf.Stuffer) (libsui.ContentType, liberr.Error) {
	if keys == nil || in == nil {
		return 0, ErrorParamsEmpty.Error(nil)
	}

	if !keys.Protected() {
		if err := keys.IncrementSeq(); err != nil {
			return 0, err
		}
		return ct, nil
	}

	var err liberr.Error

	switch keys.Desc.Kind() {
	case libprv.KindAEAD:
		ct, err = parseAEAD(keys, version, ct, in)
	case libprv.KindCBC:
		err = parseCBC(keys, version, ct, in)
	case libprv.KindStream:
		err = parseStream(keys, version, ct, in)
	case libprv.KindComposite:
		err = parseComposite(keys, version, ct, in)
	default:
		return 0, ErrorCipherType.Error(nil)
	}

	if err != nil {
		return 0, err
	}

	if err = keys.IncrementSeq(); err != nil {
		return 0, err
	}

	return ct, nil
}

func parseAEAD(keys *SessionKeys, version libsui.Version, ct libsui.ContentType, in *libstf.Stuffer) (libsui.ContentType, liberr.Error) {
	fragLen := in.Avail()
	recIVLen := keys.Desc.RecordIVLen()
	tagLen := keys.Desc.TagLen()

	payloadLen := fragLen - recIVLen - tagLen
	if payloadLen < 0 || fragLen-recIVLen == 0 {
		return 0, ErrorDecrypt.Error(nil)
	}

	raw, err := in.RawRead(fragLen)
	if err != nil {
		return 0, err
	}

	nonce, err := keys.nonce(raw[:recIVLen])
	if err != nil {
		return 0, err
	}

	var aad []byte
	tls13 := keys.Suite.IsTLS13()
	if tls13 {
		aad = aad13(fragLen)
	} else {
		aad = aad12(keys, ct, version, payloadLen)
	}

	ciph := raw[recIVLen:]
	if _, err = keys.Cipher.OpenAEAD(nonce, aad, ciph, ciph[:0]); err != nil {
		return 0, ErrorDecrypt.Error(err)
	}

	in.Reread()
	if err = in.SkipRead(recIVLen); err != nil {
		return 0, err
	}
	if err = in.WipeN(tagLen); err != nil {
		return 0, err
	}

	if !tls13 {
		return ct, nil
	}

	// TLS 1.3: the true content type is the last non-zero plaintext byte,
	// trailing zeros are padding.
	plain := raw[recIVLen : recIVLen+payloadLen]
	idx := -1
	for i := len(plain) - 1; i >= 0; i-- {
		if plain[i] != 0 {
			idx = i
			break
		}
	}

	if idx < 0 {
		return 0, ErrorBadMessage.Error(nil)
	}

	inner := libsui.ContentType(plain[idx])
	if err = in.WipeN(payloadLen - idx); err != nil {
		return 0, err
	}

	return inner, nil
}

func parseCBC(keys *SessionKeys, version libsui.Version, ct libsui.ContentType, in *libstf.Stuffer) liberr.Error {
	fragLen := in.Avail()
	blockSize := keys.Desc.BlockSize()

	ivLen := 0
	if version >= libsui.VersionTLS11 {
		ivLen = blockSize
	}

	body := fragLen - ivLen
	if body <= 0 || body%blockSize != 0 {
		return ErrorDecrypt.Error(nil)
	}

	raw, err := in.RawRead(fragLen)
	if err != nil {
		return err
	}

	iv := keys.FixedIV
	if ivLen > 0 {
		iv = raw[:ivLen]
	}

	data := raw[ivLen:]

	// TLS 1.0 chains records: the next IV is this record's last
	// ciphertext block, saved before the in-place decrypt.
	var nextIV []byte
	if ivLen == 0 {
		nextIV = append([]byte(nil), data[len(data)-blockSize:]...)
	}

	if err = keys.Cipher.DecryptCBC(iv, data); err != nil {
		return ErrorDecrypt.Error(err)
	}

	if nextIV != nil {
		copy(keys.FixedIV, nextIV)
	}

	n, err := libprv.VerifyCBC(keys.MAC, pseudoHeader(keys, ct, version), data)
	if err != nil {
		return ErrorDecrypt.Error(err)
	}

	in.Reread()
	if err = in.SkipRead(ivLen); err != nil {
		return err
	}

	return in.WipeN(body - n)
}

func parseStream(keys *SessionKeys, version libsui.Version, ct libsui.ContentType, in *libstf.Stuffer) liberr.Error {
	fragLen := in.Avail()
	macLen := keys.MAC.Size()

	contentLen := fragLen - macLen
	if contentLen < 0 {
		return ErrorDecrypt.Error(nil)
	}

	raw, err := in.RawRead(fragLen)
	if err != nil {
		return err
	}

	if err = keys.Cipher.XORStream(raw); err != nil {
		return ErrorDecrypt.Error(err)
	}

	mac, err := keys.MAC.Copy()
	if err != nil {
		return err
	}

	if err = mac.Update(pseudoHeader(keys, ct, version)); err != nil {
		return err
	}
	if err = mac.Update([]byte{byte(contentLen >> 8), byte(contentLen)}); err != nil {
		return err
	}
	if err = mac.Update(raw[:contentLen]); err != nil {
		return err
	}

	sum := make([]byte, macLen)
	if err = mac.Digest(sum); err != nil {
		return err
	}

	if subtle.ConstantTimeCompare(sum, raw[contentLen:]) != 1 {
		return ErrorDecrypt.Error(nil)
	}

	in.Reread()

	return in.WipeN(macLen)
}

func parseComposite(keys *SessionKeys, version libsui.Version, ct libsui.ContentType, in *libstf.Stuffer) liberr.Error {
	fragLen := in.Avail()
	blockSize := keys.Desc.BlockSize()

	ivLen := 0
	if version >= libsui.VersionTLS11 {
		ivLen = blockSize
	}

	body := fragLen - ivLen
	if body <= 0 || body%blockSize != 0 {
		return ErrorDecrypt.Error(nil)
	}

	raw, err := in.RawRead(fragLen)
	if err != nil {
		return err
	}

	iv := keys.FixedIV
	if ivLen > 0 {
		iv = raw[:ivLen]
	}

	out, err := keys.Cipher.OpenComposite(iv, pseudoHeader(keys, ct, version), raw[ivLen:])
	if err != nil {
		return ErrorDecrypt.Error(err)
	}

	copy(raw[ivLen:], out)

	in.Reread()
	if err = in.SkipRead(ivLen); err != nil {
		return err
	}

	return in.WipeN(body - len(out))
}
