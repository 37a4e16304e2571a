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
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"
)

// Write protects one payload as a single record and appends it to `out`.
// The payload must fit the protocol maximum fragment length
// (MaxFragmentLen); WriteAll fragments larger buffers to a given cap. The write sequence number increments on
// success.
func Write(out *libstf.Stuffer, keys *SessionKeys, version, wireVersion libsui.Version, ct libsui.ContentType, payload []byte) liberr.Error {
	if out == nil || keys == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	if len(payload) > libsui.MaxFragmentLen {
		return ErrorFragmentTooBig.Error(nil)
	}

	var err liberr.Error

	if !keys.Protected() {
		if err = WriteHeader(out, ct, wireVersion, len(payload)); err != nil {
			return err
		}
		if err = out.WriteBytes(payload); err != nil {
			return err
		}
		return keys.IncrementSeq()
	}

	switch keys.Desc.Kind() {
	case libprv.KindAEAD:
		err = writeAEAD(out, keys, version, wireVersion, ct, payload)
	case libprv.KindCBC:
		err = writeCBC(out, keys, version, wireVersion, ct, payload)
	case libprv.KindStream:
		err = writeStream(out, keys, version, wireVersion, ct, payload)
	case libprv.KindComposite:
		err = writeComposite(out, keys, version, wireVersion, ct, payload)
	default:
		return ErrorCipherType.Error(nil)
	}

	if err != nil {
		return err
	}

	return keys.IncrementSeq()
}

// WriteAll splits payload into fragments of at most maxFrag bytes and
// writes one record per fragment.
func WriteAll(out *libstf.Stuffer, keys *SessionKeys, version, wireVersion libsui.Version, ct libsui.ContentType, payload []byte, maxFrag int) liberr.Error {
	if maxFrag <= 0 || maxFrag > libsui.MaxFragmentLen {
		maxFrag = libsui.MaxFragmentLen
	}

	for len(payload) > 0 {
		n := len(payload)
		if n > maxFrag {
			n = maxFrag
		}

		if err := Write(out, keys, version, wireVersion, ct, payload[:n]); err != nil {
			return err
		}

		payload = payload[n:]
	}

	return nil
}

func writeAEAD(out *libstf.Stuffer, keys *SessionKeys, version, wireVersion libsui.Version, ct libsui.ContentType, payload []byte) liberr.Error {
	recIVLen := keys.Desc.RecordIVLen()
	tagLen := keys.Desc.TagLen()
	tls13 := keys.Suite.IsTLS13()

	var (
		aad   []byte
		inner []byte
		recIV []byte
	)

	if tls13 {
		inner = make([]byte, 0, len(payload)+1)
		inner = append(inner, payload...)
		inner = append(inner, uint8(ct))
		aad = aad13(len(inner) + tagLen)
		ct = libsui.ContentApplicationData
	} else {
		inner = payload
		aad = aad12(keys, ct, version, len(payload))
		if recIVLen > 0 {
			// Partially explicit nonce: the sequence number doubles as
			// the per-record IV.
			recIV = keys.Seq[:]
		}
	}

	nonce, err := keys.nonce(recIV)
	if err != nil {
		return err
	}

	sealed, err2 := keys.Cipher.SealAEAD(nonce, aad, inner, nil)
	if err2 != nil {
		return ErrorEncrypt.Error(err2)
	}

	fragLen := recIVLen + len(sealed)
	if err = WriteHeader(out, ct, wireVersion, fragLen); err != nil {
		return err
	}

	if recIVLen > 0 {
		if err = out.WriteBytes(recIV); err != nil {
			return err
		}
	}

	if err = out.WriteBytes(sealed); err != nil {
		return err
	}

	if tls13 {
		libblb.WipeBytes(inner)
	}

	return nil
}

func writeCBC(out *libstf.Stuffer, keys *SessionKeys, version, wireVersion libsui.Version, ct libsui.ContentType, payload []byte) liberr.Error {
	blockSize := keys.Desc.BlockSize()
	macLen := keys.MAC.Size()

	mac, err := keys.MAC.Copy()
	if err != nil {
		return err
	}

	if err = mac.Update(pseudoHeader(keys, ct, version)); err != nil {
		return err
	}
	if err = mac.Update([]byte{byte(len(payload) >> 8), byte(len(payload))}); err != nil {
		return err
	}
	if err = mac.Update(payload); err != nil {
		return err
	}

	sum := make([]byte, macLen)
	if err = mac.Digest(sum); err != nil {
		return err
	}

	data := make([]byte, 0, len(payload)+macLen+blockSize)
	data = append(data, payload...)
	data = append(data, sum...)
	data = append(data, libprv.MakeCBCPadding(len(data), blockSize)...)

	ivLen := 0
	iv := keys.FixedIV
	if version >= libsui.VersionTLS11 {
		ivLen = blockSize
		iv = make([]byte, blockSize)
		if err = libprv.Fill(iv); err != nil {
			return err
		}
	}

	if err = keys.Cipher.EncryptCBC(iv, data); err != nil {
		return ErrorEncrypt.Error(err)
	}

	if ivLen == 0 {
		// TLS 1.0 chains the next IV from the last ciphertext block.
		copy(keys.FixedIV, data[len(data)-blockSize:])
	}

	if err = WriteHeader(out, ct, wireVersion, ivLen+len(data)); err != nil {
		return err
	}

	if ivLen > 0 {
		if err = out.WriteBytes(iv); err != nil {
			return err
		}
	}

	return out.WriteBytes(data)
}

func writeStream(out *libstf.Stuffer, keys *SessionKeys, version, wireVersion libsui.Version, ct libsui.ContentType, payload []byte) liberr.Error {
	macLen := keys.MAC.Size()

	mac, err := keys.MAC.Copy()
	if err != nil {
		return err
	}

	if err = mac.Update(pseudoHeader(keys, ct, version)); err != nil {
		return err
	}
	if err = mac.Update([]byte{byte(len(payload) >> 8), byte(len(payload))}); err != nil {
		return err
	}
	if err = mac.Update(payload); err != nil {
		return err
	}

	sum := make([]byte, macLen)
	if err = mac.Digest(sum); err != nil {
		return err
	}

	data := make([]byte, 0, len(payload)+macLen)
	data = append(data, payload...)
	data = append(data, sum...)

	if err = keys.Cipher.XORStream(data); err != nil {
		return ErrorEncrypt.Error(err)
	}

	if err = WriteHeader(out, ct, wireVersion, len(data)); err != nil {
		return err
	}

	return out.WriteBytes(data)
}

func writeComposite(out *libstf.Stuffer, keys *SessionKeys, version, wireVersion libsui.Version, ct libsui.ContentType, payload []byte) liberr.Error {
	blockSize := keys.Desc.BlockSize()

	ivLen := 0
	iv := keys.FixedIV
	if version >= libsui.VersionTLS11 {
		ivLen = blockSize
		iv = make([]byte, blockSize)
		if err := libprv.Fill(iv); err != nil {
			return err
		}
	}

	data, err := keys.Cipher.SealComposite(iv, pseudoHeader(keys, ct, version), payload)
	if err != nil {
		return ErrorEncrypt.Error(err)
	}

	if ivLen == 0 {
		copy(keys.FixedIV, data[len(data)-blockSize:])
	}

	if err = WriteHeader(out, ct, wireVersion, ivLen+len(data)); err != nil {
		return err
	}

	if ivLen > 0 {
		if err = out.WriteBytes(iv); err != nil {
			return err
		}
	}

	return out.WriteBytes(data)
}
