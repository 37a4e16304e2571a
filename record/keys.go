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
	libsui "github.com/nabbar/gotls/suite"
)

// SessionKeys is the protection state of one direction. A nil Cipher means
// the direction is still plaintext. Rekeying replaces the whole struct
// atomically under the ChangeCipherSpec barrier or on KeyUpdate.
type SessionKeys struct {
	Suite *libsui.CipherSuite
	// Desc is the record cipher descriptor the session was built from; it
	// carries the geometry (IV, tag, block sizes).
	Desc    libprv.RecordCipher
	Cipher  libprv.Session
	FixedIV []byte
	// MAC serves the CBC and stream families; composite ciphers hold
	// their MAC inside the session.
	MAC libprv.HMAC
	Seq [libsui.SequenceNumberLen]byte
}

// NewPlaintext returns the unprotected initial state.
func NewPlaintext() *SessionKeys {
	return &SessionKeys{}
}

// Protected reports whether records are encrypted in this direction.
func (k *SessionKeys) Protected() bool {
	return k != nil && k.Cipher != nil
}

// IncrementSeq advances the 64 bit record sequence number. Wrap-around is a
// fatal internal condition and never observable on the wire.
func (k *SessionKeys) IncrementSeq() liberr.Error {
	for i := len(k.Seq) - 1; i >= 0; i-- {
		k.Seq[i]++
		if k.Seq[i] != 0 {
			return nil
		}
	}

	return ErrorSequenceOverflow.Error(nil)
}

// ResetSeq rewinds the sequence number after a rekey.
func (k *SessionKeys) ResetSeq() {
	for i := range k.Seq {
		k.Seq[i] = 0
	}
}

// nonce builds the AEAD nonce for the current sequence number. For the
// partially explicit mode the record IV comes from the wire (read) or the
// sequence number (write); for the fully implicit mode the padded sequence
// number is XORed into the fixed IV.
func (k *SessionKeys) nonce(recordIV []byte) ([]byte, liberr.Error) {
	switch k.Suite.NonceMode {
	case libsui.NonceExplicit:
		n := make([]byte, 0, len(k.FixedIV)+len(recordIV))
		n = append(n, k.FixedIV...)
		n = append(n, recordIV...)
		return n, nil

	case libsui.NonceImplicitXOR:
		n := make([]byte, len(k.FixedIV))
		copy(n[len(n)-libsui.SequenceNumberLen:], k.Seq[:])
		for i := range n {
			n[i] ^= k.FixedIV[i]
		}
		return n, nil
	}

	return nil, ErrorCipherType.Error(nil)
}

// Wipe zeroizes all key material of the direction.
func (k *SessionKeys) Wipe() {
	if k == nil {
		return
	}

	if k.Cipher != nil {
		k.Cipher.Wipe()
		k.Cipher = nil
	}

	if k.MAC != nil {
		k.MAC.Wipe()
		k.MAC = nil
	}

	libblb.WipeBytes(k.FixedIV)
	k.FixedIV = nil
	k.ResetSeq()
	k.Suite = nil
}
