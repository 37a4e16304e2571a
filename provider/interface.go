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

// Package provider defines the cryptographic primitive traits the TLS core
// consumes, together with concrete adapters over the standard library and
// golang.org/x/crypto.
//
// The core never touches a concrete algorithm directly: cipher suites carry
// RecordCipher descriptors, hashes travel as HashAlgo values, and key
// material enters a primitive only through NewSession / Init. Swapping the
// provider set swaps the cryptography without touching the record or
// handshake layers.
package provider

import (
	liberr "github.com/nabbar/gotls/errors"
)

// CipherKind selects the record protection family of a cipher.
type CipherKind uint8

const (
	KindAEAD CipherKind = iota
	KindCBC
	KindStream
	KindComposite
)

// RecordCipher describes a record protection algorithm and builds keyed
// sessions for it.
type RecordCipher interface {
	Kind() CipherKind

	KeyLen() int
	// FixedIVLen is the implicit part of the nonce (AEAD) or unused (CBC).
	FixedIVLen() int
	// RecordIVLen is the explicit per-record part of the nonce carried in
	// the ciphertext head (TLS 1.2 AES-GCM), zero elsewhere.
	RecordIVLen() int
	TagLen() int
	BlockSize() int

	IsAvailable() bool

	// NewSession binds the key. For composite ciphers macKey feeds the
	// internal MAC, elsewhere it must be nil.
	NewSession(key, macKey []byte) (Session, liberr.Error)
}

// Session is a keyed cipher context. Only the methods matching the cipher
// kind are usable, the others fail with ErrorCipherType.
type Session interface {
	// SealAEAD encrypts plaintext and appends the tag, returning
	// ciphertext appended to dst.
	SealAEAD(nonce, aad, plaintext, dst []byte) ([]byte, liberr.Error)
	// OpenAEAD authenticates and decrypts, returning plaintext appended
	// to dst. Tag failure is indistinguishable from any other failure.
	OpenAEAD(nonce, aad, ciphertext, dst []byte) ([]byte, liberr.Error)

	// EncryptCBC / DecryptCBC work in place, data must be a whole number
	// of blocks.
	EncryptCBC(iv, data []byte) liberr.Error
	DecryptCBC(iv, data []byte) liberr.Error

	// XORStream applies the stream keystream in place.
	XORStream(data []byte) liberr.Error

	// SealComposite runs MAC, pad and encrypt in one provider call and
	// returns the protected payload. OpenComposite reverses it, verifying
	// MAC and padding in constant time.
	SealComposite(iv, pseudoHeader, payload []byte) ([]byte, liberr.Error)
	OpenComposite(iv, pseudoHeader, ciphertext []byte) ([]byte, liberr.Error)

	// Wipe zeroizes the session key material.
	Wipe()
}

// Hash is a running message digest.
type Hash interface {
	Update(b []byte) liberr.Error
	// Digest finalizes a copy of the state into out, which must be
	// exactly Size bytes. The running state stays usable.
	Digest(out []byte) liberr.Error
	Copy() (Hash, liberr.Error)
	Reset()
	Size() int
	BlockSize() int
	Algo() HashAlgo
}

// HMAC is a keyed MAC with the same running shape as Hash.
type HMAC interface {
	Update(b []byte) liberr.Error
	Digest(out []byte) liberr.Error
	// Reset rewinds to the keyed initial state.
	Reset()
	Copy() (HMAC, liberr.Error)
	Size() int
	BlockSize() int
	Wipe()
}
