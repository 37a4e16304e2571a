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

package provider

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	liberr "github.com/nabbar/gotls/errors"
)

// AESGCM12 returns the TLS 1.2 AES-GCM record cipher for the given key
// length: 4 byte fixed IV, 8 byte explicit record IV.
func AESGCM12(keyLen int) RecordCipher {
	return &cipherDesc{
		kind:        KindAEAD,
		keyLen:      keyLen,
		fixedIVLen:  4,
		recordIVLen: 8,
		tagLen:      16,
		mk:          newGCMSession,
	}
}

// AESGCM13 returns the TLS 1.3 AES-GCM record cipher: 12 byte implicit IV,
// no explicit record IV.
func AESGCM13(keyLen int) RecordCipher {
	return &cipherDesc{
		kind:        KindAEAD,
		keyLen:      keyLen,
		fixedIVLen:  12,
		recordIVLen: 0,
		tagLen:      16,
		mk:          newGCMSession,
	}
}

// ChaCha20Poly1305 returns the ChaCha20-Poly1305 record cipher, fully
// implicit nonce for both TLS 1.2 (RFC 7905) and TLS 1.3.
func ChaCha20Poly1305() RecordCipher {
	return &cipherDesc{
		kind:        KindAEAD,
		keyLen:      chacha20poly1305.KeySize,
		fixedIVLen:  chacha20poly1305.NonceSize,
		recordIVLen: 0,
		tagLen:      16,
		mk:          newChaChaSession,
	}
}

type aeadSession struct {
	baseSession
	aead cipher.AEAD
}

func newGCMSession(d *cipherDesc, key, _ []byte) (Session, liberr.Error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrorKeyInit.Error(err)
	}

	aead, err := cipher.NewGCM(blk)
	if err != nil {
		return nil, ErrorKeyInit.Error(err)
	}

	return &aeadSession{aead: aead}, nil
}

func newChaChaSession(_ *cipherDesc, key, _ []byte) (Session, liberr.Error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrorKeyInit.Error(err)
	}

	return &aeadSession{aead: aead}, nil
}

func (s *aeadSession) SealAEAD(nonce, aad, plaintext, dst []byte) ([]byte, liberr.Error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, ErrorEncrypt.Error(nil)
	}

	return s.aead.Seal(dst, nonce, plaintext, aad), nil
}

func (s *aeadSession) OpenAEAD(nonce, aad, ciphertext, dst []byte) ([]byte, liberr.Error) {
	if len(nonce) != s.aead.NonceSize() {
		return nil, ErrorDecrypt.Error(nil)
	}

	out, err := s.aead.Open(dst, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrorDecrypt.Error(err)
	}

	return out, nil
}
