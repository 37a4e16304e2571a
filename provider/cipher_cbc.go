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
	"crypto/rc4" // #nosec: legacy stream suite support

	liberr "github.com/nabbar/gotls/errors"
)

// AESCBC returns the AES-CBC record cipher for the given key length. The
// record layer supplies the HMAC separately.
func AESCBC(keyLen int, mac HashAlgo) RecordCipher {
	return &cipherDesc{
		kind:      KindCBC,
		keyLen:    keyLen,
		blockSize: aes.BlockSize,
		macAlgo:   mac,
		mk:        newCBCSession,
	}
}

// RC4 returns the RC4 stream record cipher.
func RC4(keyLen int, mac HashAlgo) RecordCipher {
	return &cipherDesc{
		kind:    KindStream,
		keyLen:  keyLen,
		macAlgo: mac,
		mk:      newRC4Session,
	}
}

type cbcSession struct {
	baseSession
	block cipher.Block
}

func newCBCSession(_ *cipherDesc, key, _ []byte) (Session, liberr.Error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrorKeyInit.Error(err)
	}

	return &cbcSession{block: blk}, nil
}

func (s *cbcSession) EncryptCBC(iv, data []byte) liberr.Error {
	if len(iv) != s.block.BlockSize() || len(data)%s.block.BlockSize() != 0 {
		return ErrorEncrypt.Error(nil)
	}

	cipher.NewCBCEncrypter(s.block, iv).CryptBlocks(data, data)

	return nil
}

func (s *cbcSession) DecryptCBC(iv, data []byte) liberr.Error {
	if len(iv) != s.block.BlockSize() || len(data)%s.block.BlockSize() != 0 || len(data) == 0 {
		return ErrorDecrypt.Error(nil)
	}

	cipher.NewCBCDecrypter(s.block, iv).CryptBlocks(data, data)

	return nil
}

type rc4Session struct {
	baseSession
	c *rc4.Cipher
}

func newRC4Session(_ *cipherDesc, key, _ []byte) (Session, liberr.Error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, ErrorKeyInit.Error(err)
	}

	return &rc4Session{c: c}, nil
}

func (s *rc4Session) XORStream(data []byte) liberr.Error {
	s.c.XORKeyStream(data, data)
	return nil
}
