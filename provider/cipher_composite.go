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

	liberr "github.com/nabbar/gotls/errors"
)

// AESCBCHMAC returns the composite AES-CBC + HMAC record cipher: MAC, pad
// and encrypt happen inside a single session call, mirroring stitched
// cipher implementations.
func AESCBCHMAC(keyLen int, mac HashAlgo) RecordCipher {
	return &cipherDesc{
		kind:      KindComposite,
		keyLen:    keyLen,
		blockSize: aes.BlockSize,
		macAlgo:   mac,
		mk:        newCompositeSession,
	}
}

type compositeSession struct {
	baseSession
	block cipher.Block
	mac   HMAC
}

func newCompositeSession(d *cipherDesc, key, macKey []byte) (Session, liberr.Error) {
	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrorKeyInit.Error(err)
	}

	mac, er := NewHMAC(d.macAlgo, macKey)
	if er != nil {
		return nil, er
	}

	return &compositeSession{
		block: blk,
		mac:   mac,
	}, nil
}

func (s *compositeSession) SealComposite(iv, pseudoHeader, payload []byte) ([]byte, liberr.Error) {
	if len(iv) != s.block.BlockSize() {
		return nil, ErrorEncrypt.Error(nil)
	}

	if err := s.mac.Update(pseudoHeader); err != nil {
		return nil, err
	}
	if err := s.mac.Update([]byte{byte(len(payload) >> 8), byte(len(payload))}); err != nil {
		return nil, err
	}
	if err := s.mac.Update(payload); err != nil {
		return nil, err
	}

	sum := make([]byte, s.mac.Size())
	if err := s.mac.Digest(sum); err != nil {
		return nil, err
	}
	s.mac.Reset()

	out := make([]byte, 0, len(payload)+len(sum)+s.block.BlockSize())
	out = append(out, payload...)
	out = append(out, sum...)
	out = append(out, MakeCBCPadding(len(out), s.block.BlockSize())...)

	cipher.NewCBCEncrypter(s.block, iv).CryptBlocks(out, out)

	return out, nil
}

func (s *compositeSession) OpenComposite(iv, pseudoHeader, ciphertext []byte) ([]byte, liberr.Error) {
	if len(iv) != s.block.BlockSize() ||
		len(ciphertext) == 0 ||
		len(ciphertext)%s.block.BlockSize() != 0 {
		return nil, ErrorDecrypt.Error(nil)
	}

	data := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(s.block, iv).CryptBlocks(data, ciphertext)

	n, err := VerifyCBC(s.mac, pseudoHeader, data)
	if err != nil {
		return nil, err
	}

	return data[:n], nil
}

func (s *compositeSession) Wipe() {
	s.mac.Wipe()
}
