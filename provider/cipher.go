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
	liberr "github.com/nabbar/gotls/errors"
)

// cipherDesc is the shared descriptor backing every RecordCipher.
type cipherDesc struct {
	kind        CipherKind
	keyLen      int
	fixedIVLen  int
	recordIVLen int
	tagLen      int
	blockSize   int
	macAlgo     HashAlgo
	mk          func(d *cipherDesc, key, macKey []byte) (Session, liberr.Error)
}

func (d *cipherDesc) Kind() CipherKind { return d.kind }
func (d *cipherDesc) KeyLen() int      { return d.keyLen }
func (d *cipherDesc) FixedIVLen() int  { return d.fixedIVLen }
func (d *cipherDesc) RecordIVLen() int { return d.recordIVLen }
func (d *cipherDesc) TagLen() int      { return d.tagLen }
func (d *cipherDesc) BlockSize() int   { return d.blockSize }

func (d *cipherDesc) IsAvailable() bool {
	return d.mk != nil
}

func (d *cipherDesc) NewSession(key, macKey []byte) (Session, liberr.Error) {
	if len(key) != d.keyLen {
		return nil, ErrorKeyInit.Error(nil)
	}

	if d.kind == KindComposite {
		if len(macKey) == 0 {
			return nil, ErrorKeyInit.Error(nil)
		}
	} else if macKey != nil {
		return nil, ErrorKeyInit.Error(nil)
	}

	return d.mk(d, key, macKey)
}

// baseSession supplies kind-mismatch failures so each concrete session only
// implements its own family.
type baseSession struct{}

func (baseSession) SealAEAD(_, _, _, _ []byte) ([]byte, liberr.Error) {
	return nil, ErrorCipherType.Error(nil)
}

func (baseSession) OpenAEAD(_, _, _, _ []byte) ([]byte, liberr.Error) {
	return nil, ErrorCipherType.Error(nil)
}

func (baseSession) EncryptCBC(_, _ []byte) liberr.Error {
	return ErrorCipherType.Error(nil)
}

func (baseSession) DecryptCBC(_, _ []byte) liberr.Error {
	return ErrorCipherType.Error(nil)
}

func (baseSession) XORStream(_ []byte) liberr.Error {
	return ErrorCipherType.Error(nil)
}

func (baseSession) SealComposite(_, _, _ []byte) ([]byte, liberr.Error) {
	return nil, ErrorCipherType.Error(nil)
}

func (baseSession) OpenComposite(_, _, _ []byte) ([]byte, liberr.Error) {
	return nil, ErrorCipherType.Error(nil)
}

func (baseSession) Wipe() {}
