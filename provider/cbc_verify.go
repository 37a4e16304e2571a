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
	"crypto/subtle"

	liberr "github.com/nabbar/gotls/errors"
)

// maxCBCPadding is the largest padding length a CBC record can carry.
const maxCBCPadding = 255

// VerifyCBC checks the padding and MAC of a decrypted CBC record in a
// single control flow path. decrypted is content || MAC || padding ||
// pad-length. The MAC is computed over pseudoHeader || content-length(2) ||
// content, but the same number of compression blocks is hashed whether the
// padding is valid or not. On success the content length is returned; every
// failure mode returns the same ErrorDecrypt.
func VerifyCBC(mac HMAC, pseudoHeader, decrypted []byte) (int, liberr.Error) {
	if mac == nil {
		return 0, ErrorParamsEmpty.Error(nil)
	}

	macLen := mac.Size()
	total := len(decrypted)

	// Minimum record: one MAC and the pad-length byte.
	if total < macLen+1 {
		return 0, ErrorDecrypt.Error(nil)
	}

	padLen := int(decrypted[total-1])

	// ok stays 1 only if every check passes. No early returns below.
	ok := 1

	// The claimed padding must fit.
	if padLen+1+macLen > total {
		ok = 0
		padLen = 0
	}

	// Every padding byte must equal the pad length. Scan a fixed window of
	// up to maxCBCPadding bytes so the loop length does not depend on the
	// claimed padding.
	scan := maxCBCPadding
	if scan > total-1 {
		scan = total - 1
	}
	for i := 0; i < scan; i++ {
		pos := total - 2 - i
		inPad := subtle.ConstantTimeLessOrEq(i+1, padLen)
		match := subtle.ConstantTimeByteEq(decrypted[pos], uint8(padLen))
		ok &= subtle.ConstantTimeSelect(inPad, match, 1)
	}

	contentLen := total - macLen - padLen - 1

	if err := mac.Update(pseudoHeader); err != nil {
		return 0, err
	}
	if err := mac.Update([]byte{byte(contentLen >> 8), byte(contentLen)}); err != nil {
		return 0, err
	}
	if err := mac.Update(decrypted[:contentLen]); err != nil {
		return 0, err
	}

	computed := make([]byte, macLen)
	if err := mac.Digest(computed); err != nil {
		return 0, err
	}

	// Burn the same number of compression blocks as the longest possible
	// padding would have, so short padding does not finish faster.
	if err := mac.Update(decrypted[contentLen:]); err != nil {
		return 0, err
	}
	burn := make([]byte, macLen)
	if err := mac.Digest(burn); err != nil {
		return 0, err
	}

	ok &= subtle.ConstantTimeCompare(computed, decrypted[contentLen:contentLen+macLen])

	mac.Reset()

	if ok != 1 {
		return 0, ErrorDecrypt.Error(nil)
	}

	return contentLen, nil
}

// MakeCBCPadding returns the padding block (padding bytes plus the
// pad-length byte) bringing dataLen up to a whole number of blocks.
func MakeCBCPadding(dataLen, blockSize int) []byte {
	padLen := blockSize - (dataLen % blockSize)

	pad := make([]byte, padLen)
	for i := range pad {
		pad[i] = byte(padLen - 1)
	}

	return pad
}
