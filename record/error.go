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

import "github.com/nabbar/gotls/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + errors.MinPkgRecord
	ErrorBadMessage
	ErrorCipherType
	ErrorDecrypt
	ErrorEncrypt
	ErrorSequenceOverflow
	ErrorFragmentTooBig
)

func init() {
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorBadMessage:
		return "malformed record received"
	case ErrorCipherType:
		return "record algorithm family is not supported"
	case ErrorDecrypt:
		return "record decryption failed"
	case ErrorEncrypt:
		return "record encryption failed"
	case ErrorSequenceOverflow:
		return "record sequence number wrapped"
	case ErrorFragmentTooBig:
		return "record fragment exceeds the negotiated maximum"
	}

	return ""
}
