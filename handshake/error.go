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

package handshake

import "github.com/nabbar/gotls/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + errors.MinPkgHandshake
	ErrorBadMessage
	ErrorUnexpectedMessage
	ErrorUnsupportedExtension
	ErrorDuplicateExtension
	ErrorMissingExtension
	ErrorBadVersion
	ErrorHandshakeFailure
	ErrorInvalidSignatureAlgorithm
	ErrorBadSignature
	ErrorFinishedMismatch
	ErrorCertTypeUnsupported
	ErrorNoCipherOverlap
	ErrorNoGroupOverlap
	ErrorMessageTooBig
	ErrorUnknownPSKIdentity
	ErrorBinderMismatch
	ErrorHelloRetryLoop
	ErrorKeyInstall
	ErrorState
)

func init() {
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorBadMessage:
		return "malformed handshake message"
	case ErrorUnexpectedMessage:
		return "handshake message arrived out of order"
	case ErrorUnsupportedExtension:
		return "extension not allowed on this message"
	case ErrorDuplicateExtension:
		return "extension appears twice in one message"
	case ErrorMissingExtension:
		return "required extension is missing"
	case ErrorBadVersion:
		return "no protocol version in common"
	case ErrorHandshakeFailure:
		return "cannot negotiate an acceptable set of parameters"
	case ErrorInvalidSignatureAlgorithm:
		return "no usable signature scheme"
	case ErrorBadSignature:
		return "peer signature did not verify"
	case ErrorFinishedMismatch:
		return "finished verify data mismatch"
	case ErrorCertTypeUnsupported:
		return "no certificate matches the negotiated parameters"
	case ErrorNoCipherOverlap:
		return "no cipher suite in common"
	case ErrorNoGroupOverlap:
		return "no supported group in common"
	case ErrorMessageTooBig:
		return "handshake message exceeds the reassembly ceiling"
	case ErrorUnknownPSKIdentity:
		return "no offered psk identity is known"
	case ErrorBinderMismatch:
		return "psk binder did not verify"
	case ErrorHelloRetryLoop:
		return "second hello retry request received"
	case ErrorKeyInstall:
		return "cannot install session keys"
	case ErrorState:
		return "handshake driver used out of order"
	}

	return ""
}
