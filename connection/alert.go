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

package connection

import (
	liberr "github.com/nabbar/gotls/errors"
	libhsk "github.com/nabbar/gotls/handshake"
	librec "github.com/nabbar/gotls/record"
	libsui "github.com/nabbar/gotls/suite"
	libxvl "github.com/nabbar/gotls/validator"
)

// alertFor is the one-shot conversion from an internal error to the alert
// description the peer sees. Internal invariants map to internal_error.
func alertFor(err liberr.Error) libsui.AlertDescription {
	switch {
	case err == nil:
		return libsui.AlertInternalError

	case liberr.Is(err, librec.ErrorDecrypt):
		return libsui.AlertBadRecordMAC

	case liberr.Is(err, libhsk.ErrorBadVersion):
		return libsui.AlertProtocolVersion

	case liberr.Is(err, libhsk.ErrorUnexpectedMessage):
		return libsui.AlertUnexpectedMessage

	case liberr.Is(err, libhsk.ErrorUnsupportedExtension):
		return libsui.AlertUnsupportedExtension

	case liberr.Is(err, libhsk.ErrorMissingExtension):
		return libsui.AlertMissingExtension

	case liberr.Is(err, libhsk.ErrorFinishedMismatch),
		liberr.Is(err, libhsk.ErrorBinderMismatch),
		liberr.Is(err, libhsk.ErrorBadSignature):
		return libsui.AlertDecryptError

	case liberr.Is(err, libhsk.ErrorUnknownPSKIdentity):
		return libsui.AlertUnknownPSKIdentity

	case liberr.Is(err, libxvl.ErrorCertExpired):
		return libsui.AlertCertificateExpired

	case liberr.Is(err, libxvl.ErrorCertRevoked):
		return libsui.AlertCertificateRevoked

	case liberr.Is(err, libxvl.ErrorCertUntrusted):
		return libsui.AlertUnknownCA

	case liberr.Is(err, libxvl.ErrorCertInvalid),
		liberr.Is(err, libhsk.ErrorCertTypeUnsupported):
		return libsui.AlertBadCertificate

	case liberr.Is(err, libhsk.ErrorInvalidSignatureAlgorithm),
		liberr.Is(err, libhsk.ErrorNoCipherOverlap),
		liberr.Is(err, libhsk.ErrorNoGroupOverlap),
		liberr.Is(err, libhsk.ErrorHandshakeFailure),
		liberr.Is(err, libhsk.ErrorHelloRetryLoop):
		return libsui.AlertHandshakeFailure

	case liberr.Is(err, libhsk.ErrorDuplicateExtension),
		liberr.Is(err, libhsk.ErrorBadMessage),
		liberr.Is(err, libhsk.ErrorMessageTooBig),
		liberr.Is(err, librec.ErrorBadMessage):
		return libsui.AlertDecodeError
	}

	return libsui.AlertInternalError
}
