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

package validator

import "github.com/nabbar/gotls/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + errors.MinPkgValidator
	ErrorCertInvalid
	ErrorCertUntrusted
	ErrorCertExpired
	ErrorCertRevoked
	ErrorCertTypeUnsupported
	ErrorCAFile
	ErrorOCSPParse
)

func init() {
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorCertInvalid:
		return "certificate chain is malformed"
	case ErrorCertUntrusted:
		return "certificate chain does not reach a trusted root"
	case ErrorCertExpired:
		return "certificate is outside its validity period"
	case ErrorCertRevoked:
		return "certificate is revoked"
	case ErrorCertTypeUnsupported:
		return "certificate key type is not supported"
	case ErrorCAFile:
		return "cannot load trust anchors"
	case ErrorOCSPParse:
		return "cannot parse stapled ocsp response"
	}

	return ""
}
