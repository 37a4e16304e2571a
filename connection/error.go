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

import "github.com/nabbar/gotls/errors"

const (
	ErrorParamsEmpty errors.CodeError = iota + errors.MinPkgConnection
	ErrorIOBlockedRead
	ErrorIOBlockedWrite
	ErrorIOBlockedCallback
	ErrorIOFailed
	ErrorClosed
	ErrorAlertReceived
	ErrorConfigInvalid
	ErrorConfigFrozen
	ErrorState
	ErrorBadSession
)

func init() {
	errors.RegisterIdFctMessage(ErrorParamsEmpty, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrorParamsEmpty:
		return "given parameters is empty"
	case ErrorIOBlockedRead:
		return "transport has no bytes to read"
	case ErrorIOBlockedWrite:
		return "transport cannot take more bytes"
	case ErrorIOBlockedCallback:
		return "waiting on an application callback"
	case ErrorIOFailed:
		return "transport reported a failure"
	case ErrorClosed:
		return "connection is closed"
	case ErrorAlertReceived:
		return "peer sent a fatal alert"
	case ErrorConfigInvalid:
		return "connection configuration is invalid"
	case ErrorConfigFrozen:
		return "configuration is attached and immutable"
	case ErrorState:
		return "operation not legal in the current connection state"
	case ErrorBadSession:
		return "persisted session state cannot be decoded"
	}

	return ""
}

// IsBlocked reports whether the error only signals a suspension point and
// the operation may be resumed.
func IsBlocked(err errors.Error) bool {
	if err == nil {
		return false
	}

	return err.IsCode(ErrorIOBlockedRead) ||
		err.IsCode(ErrorIOBlockedWrite) ||
		err.IsCode(ErrorIOBlockedCallback)
}
