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

// Package validator checks peer certificate chains against a trust store,
// a wall clock, a caller-supplied host predicate and an optional stapled
// OCSP response.
//
// The TLS core parses the leaf itself (the public key is needed to
// continue the handshake) and delegates everything else here. The trust
// store is read-only after initialization and may be shared by any number
// of connections.
package validator

import (
	"crypto/x509"
	"time"

	liberr "github.com/nabbar/gotls/errors"
)

// Verdict is the outcome of a chain validation.
type Verdict uint8

const (
	VerdictOK Verdict = iota
	VerdictInvalid
	VerdictUntrusted
	VerdictExpired
	VerdictRevoked
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictInvalid:
		return "invalid"
	case VerdictUntrusted:
		return "untrusted"
	case VerdictExpired:
		return "expired"
	case VerdictRevoked:
		return "revoked"
	}

	return "invalid"
}

// Err maps a failing verdict to its error code, nil for VerdictOK.
func (v Verdict) Err() liberr.Error {
	switch v {
	case VerdictOK:
		return nil
	case VerdictUntrusted:
		return ErrorCertUntrusted.Error(nil)
	case VerdictExpired:
		return ErrorCertExpired.Error(nil)
	case VerdictRevoked:
		return ErrorCertRevoked.Error(nil)
	}

	return ErrorCertInvalid.Error(nil)
}

// HostVerifier decides whether a certificate name satisfies the expected
// peer identity.
type HostVerifier func(name string) bool

// New returns a validator in safe mode: chains are built to the trust
// store, validity periods are bracketed against the wall clock, and names
// go through the host predicate.
func New(store *TrustStore, verifyHost HostVerifier) *Validator {
	return &Validator{
		store:      store,
		verifyHost: verifyHost,
		wallClock:  time.Now,
	}
}

// NewNoChecks returns a validator that only extracts the public key. Used
// when the embedder disables validation.
func NewNoChecks() *Validator {
	return &Validator{
		skip:      true,
		wallClock: time.Now,
	}
}

// NewTrustStore returns an empty trust store.
func NewTrustStore() *TrustStore {
	return &TrustStore{
		pool: x509.NewCertPool(),
	}
}
