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

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"time"

	"golang.org/x/crypto/ocsp"

	liberr "github.com/nabbar/gotls/errors"
)

// TrustStore holds the root certificates chains must reach. Read-only once
// connections start using it.
type TrustStore struct {
	pool  *x509.CertPool
	count int
}

// AddPEM appends every certificate of a PEM bundle.
func (t *TrustStore) AddPEM(data []byte) liberr.Error {
	if t == nil || t.pool == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	added := 0
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		c, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return ErrorCAFile.Error(err)
		}

		t.pool.AddCert(c)
		added++
	}

	if added == 0 {
		return ErrorCAFile.Error(nil)
	}

	t.count += added

	return nil
}

// AddCert appends one parsed certificate.
func (t *TrustStore) AddCert(c *x509.Certificate) {
	if t == nil || t.pool == nil || c == nil {
		return
	}

	t.pool.AddCert(c)
	t.count++
}

// FromFile loads a CA bundle from disk.
func (t *TrustStore) FromFile(path string) liberr.Error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ErrorCAFile.Error(err)
	}

	return t.AddPEM(data)
}

// HasCerts reports whether any anchor is installed.
func (t *TrustStore) HasCerts() bool {
	return t != nil && t.count > 0
}

// Validator checks one connection's peer chain. One instance per
// connection.
type Validator struct {
	store      *TrustStore
	verifyHost HostVerifier
	wallClock  func() time.Time
	checkOCSP  bool
	skip       bool

	// parsed chain of the last validation, kept for the OCSP check
	chain []*x509.Certificate
}

// SetWallClock overrides the validation clock.
func (v *Validator) SetWallClock(f func() time.Time) {
	if f != nil {
		v.wallClock = f
	}
}

// SetCheckOCSP enables stapled OCSP validation.
func (v *Validator) SetCheckOCSP(enable bool) {
	v.checkOCSP = enable
}

// CheckOCSP reports whether a stapled response must be validated.
func (v *Validator) CheckOCSP() bool {
	return v != nil && v.checkOCSP && !v.skip
}

// ValidateChain parses a DER chain (leaf first), extracts the leaf public
// key, and, unless the validator runs in no-checks mode, builds the chain
// to the trust store, brackets validity against the wall clock, and runs
// the leaf names through the host predicate — SubjectAltName DNS entries
// first, CommonName only if no SAN is present.
func (v *Validator) ValidateChain(chainDER [][]byte) (Verdict, *x509.Certificate, liberr.Error) {
	if len(chainDER) == 0 {
		return VerdictInvalid, nil, ErrorCertInvalid.Error(nil)
	}

	certs := make([]*x509.Certificate, 0, len(chainDER))
	for _, der := range chainDER {
		c, err := x509.ParseCertificate(der)
		if err != nil {
			return VerdictInvalid, nil, ErrorCertInvalid.Error(err)
		}
		certs = append(certs, c)
	}

	leaf := certs[0]
	v.chain = certs

	if v.skip {
		return VerdictOK, leaf, nil
	}

	if v.store == nil || !v.store.HasCerts() {
		return VerdictUntrusted, leaf, ErrorCertUntrusted.Error(nil)
	}

	now := v.wallClock()

	inters := x509.NewCertPool()
	for _, c := range certs[1:] {
		inters.AddCert(c)
	}

	_, err := leaf.Verify(x509.VerifyOptions{
		Roots:         v.store.pool,
		Intermediates: inters,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	})
	if err != nil {
		if _, ok := err.(x509.CertificateInvalidError); ok {
			ie := err.(x509.CertificateInvalidError)
			if ie.Reason == x509.Expired {
				return VerdictExpired, leaf, ErrorCertExpired.Error(err)
			}
			return VerdictInvalid, leaf, ErrorCertInvalid.Error(err)
		}
		return VerdictUntrusted, leaf, ErrorCertUntrusted.Error(err)
	}

	if v.verifyHost != nil && !v.matchHost(leaf) {
		return VerdictUntrusted, leaf, ErrorCertUntrusted.Error(nil)
	}

	return VerdictOK, leaf, nil
}

func (v *Validator) matchHost(leaf *x509.Certificate) bool {
	if len(leaf.DNSNames) > 0 {
		for _, n := range leaf.DNSNames {
			if v.verifyHost(n) {
				return true
			}
		}
		// CommonName is only a fallback when no SAN matched and none
		// were present.
		return false
	}

	return v.verifyHost(leaf.Subject.CommonName)
}

// ValidateOCSP validates a stapled response against the previously
// validated chain: the response must verify under the issuer, its window
// must cover now, and no single response may carry a revoked status.
func (v *Validator) ValidateOCSP(response []byte) (Verdict, liberr.Error) {
	if v.skip || !v.checkOCSP {
		return VerdictOK, nil
	}

	if len(v.chain) < 2 {
		return VerdictInvalid, ErrorOCSPParse.Error(nil)
	}

	leaf, issuer := v.chain[0], v.chain[1]

	resp, err := ocsp.ParseResponseForCert(response, leaf, issuer)
	if err != nil {
		return VerdictInvalid, ErrorOCSPParse.Error(err)
	}

	now := v.wallClock()
	if now.Before(resp.ThisUpdate) || (!resp.NextUpdate.IsZero() && now.After(resp.NextUpdate)) {
		return VerdictExpired, ErrorCertExpired.Error(nil)
	}

	if resp.Status == ocsp.Revoked {
		return VerdictRevoked, ErrorCertRevoked.Error(nil)
	}

	return VerdictOK, nil
}
