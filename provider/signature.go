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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"

	liberr "github.com/nabbar/gotls/errors"
)

// SignatureAlgo identifies a signature algorithm family.
type SignatureAlgo uint8

const (
	SigAnonymous SignatureAlgo = iota
	SigRSAPKCS1
	SigRSAPSSRSAE
	SigRSAPSSPSS
	SigECDSA
	SigEd25519
)

// String implements fmt.Stringer.
func (s SignatureAlgo) String() string {
	switch s {
	case SigRSAPKCS1:
		return "rsa_pkcs1"
	case SigRSAPSSRSAE:
		return "rsa_pss_rsae"
	case SigRSAPSSPSS:
		return "rsa_pss_pss"
	case SigECDSA:
		return "ecdsa"
	case SigEd25519:
		return "ed25519"
	}

	return "anonymous"
}

func hashMessage(h HashAlgo, msg []byte) ([]byte, liberr.Error) {
	hs, err := NewHash(h)
	if err != nil {
		return nil, err
	}

	if err = hs.Update(msg); err != nil {
		return nil, err
	}

	sum := make([]byte, hs.Size())
	if err = hs.Digest(sum); err != nil {
		return nil, err
	}

	return sum, nil
}

// Sign produces a signature over msg with the given scheme.
func Sign(sig SignatureAlgo, h HashAlgo, key crypto.Signer, msg []byte) ([]byte, liberr.Error) {
	if key == nil {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	if sig == SigEd25519 {
		res, err := key.Sign(rand.Reader, msg, crypto.Hash(0))
		if err != nil {
			return nil, ErrorSignature.Error(err)
		}
		return res, nil
	}

	digest, er := hashMessage(h, msg)
	if er != nil {
		return nil, er
	}

	var opts crypto.SignerOpts = h.Crypto()
	if sig == SigRSAPSSRSAE || sig == SigRSAPSSPSS {
		opts = &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       h.Crypto(),
		}
	}

	res, err := key.Sign(rand.Reader, digest, opts)
	if err != nil {
		return nil, ErrorSignature.Error(err)
	}

	return res, nil
}

// Verify checks a signature over msg with the given scheme.
func Verify(sig SignatureAlgo, h HashAlgo, pub crypto.PublicKey, msg, signature []byte) liberr.Error {
	if pub == nil {
		return ErrorParamsEmpty.Error(nil)
	}

	if sig == SigEd25519 {
		k, ok := pub.(ed25519.PublicKey)
		if !ok || !ed25519.Verify(k, msg, signature) {
			return ErrorSignature.Error(nil)
		}
		return nil
	}

	digest, er := hashMessage(h, msg)
	if er != nil {
		return er
	}

	switch sig {
	case SigRSAPKCS1:
		k, ok := pub.(*rsa.PublicKey)
		if !ok {
			return ErrorSignature.Error(nil)
		}
		if err := rsa.VerifyPKCS1v15(k, h.Crypto(), digest, signature); err != nil {
			return ErrorSignature.Error(err)
		}
		return nil

	case SigRSAPSSRSAE, SigRSAPSSPSS:
		k, ok := pub.(*rsa.PublicKey)
		if !ok {
			return ErrorSignature.Error(nil)
		}
		opt := &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
			Hash:       h.Crypto(),
		}
		if err := rsa.VerifyPSS(k, h.Crypto(), digest, signature, opt); err != nil {
			return ErrorSignature.Error(err)
		}
		return nil

	case SigECDSA:
		k, ok := pub.(*ecdsa.PublicKey)
		if !ok || !ecdsa.VerifyASN1(k, digest, signature) {
			return ErrorSignature.Error(nil)
		}
		return nil
	}

	return ErrorSignature.Error(nil)
}
