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

// Package prf implements the TLS 1.2 pseudo random function (RFC 5246
// section 5) and the key derivations built on it, including the hybrid
// master secret used by post-quantum suites.
package prf

import (
	libblb "github.com/nabbar/gotls/blob"
	liberr "github.com/nabbar/gotls/errors"
	libprv "github.com/nabbar/gotls/provider"
)

const (
	LabelMasterSecret       = "master secret"
	LabelHybridMasterSecret = "hybrid master secret"
	LabelExtendedMaster     = "extended master secret"
	LabelKeyExpansion       = "key expansion"
	LabelClientFinished     = "client finished"
	LabelServerFinished     = "server finished"
)

// pHash is P_hash from RFC 5246: HMAC chained over A(i) || seed.
func pHash(algo libprv.HashAlgo, secret, seed []byte, outLen int) ([]byte, liberr.Error) {
	mac, err := libprv.NewHMAC(algo, secret)
	if err != nil {
		return nil, err
	}
	defer mac.Wipe()

	out := make([]byte, 0, outLen)
	a := append([]byte(nil), seed...)

	for len(out) < outLen {
		// A(i) = HMAC(secret, A(i-1))
		if err = mac.Update(a); err != nil {
			return nil, err
		}
		next := make([]byte, mac.Size())
		if err = mac.Digest(next); err != nil {
			return nil, err
		}
		mac.Reset()
		a = next

		if err = mac.Update(a); err != nil {
			return nil, err
		}
		if err = mac.Update(seed); err != nil {
			return nil, err
		}
		block := make([]byte, mac.Size())
		if err = mac.Digest(block); err != nil {
			return nil, err
		}
		mac.Reset()

		out = append(out, block...)
	}

	return out[:outLen], nil
}

// PRF computes the TLS pseudo random function. For HashMD5SHA1 the TLS
// 1.0/1.1 construction splits the secret between P_MD5 and P_SHA1 and XORs
// the streams, otherwise P_hash runs on the suite hash.
func PRF(algo libprv.HashAlgo, secret []byte, label string, seed []byte, outLen int) ([]byte, liberr.Error) {
	if outLen <= 0 {
		return nil, ErrorParamsEmpty.Error(nil)
	}

	ls := make([]byte, 0, len(label)+len(seed))
	ls = append(ls, label...)
	ls = append(ls, seed...)

	if algo != libprv.HashMD5SHA1 {
		return pHash(algo, secret, ls, outLen)
	}

	half := (len(secret) + 1) / 2
	s1 := secret[:half]
	s2 := secret[len(secret)-half:]

	md, err := pHash(libprv.HashMD5, s1, ls, outLen)
	if err != nil {
		return nil, err
	}

	sh, err := pHash(libprv.HashSHA1, s2, ls, outLen)
	if err != nil {
		return nil, err
	}

	for i := range md {
		md[i] ^= sh[i]
	}
	libblb.WipeBytes(sh)

	return md, nil
}

// MasterSecret derives the 48 byte TLS 1.2 master secret.
func MasterSecret(algo libprv.HashAlgo, pms, clientRandom, serverRandom []byte) ([]byte, liberr.Error) {
	seed := make([]byte, 0, len(clientRandom)+len(serverRandom))
	seed = append(seed, clientRandom...)
	seed = append(seed, serverRandom...)

	return PRF(algo, pms, LabelMasterSecret, seed, 48)
}

// HybridMasterSecret derives the master secret for a hybrid key exchange.
// The premaster secret is classical_pms || kem_pms, and the raw client key
// exchange message is mixed into the seed to pin the KEM ciphertext against
// malleability.
func HybridMasterSecret(algo libprv.HashAlgo, pms, clientRandom, serverRandom, clientKeyExchange []byte) ([]byte, liberr.Error) {
	seed := make([]byte, 0, len(clientRandom)+len(serverRandom)+len(clientKeyExchange))
	seed = append(seed, clientRandom...)
	seed = append(seed, serverRandom...)
	seed = append(seed, clientKeyExchange...)

	return PRF(algo, pms, LabelHybridMasterSecret, seed, 48)
}

// ExtendedMasterSecret derives the RFC 7627 master secret from the session
// hash instead of the randoms.
func ExtendedMasterSecret(algo libprv.HashAlgo, pms, sessionHash []byte) ([]byte, liberr.Error) {
	return PRF(algo, pms, LabelExtendedMaster, sessionHash, 48)
}

// KeyBlock derives the TLS 1.2 key expansion block. The seed reverses the
// random order used by the master secret.
func KeyBlock(algo libprv.HashAlgo, master, serverRandom, clientRandom []byte, outLen int) ([]byte, liberr.Error) {
	seed := make([]byte, 0, len(serverRandom)+len(clientRandom))
	seed = append(seed, serverRandom...)
	seed = append(seed, clientRandom...)

	return PRF(algo, master, LabelKeyExpansion, seed, outLen)
}

// FinishedData computes the 12 byte TLS 1.2 Finished verify data.
func FinishedData(algo libprv.HashAlgo, master []byte, client bool, transcriptHash []byte) ([]byte, liberr.Error) {
	label := LabelServerFinished
	if client {
		label = LabelClientFinished
	}

	return PRF(algo, master, label, transcriptHash, 12)
}
