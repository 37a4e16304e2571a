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

package suite

import (
	libkem "github.com/nabbar/gotls/kem"
	libprv "github.com/nabbar/gotls/provider"
)

// KexMethod is the key exchange family of a cipher suite.
type KexMethod uint8

const (
	// KexNone marks a TLS 1.3 suite: key exchange is negotiated apart.
	KexNone KexMethod = iota
	KexRSA
	KexECDHE
	// KexECDHEKEM is the hybrid exchange: ECDHE plus a KEM encapsulation.
	KexECDHEKEM
)

// Ephemeral reports whether the exchange provides forward secrecy.
func (k KexMethod) Ephemeral() bool {
	return k == KexECDHE || k == KexECDHEKEM || k == KexNone
}

// AuthMethod is the certificate family a suite authenticates with.
type AuthMethod uint8

const (
	// AuthSentinel marks a TLS 1.3 suite: authentication is not tied to
	// the cipher suite.
	AuthSentinel AuthMethod = iota
	AuthRSA
	AuthECDSA
)

// NonceMode selects the AEAD nonce construction.
type NonceMode uint8

const (
	// NonceNone is used by CBC, stream and composite suites.
	NonceNone NonceMode = iota
	// NonceExplicit is the partially explicit TLS 1.2 AES-GCM nonce:
	// fixed IV || record IV from the ciphertext head.
	NonceExplicit
	// NonceImplicitXOR is the fully implicit nonce: fixed IV XOR padded
	// sequence number (ChaCha20-Poly1305, all of TLS 1.3).
	NonceImplicitXOR
)

// CipherSuite is an immutable cipher suite descriptor.
type CipherSuite struct {
	IANA       uint16
	Name       string
	Kex        KexMethod
	Auth       AuthMethod
	Cipher     func() libprv.RecordCipher
	NonceMode  NonceMode
	MACAlgo    libprv.HashAlgo
	KEM        func() libkem.KEM
	MinVersion Version
	PRFHash    libprv.HashAlgo
}

// IsTLS13 reports whether the suite belongs to TLS 1.3.
func (s *CipherSuite) IsTLS13() bool {
	return s.Kex == KexNone
}

// Bytes returns the wire form of the code point.
func (s *CipherSuite) Bytes() [2]byte {
	return [2]byte{byte(s.IANA >> 8), byte(s.IANA)}
}

var (
	RSAWithAES128CBCSHA = &CipherSuite{
		IANA:       0x002F,
		Name:       "TLS_RSA_WITH_AES_128_CBC_SHA",
		Kex:        KexRSA,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESCBC(16, libprv.HashSHA1) },
		MACAlgo:    libprv.HashSHA1,
		MinVersion: VersionTLS10,
		PRFHash:    libprv.HashSHA256,
	}

	RSAWithAES256CBCSHA = &CipherSuite{
		IANA:       0x0035,
		Name:       "TLS_RSA_WITH_AES_256_CBC_SHA",
		Kex:        KexRSA,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESCBC(32, libprv.HashSHA1) },
		MACAlgo:    libprv.HashSHA1,
		MinVersion: VersionTLS10,
		PRFHash:    libprv.HashSHA256,
	}

	RSAWithRC4128SHA = &CipherSuite{
		IANA:       0x0005,
		Name:       "TLS_RSA_WITH_RC4_128_SHA",
		Kex:        KexRSA,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.RC4(16, libprv.HashSHA1) },
		MACAlgo:    libprv.HashSHA1,
		MinVersion: VersionTLS10,
		PRFHash:    libprv.HashSHA256,
	}

	RSAWithAES128CBCSHA256 = &CipherSuite{
		IANA:       0x003C,
		Name:       "TLS_RSA_WITH_AES_128_CBC_SHA256",
		Kex:        KexRSA,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESCBCHMAC(16, libprv.HashSHA256) },
		MACAlgo:    libprv.HashSHA256,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA256,
	}

	ECDHERSAWithAES128CBCSHA = &CipherSuite{
		IANA:       0xC013,
		Name:       "TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA",
		Kex:        KexECDHE,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESCBC(16, libprv.HashSHA1) },
		MACAlgo:    libprv.HashSHA1,
		MinVersion: VersionTLS10,
		PRFHash:    libprv.HashSHA256,
	}

	ECDHERSAWithAES128GCMSHA256 = &CipherSuite{
		IANA:       0xC02F,
		Name:       "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
		Kex:        KexECDHE,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM12(16) },
		NonceMode:  NonceExplicit,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA256,
	}

	ECDHERSAWithAES256GCMSHA384 = &CipherSuite{
		IANA:       0xC030,
		Name:       "TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384",
		Kex:        KexECDHE,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM12(32) },
		NonceMode:  NonceExplicit,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA384,
	}

	ECDHEECDSAWithAES128GCMSHA256 = &CipherSuite{
		IANA:       0xC02B,
		Name:       "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
		Kex:        KexECDHE,
		Auth:       AuthECDSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM12(16) },
		NonceMode:  NonceExplicit,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA256,
	}

	ECDHEECDSAWithAES256GCMSHA384 = &CipherSuite{
		IANA:       0xC02C,
		Name:       "TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384",
		Kex:        KexECDHE,
		Auth:       AuthECDSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM12(32) },
		NonceMode:  NonceExplicit,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA384,
	}

	ECDHERSAWithChaCha20Poly1305 = &CipherSuite{
		IANA:       0xCCA8,
		Name:       "TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256",
		Kex:        KexECDHE,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.ChaCha20Poly1305() },
		NonceMode:  NonceImplicitXOR,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA256,
	}

	ECDHEECDSAWithChaCha20Poly1305 = &CipherSuite{
		IANA:       0xCCA9,
		Name:       "TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256",
		Kex:        KexECDHE,
		Auth:       AuthECDSA,
		Cipher:     func() libprv.RecordCipher { return libprv.ChaCha20Poly1305() },
		NonceMode:  NonceImplicitXOR,
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA256,
	}

	ECDHEKyberRSAWithAES256GCMSHA384 = &CipherSuite{
		IANA:       0xFF0C,
		Name:       "TLS_ECDHE_KYBER_RSA_WITH_AES_256_GCM_SHA384",
		Kex:        KexECDHEKEM,
		Auth:       AuthRSA,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM12(32) },
		NonceMode:  NonceExplicit,
		KEM:        func() libkem.KEM { return libkem.Kyber768() },
		MinVersion: VersionTLS12,
		PRFHash:    libprv.HashSHA384,
	}

	AES128GCMSHA256 = &CipherSuite{
		IANA:       0x1301,
		Name:       "TLS_AES_128_GCM_SHA256",
		Kex:        KexNone,
		Auth:       AuthSentinel,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM13(16) },
		NonceMode:  NonceImplicitXOR,
		MinVersion: VersionTLS13,
		PRFHash:    libprv.HashSHA256,
	}

	AES256GCMSHA384 = &CipherSuite{
		IANA:       0x1302,
		Name:       "TLS_AES_256_GCM_SHA384",
		Kex:        KexNone,
		Auth:       AuthSentinel,
		Cipher:     func() libprv.RecordCipher { return libprv.AESGCM13(32) },
		NonceMode:  NonceImplicitXOR,
		MinVersion: VersionTLS13,
		PRFHash:    libprv.HashSHA384,
	}

	ChaCha20Poly1305SHA256 = &CipherSuite{
		IANA:       0x1303,
		Name:       "TLS_CHACHA20_POLY1305_SHA256",
		Kex:        KexNone,
		Auth:       AuthSentinel,
		Cipher:     func() libprv.RecordCipher { return libprv.ChaCha20Poly1305() },
		NonceMode:  NonceImplicitXOR,
		MinVersion: VersionTLS13,
		PRFHash:    libprv.HashSHA256,
	}
)

var allSuites = []*CipherSuite{
	AES128GCMSHA256,
	AES256GCMSHA384,
	ChaCha20Poly1305SHA256,
	ECDHEECDSAWithAES128GCMSHA256,
	ECDHEECDSAWithAES256GCMSHA384,
	ECDHEECDSAWithChaCha20Poly1305,
	ECDHERSAWithAES128GCMSHA256,
	ECDHERSAWithAES256GCMSHA384,
	ECDHERSAWithChaCha20Poly1305,
	ECDHEKyberRSAWithAES256GCMSHA384,
	ECDHERSAWithAES128CBCSHA,
	RSAWithAES128CBCSHA256,
	RSAWithAES128CBCSHA,
	RSAWithAES256CBCSHA,
	RSAWithRC4128SHA,
}

var defaultPreference = []*CipherSuite{
	AES128GCMSHA256,
	AES256GCMSHA384,
	ChaCha20Poly1305SHA256,
	ECDHEECDSAWithAES128GCMSHA256,
	ECDHEECDSAWithAES256GCMSHA384,
	ECDHEECDSAWithChaCha20Poly1305,
	ECDHERSAWithAES128GCMSHA256,
	ECDHERSAWithAES256GCMSHA384,
	ECDHERSAWithChaCha20Poly1305,
	ECDHERSAWithAES128CBCSHA,
	RSAWithAES128CBCSHA256,
	RSAWithAES128CBCSHA,
	RSAWithAES256CBCSHA,
}
