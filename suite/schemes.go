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
	libprv "github.com/nabbar/gotls/provider"
)

// SignatureScheme is an immutable signature scheme descriptor.
type SignatureScheme struct {
	IANA uint16
	Name string
	Sig  libprv.SignatureAlgo
	Hash libprv.HashAlgo
	// Curve binds an ECDSA scheme to its curve; the binding is enforced
	// in TLS 1.3 only.
	Curve      NamedGroup
	MinVersion Version
	MaxVersion Version
}

// UsableWith reports whether the scheme may sign under the given protocol
// version.
func (s *SignatureScheme) UsableWith(v Version) bool {
	return s.MinVersion <= v && v <= s.MaxVersion
}

var (
	RSAPKCS1SHA1 = &SignatureScheme{
		IANA:       0x0201,
		Name:       "rsa_pkcs1_sha1",
		Sig:        libprv.SigRSAPKCS1,
		Hash:       libprv.HashSHA1,
		MinVersion: VersionTLS10,
		MaxVersion: VersionTLS12,
	}

	ECDSASHA1 = &SignatureScheme{
		IANA:       0x0203,
		Name:       "ecdsa_sha1",
		Sig:        libprv.SigECDSA,
		Hash:       libprv.HashSHA1,
		MinVersion: VersionTLS10,
		MaxVersion: VersionTLS12,
	}

	RSAPKCS1SHA256 = &SignatureScheme{
		IANA:       0x0401,
		Name:       "rsa_pkcs1_sha256",
		Sig:        libprv.SigRSAPKCS1,
		Hash:       libprv.HashSHA256,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS12,
	}

	RSAPKCS1SHA384 = &SignatureScheme{
		IANA:       0x0501,
		Name:       "rsa_pkcs1_sha384",
		Sig:        libprv.SigRSAPKCS1,
		Hash:       libprv.HashSHA384,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS12,
	}

	RSAPKCS1SHA512 = &SignatureScheme{
		IANA:       0x0601,
		Name:       "rsa_pkcs1_sha512",
		Sig:        libprv.SigRSAPKCS1,
		Hash:       libprv.HashSHA512,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS12,
	}

	ECDSASecp256r1SHA256 = &SignatureScheme{
		IANA:       0x0403,
		Name:       "ecdsa_secp256r1_sha256",
		Sig:        libprv.SigECDSA,
		Hash:       libprv.HashSHA256,
		Curve:      GroupP256,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	ECDSASecp384r1SHA384 = &SignatureScheme{
		IANA:       0x0503,
		Name:       "ecdsa_secp384r1_sha384",
		Sig:        libprv.SigECDSA,
		Hash:       libprv.HashSHA384,
		Curve:      GroupP384,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	ECDSASecp521r1SHA512 = &SignatureScheme{
		IANA:       0x0603,
		Name:       "ecdsa_secp521r1_sha512",
		Sig:        libprv.SigECDSA,
		Hash:       libprv.HashSHA512,
		Curve:      GroupP521,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	RSAPSSRSAESHA256 = &SignatureScheme{
		IANA:       0x0804,
		Name:       "rsa_pss_rsae_sha256",
		Sig:        libprv.SigRSAPSSRSAE,
		Hash:       libprv.HashSHA256,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	RSAPSSRSAESHA384 = &SignatureScheme{
		IANA:       0x0805,
		Name:       "rsa_pss_rsae_sha384",
		Sig:        libprv.SigRSAPSSRSAE,
		Hash:       libprv.HashSHA384,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	RSAPSSRSAESHA512 = &SignatureScheme{
		IANA:       0x0806,
		Name:       "rsa_pss_rsae_sha512",
		Sig:        libprv.SigRSAPSSRSAE,
		Hash:       libprv.HashSHA512,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	Ed25519 = &SignatureScheme{
		IANA:       0x0807,
		Name:       "ed25519",
		Sig:        libprv.SigEd25519,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	RSAPSSPSSSHA256 = &SignatureScheme{
		IANA:       0x0809,
		Name:       "rsa_pss_pss_sha256",
		Sig:        libprv.SigRSAPSSPSS,
		Hash:       libprv.HashSHA256,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	RSAPSSPSSSHA384 = &SignatureScheme{
		IANA:       0x080A,
		Name:       "rsa_pss_pss_sha384",
		Sig:        libprv.SigRSAPSSPSS,
		Hash:       libprv.HashSHA384,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}

	RSAPSSPSSSHA512 = &SignatureScheme{
		IANA:       0x080B,
		Name:       "rsa_pss_pss_sha512",
		Sig:        libprv.SigRSAPSSPSS,
		Hash:       libprv.HashSHA512,
		MinVersion: VersionTLS12,
		MaxVersion: VersionTLS13,
	}
)

var allSchemes = []*SignatureScheme{
	ECDSASecp256r1SHA256,
	ECDSASecp384r1SHA384,
	ECDSASecp521r1SHA512,
	Ed25519,
	RSAPSSRSAESHA256,
	RSAPSSRSAESHA384,
	RSAPSSRSAESHA512,
	RSAPSSPSSSHA256,
	RSAPSSPSSSHA384,
	RSAPSSPSSSHA512,
	RSAPKCS1SHA256,
	RSAPKCS1SHA384,
	RSAPKCS1SHA512,
	RSAPKCS1SHA1,
	ECDSASHA1,
}
