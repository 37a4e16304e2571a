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

import (
	libstf "github.com/nabbar/gotls/stuffer"
	libsui "github.com/nabbar/gotls/suite"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// encodeExtVector frames raw (type, payload) pairs as a wire extension
// vector.
func encodeExtVector(entries ...[2]interface{}) []byte {
	body, err := libstf.New(256)
	Expect(err).ToNot(HaveOccurred())

	res, err := body.ReserveUint16()
	Expect(err).ToNot(HaveOccurred())

	for _, e := range entries {
		Expect(body.WriteUint16(e[0].(uint16))).ToNot(HaveOccurred())
		payload := e[1].([]byte)
		Expect(body.WriteUint16(uint16(len(payload)))).ToNot(HaveOccurred())
		Expect(body.WriteBytes(payload)).ToNot(HaveOccurred())
	}

	Expect(body.WriteVectorSize(res)).ToNot(HaveOccurred())

	return append([]byte(nil), body.Written()...)
}

var _ = Describe("Extension dispatch", func() {
	Context("parsing", func() {
		It("should reject a duplicated extension type", func() {
			raw := encodeExtVector(
				[2]interface{}{libsui.ExtServerName, []byte{}},
				[2]interface{}{libsui.ExtServerName, []byte{}},
			)

			_, err := parseExtensionList(libstf.FromBytes(raw))
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(ErrorDuplicateExtension)).To(BeTrue())
		})

		It("should silently ignore unknown code points", func() {
			raw := encodeExtVector(
				[2]interface{}{uint16(0xFAFA), []byte{1, 2, 3}},
				[2]interface{}{libsui.ExtSupportedGroups, []byte{0, 2, 0, 29}},
			)

			parsed, err := parseExtensionList(libstf.FromBytes(raw))
			Expect(err).ToNot(HaveOccurred())
			Expect(parsed.arr[extIdxSupportedGroups].present).To(BeTrue())
		})

		It("should reject an inner length running past the outer vector", func() {
			body, err := libstf.New(64)
			Expect(err).ToNot(HaveOccurred())

			// outer says 6 bytes, entry claims an 8 byte payload
			Expect(body.WriteUint16(6)).ToNot(HaveOccurred())
			Expect(body.WriteUint16(libsui.ExtServerName)).ToNot(HaveOccurred())
			Expect(body.WriteUint16(8)).ToNot(HaveOccurred())
			Expect(body.WriteUint16(0)).ToNot(HaveOccurred())

			_, perr := parseExtensionList(libstf.FromBytes(body.Written()))
			Expect(perr).To(HaveOccurred())
			Expect(perr.IsCode(ErrorBadMessage)).To(BeTrue())
		})
	})

	Context("processing", func() {
		var c *Conn

		BeforeEach(func() {
			var err error
			c, err = NewConn(RoleServer, &Settings{
				VersionMin: libsui.VersionTLS12,
				VersionMax: libsui.VersionTLS13,
				Suites:     libsui.DefaultSuites(),
				Groups:     libsui.DefaultGroups(),
				Schemes:    libsui.DefaultSchemes(),
			})
			Expect(err).To(BeNil())
		})

		It("should fail on an extension the message kind does not expect", func() {
			// key_share is not a legal EncryptedExtensions member
			raw := encodeExtVector(
				[2]interface{}{libsui.ExtKeyShare, []byte{0, 2, 0, 29}},
			)

			err := c.recvExtensions(msgEncryptedExtensions, libstf.FromBytes(raw))
			Expect(err).To(HaveOccurred())
			Expect(err.IsCode(ErrorUnsupportedExtension)).To(BeTrue())
		})

		It("should treat a server name overrunning its list as malformed", func() {
			sni, err := libstf.New(64)
			Expect(err).To(BeNil())

			// list claims 5 bytes, the inner name claims 9
			Expect(sni.WriteUint16(5)).ToNot(HaveOccurred())
			Expect(sni.WriteUint8(0)).ToNot(HaveOccurred())
			Expect(sni.WriteUint16(9)).ToNot(HaveOccurred())
			Expect(sni.WriteBytes([]byte("ab"))).ToNot(HaveOccurred())

			raw := encodeExtVector(
				[2]interface{}{libsui.ExtServerName, append([]byte(nil), sni.Written()...)},
			)

			perr := c.recvExtensions(msgClientHello, libstf.FromBytes(raw))
			Expect(perr).To(HaveOccurred())
			Expect(perr.IsCode(ErrorBadMessage)).To(BeTrue())
		})

		It("should store a well formed server name", func() {
			sni, err := libstf.New(64)
			Expect(err).To(BeNil())

			name := []byte("example.com")
			Expect(sni.WriteUint16(uint16(len(name) + 3))).ToNot(HaveOccurred())
			Expect(sni.WriteUint8(0)).ToNot(HaveOccurred())
			Expect(sni.WriteUint16(uint16(len(name)))).ToNot(HaveOccurred())
			Expect(sni.WriteBytes(name)).ToNot(HaveOccurred())

			raw := encodeExtVector(
				[2]interface{}{libsui.ExtServerName, append([]byte(nil), sni.Written()...)},
			)

			Expect(c.recvExtensions(msgClientHello, libstf.FromBytes(raw))).ToNot(HaveOccurred())
			Expect(c.SNI).To(Equal("example.com"))
		})
	})
})

var _ = Describe("Version negotiation", func() {
	newServer := func(min, max libsui.Version) *Conn {
		c, err := NewConn(RoleServer, &Settings{
			VersionMin: min,
			VersionMax: max,
			Suites:     libsui.DefaultSuites(),
			Groups:     libsui.DefaultGroups(),
			Schemes:    libsui.DefaultSchemes(),
		})
		Expect(err).To(BeNil())

		return c
	}

	It("should pick the highest common supported_versions entry", func() {
		c := newServer(libsui.VersionTLS12, libsui.VersionTLS13)
		c.peerVersions = []uint16{uint16(libsui.VersionTLS13), uint16(libsui.VersionTLS12)}

		Expect(c.negotiateVersion(libsui.VersionTLS12)).ToNot(HaveOccurred())
		Expect(c.Version).To(Equal(libsui.VersionTLS13))
	})

	It("should fall back to the legacy field capped at TLS 1.2", func() {
		c := newServer(libsui.VersionTLS10, libsui.VersionTLS12)

		Expect(c.negotiateVersion(libsui.VersionTLS13)).ToNot(HaveOccurred())
		Expect(c.Version).To(Equal(libsui.VersionTLS12))
	})

	It("should refuse a client below the configured floor", func() {
		c := newServer(libsui.VersionTLS12, libsui.VersionTLS13)

		err := c.negotiateVersion(libsui.VersionTLS11)
		Expect(err).To(HaveOccurred())
		Expect(err.IsCode(ErrorBadVersion)).To(BeTrue())
	})
})

var _ = Describe("Cipher suite selection", func() {
	It("should take the first local preference the client offers", func() {
		c, err := NewConn(RoleServer, &Settings{
			VersionMin: libsui.VersionTLS12,
			VersionMax: libsui.VersionTLS12,
			Suites: []*libsui.CipherSuite{
				libsui.ECDHERSAWithAES256GCMSHA384,
				libsui.ECDHERSAWithAES128GCMSHA256,
			},
			Groups:  libsui.DefaultGroups(),
			Schemes: libsui.DefaultSchemes(),
			Certs: []*CertChain{{
				KeyType: PKeyRSA,
			}},
		})
		Expect(err).To(BeNil())

		c.Version = libsui.VersionTLS12
		c.peerGroups = []uint16{uint16(libsui.GroupX25519)}

		Expect(c.negotiateSuite([]uint16{
			libsui.ECDHERSAWithAES128GCMSHA256.IANA,
			libsui.ECDHERSAWithAES256GCMSHA384.IANA,
		})).ToNot(HaveOccurred())

		Expect(c.Suite).To(Equal(libsui.ECDHERSAWithAES256GCMSHA384))
	})

	It("should skip suites lacking a compatible certificate", func() {
		c, err := NewConn(RoleServer, &Settings{
			VersionMin: libsui.VersionTLS12,
			VersionMax: libsui.VersionTLS12,
			Suites: []*libsui.CipherSuite{
				libsui.ECDHEECDSAWithAES128GCMSHA256,
				libsui.ECDHERSAWithAES128GCMSHA256,
			},
			Groups:  libsui.DefaultGroups(),
			Schemes: libsui.DefaultSchemes(),
			Certs: []*CertChain{{
				KeyType: PKeyRSA,
			}},
		})
		Expect(err).To(BeNil())

		c.Version = libsui.VersionTLS12
		c.peerGroups = []uint16{uint16(libsui.GroupX25519)}

		Expect(c.negotiateSuite([]uint16{
			libsui.ECDHEECDSAWithAES128GCMSHA256.IANA,
			libsui.ECDHERSAWithAES128GCMSHA256.IANA,
		})).ToNot(HaveOccurred())

		Expect(c.Suite).To(Equal(libsui.ECDHERSAWithAES128GCMSHA256))
	})

	It("should fail without overlap", func() {
		c, err := NewConn(RoleServer, &Settings{
			VersionMin: libsui.VersionTLS12,
			VersionMax: libsui.VersionTLS12,
			Suites:     []*libsui.CipherSuite{libsui.ECDHERSAWithAES128GCMSHA256},
			Groups:     libsui.DefaultGroups(),
			Schemes:    libsui.DefaultSchemes(),
			Certs: []*CertChain{{
				KeyType: PKeyRSA,
			}},
		})
		Expect(err).To(BeNil())

		c.Version = libsui.VersionTLS12
		c.peerGroups = []uint16{uint16(libsui.GroupX25519)}

		serr := c.negotiateSuite([]uint16{libsui.RSAWithAES128CBCSHA.IANA})
		Expect(serr).To(HaveOccurred())
		Expect(serr.IsCode(ErrorNoCipherOverlap)).To(BeTrue())
	})
})

var _ = Describe("Handshake message reassembly", func() {
	It("should cap the reassembled size", func() {
		c, err := NewConn(RoleClient, &Settings{
			VersionMin: libsui.VersionTLS12,
			VersionMax: libsui.VersionTLS13,
			Suites:     libsui.DefaultSuites(),
			Groups:     libsui.DefaultGroups(),
			Schemes:    libsui.DefaultSchemes(),
		})
		Expect(err).To(BeNil())

		// type server_hello, 3 byte length above the ceiling
		oversized := []byte{uint8(libsui.TypeServerHello), 0x20, 0x00, 0x01}

		ferr := c.Feed(libsui.ContentHandshake, oversized)
		Expect(ferr).To(HaveOccurred())
		Expect(ferr.IsCode(ErrorMessageTooBig)).To(BeTrue())
	})

	It("should wait for a fragmented message to complete", func() {
		c, err := NewConn(RoleClient, &Settings{
			VersionMin: libsui.VersionTLS12,
			VersionMax: libsui.VersionTLS13,
			Suites:     libsui.DefaultSuites(),
			Groups:     libsui.DefaultGroups(),
			Schemes:    libsui.DefaultSchemes(),
		})
		Expect(err).To(BeNil())

		// half a header is not dispatchable yet
		Expect(c.Feed(libsui.ContentHandshake, []byte{uint8(libsui.TypeServerHello), 0})).ToNot(HaveOccurred())
		Expect(c.State()).To(Equal(StateClientHello))
	})
})
